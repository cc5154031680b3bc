package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/dm/check-es/internal/client"
)

// ErrNoHits is returned when a search matched no document.
var ErrNoHits = errors.New("search returned no hits")

// LastEntrySnapshot describes the newest document matched by the last-entry search.
type LastEntrySnapshot struct {
	Index     string
	Timestamp time.Time
	Age       time.Duration
}

// AgeSeconds returns Age in fractional seconds.
func (s LastEntrySnapshot) AgeSeconds() float64 {
	return s.Age.Seconds()
}

// Layouts tried, in order, for string timestamps. Layouts without a zone
// are read in the local time zone.
var timestampLayouts = []struct {
	layout string
	local  bool
}{
	{time.RFC3339Nano, false},
	{"2006-01-02T15:04:05.999999999Z0700", false},
	{"2006-01-02T15:04:05.999999999", true},
	{"2006-01-02 15:04:05.999999999", true},
	{"2006-01-02", true},
}

// NewLastEntrySnapshot reads the first hit of resp. The timestamp comes from
// _source.@timestamp, falling back to the first sort value (epoch millis)
// when the source does not carry the field.
func NewLastEntrySnapshot(resp *client.SearchResponse, now time.Time) (LastEntrySnapshot, error) {
	if resp == nil {
		return LastEntrySnapshot{}, fmt.Errorf("search: %w: response", ErrMissingField)
	}
	if len(resp.Hits.Hits) == 0 {
		return LastEntrySnapshot{}, ErrNoHits
	}

	hit := resp.Hits.Hits[0]
	raw, ok := hit.Source[client.TimestampField]
	if !ok && len(hit.Sort) > 0 {
		raw = hit.Sort[0]
		ok = true
	}
	if !ok {
		return LastEntrySnapshot{}, fmt.Errorf("hit %s/%s: %w: _source.%s", hit.Index, hit.ID, ErrMissingField, client.TimestampField)
	}

	ts, err := ParseTimestamp(raw)
	if err != nil {
		return LastEntrySnapshot{}, fmt.Errorf("hit %s/%s: %w", hit.Index, hit.ID, err)
	}

	return LastEntrySnapshot{
		Index:     hit.Index,
		Timestamp: ts,
		Age:       now.Sub(ts),
	}, nil
}

// ParseTimestamp decodes a JSON timestamp: an ISO-8601 string or a number
// of milliseconds since the epoch (bare or quoted).
func ParseTimestamp(raw json.RawMessage) (time.Time, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return time.Time{}, fmt.Errorf("timestamp: %w: empty value", ErrMissingField)
	}

	if raw[0] != '"' {
		var millis json.Number
		if err := json.Unmarshal(raw, &millis); err != nil {
			return time.Time{}, fmt.Errorf("timestamp %s: %w", raw, err)
		}
		return fromMillis(string(millis))
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}, fmt.Errorf("timestamp %s: %w", raw, err)
	}
	for _, l := range timestampLayouts {
		var (
			ts  time.Time
			err error
		)
		if l.local {
			ts, err = time.ParseInLocation(l.layout, s, time.Local)
		} else {
			ts, err = time.Parse(l.layout, s)
		}
		if err == nil {
			return ts, nil
		}
	}
	if ts, err := fromMillis(s); err == nil {
		return ts, nil
	}
	return time.Time{}, fmt.Errorf("timestamp %q: unrecognised format", s)
}

func fromMillis(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("timestamp %q: %w", s, err)
	}
	return time.UnixMilli(int64(f)), nil
}
