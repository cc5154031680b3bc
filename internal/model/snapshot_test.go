package model

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/check-es/internal/client"
)

func intPtr(v int) *int { return &v }

func TestNewHealthSnapshot(t *testing.T) {
	snap, err := NewHealthSnapshot(&client.ClusterHealth{
		ClusterName:         "prod",
		Status:              "yellow",
		ActivePrimaryShards: intPtr(5),
		ActiveShards:        intPtr(9),
		UnassignedShards:    intPtr(1),
	})
	require.NoError(t, err)
	assert.Equal(t, HealthSnapshot{
		ClusterName:         "prod",
		Status:              "yellow",
		ActivePrimaryShards: 5,
		ActiveShards:        9,
		UnassignedShards:    1,
	}, snap)
}

func TestNewHealthSnapshot_MissingField(t *testing.T) {
	cases := []struct {
		name string
		in   *client.ClusterHealth
	}{
		{"nil", nil},
		{"status", &client.ClusterHealth{ActivePrimaryShards: intPtr(1), ActiveShards: intPtr(1), UnassignedShards: intPtr(0)}},
		{"primaries", &client.ClusterHealth{Status: "green", ActiveShards: intPtr(1), UnassignedShards: intPtr(0)}},
		{"active", &client.ClusterHealth{Status: "green", ActivePrimaryShards: intPtr(1), UnassignedShards: intPtr(0)}},
		{"unassigned", &client.ClusterHealth{Status: "green", ActivePrimaryShards: intPtr(1), ActiveShards: intPtr(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewHealthSnapshot(tc.in)
			assert.ErrorIs(t, err, ErrMissingField)
		})
	}
}

func nodeStats(cpu, heap int, avail, total int64) client.NodePerformanceStats {
	s := client.NodePerformanceStats{
		Name: "es-data-1",
		OS:   &client.NodeOSStats{},
		JVM:  &client.NodeJVMStats{},
		FS:   &client.NodeFSStats{},
	}
	s.OS.CPU.Percent = &cpu
	s.JVM.Mem.HeapUsedPercent = &heap
	s.FS.Total.AvailableInBytes = &avail
	s.FS.Total.TotalInBytes = &total
	return s
}

func TestNewNodeSnapshot_ByID(t *testing.T) {
	resp := &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{
		"Xk2a": nodeStats(12, 40, 20, 100),
	}}

	snap, err := NewNodeSnapshot(resp, "Xk2a")
	require.NoError(t, err)
	assert.Equal(t, "Xk2a", snap.ID)
	assert.Equal(t, "es-data-1", snap.Name)
	assert.Equal(t, 12, snap.CPUPercent)
	assert.Equal(t, 40, snap.HeapUsedPercent)
	assert.Equal(t, 80, snap.FSUsagePercent())
}

func TestNewNodeSnapshot_ByName(t *testing.T) {
	resp := &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{
		"Xk2a": nodeStats(12, 40, 20, 100),
	}}

	snap, err := NewNodeSnapshot(resp, "es-data-1")
	require.NoError(t, err)
	assert.Equal(t, "Xk2a", snap.ID)
}

func TestNewNodeSnapshot_AmbiguousName(t *testing.T) {
	resp := &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{
		"a": nodeStats(1, 1, 1, 2),
		"b": nodeStats(1, 1, 1, 2),
	}}

	_, err := NewNodeSnapshot(resp, "es-data-1")
	assert.ErrorIs(t, err, ErrNodeNotFound)
}

func TestNewNodeSnapshot_Errors(t *testing.T) {
	noOS := nodeStats(1, 1, 1, 2)
	noOS.OS = nil
	noJVM := nodeStats(1, 1, 1, 2)
	noJVM.JVM = nil
	noFS := nodeStats(1, 1, 1, 2)
	noFS.FS = nil
	noCPU := nodeStats(1, 1, 1, 2)
	noCPU.OS.CPU.Percent = nil
	noHeap := nodeStats(1, 1, 1, 2)
	noHeap.JVM.Mem.HeapUsedPercent = nil
	noAvail := nodeStats(1, 1, 1, 2)
	noAvail.FS.Total.AvailableInBytes = nil
	noTotal := nodeStats(1, 1, 1, 2)
	noTotal.FS.Total.TotalInBytes = nil

	cases := []struct {
		name string
		resp *client.NodeStatsResponse
		want error
	}{
		{"nil response", nil, ErrMissingField},
		{"unknown node", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{}}, ErrNodeNotFound},
		{"no os", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noOS}}, ErrMissingField},
		{"no jvm", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noJVM}}, ErrMissingField},
		{"no fs", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noFS}}, ErrMissingField},
		{"no cpu percent", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noCPU}}, ErrMissingField},
		{"no heap percent", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noHeap}}, ErrMissingField},
		{"no fs available", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noAvail}}, ErrMissingField},
		{"no fs total", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": noTotal}}, ErrMissingField},
		{"zero fs total", &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{"n": nodeStats(1, 1, 0, 0)}}, ErrMissingField},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewNodeSnapshot(tc.resp, "n")
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestNewNodeSnapshot_MissingLeafNamed(t *testing.T) {
	// 2.x reports os.cpu_percent instead of os.cpu.percent.
	raw := `{"nodes":{"n1":{"name":"old",
		"os":{"cpu_percent":12},
		"jvm":{"mem":{"heap_used_percent":40}},
		"fs":{"total":{"total_in_bytes":100,"available_in_bytes":50}}}}}`
	var resp client.NodeStatsResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &resp))

	_, err := NewNodeSnapshot(&resp, "n1")
	require.ErrorIs(t, err, ErrMissingField)
	assert.Contains(t, err.Error(), "os.cpu.percent")
}

func TestFSUsagePercent(t *testing.T) {
	cases := []struct {
		avail, total int64
		want         int
	}{
		{20, 100, 80},
		{100, 100, 0},
		{0, 100, 100},
		{1, 3, 67},
		{195, 1000, 80}, // 80.5 rounds half to even
		{185, 1000, 82}, // 81.5 rounds half to even
	}
	for _, tc := range cases {
		n := NodeSnapshot{FSAvailableBytes: tc.avail, FSTotalBytes: tc.total}
		assert.Equal(t, tc.want, n.FSUsagePercent(), "avail=%d total=%d", tc.avail, tc.total)
	}
}

func TestNewLastEntrySnapshot(t *testing.T) {
	now := time.Date(2024, 1, 1, 11, 1, 1, 0, time.UTC)
	resp := &client.SearchResponse{Hits: client.SearchHits{
		Total: client.HitsTotal{Value: 3, Relation: "eq"},
		Hits: []client.SearchHit{{
			Index:  "logs-2024.01.01",
			Source: map[string]json.RawMessage{"@timestamp": json.RawMessage(`"2024-01-01T10:00:00Z"`)},
		}},
	}}

	snap, err := NewLastEntrySnapshot(resp, now)
	require.NoError(t, err)
	assert.Equal(t, "logs-2024.01.01", snap.Index)
	assert.True(t, snap.Timestamp.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.Equal(t, 3661*time.Second, snap.Age)
	assert.Equal(t, 3661.0, snap.AgeSeconds())
}

func TestNewLastEntrySnapshot_SortFallback(t *testing.T) {
	now := time.UnixMilli(1704103260000)
	resp := &client.SearchResponse{Hits: client.SearchHits{
		Total: client.HitsTotal{Value: 1},
		Hits: []client.SearchHit{{
			Index:  "metrics",
			Source: map[string]json.RawMessage{},
			Sort:   []json.RawMessage{json.RawMessage(`1704103200000`)},
		}},
	}}

	snap, err := NewLastEntrySnapshot(resp, now)
	require.NoError(t, err)
	assert.Equal(t, time.Minute, snap.Age)
}

func TestNewLastEntrySnapshot_NoHits(t *testing.T) {
	resp := &client.SearchResponse{Hits: client.SearchHits{Total: client.HitsTotal{Value: 0}}}
	_, err := NewLastEntrySnapshot(resp, time.Now())
	assert.ErrorIs(t, err, ErrNoHits)
}

func TestNewLastEntrySnapshot_MissingTimestamp(t *testing.T) {
	resp := &client.SearchResponse{Hits: client.SearchHits{
		Total: client.HitsTotal{Value: 1},
		Hits:  []client.SearchHit{{Index: "x", Source: map[string]json.RawMessage{"msg": json.RawMessage(`"hi"`)}}},
	}}
	_, err := NewLastEntrySnapshot(resp, time.Now())
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestParseTimestamp(t *testing.T) {
	want := time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)
	cases := []struct {
		name string
		raw  string
	}{
		{"rfc3339", `"2024-03-05T07:08:09Z"`},
		{"rfc3339 offset", `"2024-03-05T09:08:09+02:00"`},
		{"compact offset", `"2024-03-05T09:08:09.000+0200"`},
		{"fractional", `"2024-03-05T07:08:09.000Z"`},
		{"epoch millis", `1709622489000`},
		{"quoted epoch millis", `"1709622489000"`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "got %v", got)
		})
	}
}

func TestParseTimestamp_Local(t *testing.T) {
	got, err := ParseTimestamp(json.RawMessage(`"2024-03-05 07:08:09"`))
	require.NoError(t, err)
	assert.True(t, time.Date(2024, 3, 5, 7, 8, 9, 0, time.Local).Equal(got))
}

func TestParseTimestamp_Invalid(t *testing.T) {
	for _, raw := range []string{`null`, `"yesterday"`, `{}`} {
		_, err := ParseTimestamp(json.RawMessage(raw))
		assert.Error(t, err, raw)
	}
	_, err := ParseTimestamp(json.RawMessage(`null`))
	assert.True(t, errors.Is(err, ErrMissingField))
}
