// Package check turns Elasticsearch responses into monitoring-plugin results:
// a severity, a human-readable summary and performance data.
package check

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Severity is the plugin state. Its numeric value is the process exit code.
type Severity int

const (
	OK Severity = iota
	Warning
	Critical
	Unknown
)

func (s Severity) String() string {
	switch s {
	case OK:
		return "OK"
	case Warning:
		return "WARNING"
	case Critical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// ExitCode returns the monitoring-plugin exit code for s.
func (s Severity) ExitCode() int {
	if s < OK || s > Unknown {
		return int(Unknown)
	}
	return int(s)
}

// PerfDatum is one label=value pair of the performance data line.
type PerfDatum struct {
	Label string
	Value float64
}

func (p PerfDatum) String() string {
	return p.Label + "=" + strconv.FormatFloat(p.Value, 'f', -1, 64)
}

// Result is the outcome of a single check run.
type Result struct {
	Status  Severity
	Summary []string
	Perf    []PerfDatum
}

// PerfLine returns "|label=value label=value", or "" when there is no
// performance data.
func (r Result) PerfLine() string {
	if len(r.Perf) == 0 {
		return ""
	}
	parts := make([]string, len(r.Perf))
	for i, p := range r.Perf {
		parts[i] = p.String()
	}
	return "|" + strings.Join(parts, " ")
}

// Render writes the summary lines followed by the performance data line.
func (r Result) Render(w io.Writer) error {
	for _, line := range r.Summary {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if perf := r.PerfLine(); perf != "" {
		if _, err := fmt.Fprintln(w, perf); err != nil {
			return err
		}
	}
	return nil
}
