package check

import (
	"fmt"
	"math"
	"strings"

	"github.com/dm/check-es/internal/config"
	"github.com/dm/check-es/internal/format"
	"github.com/dm/check-es/internal/model"
)

const (
	nodeOKSummary  = "CPU, Java Heap and FS are ok."
	timestampShown = "2006-01-02 15:04:05"
)

// EvaluateCluster maps the cluster status onto a severity: green is OK,
// yellow WARNING, red CRITICAL. Any other status is an unknown-kind error.
func EvaluateCluster(s model.HealthSnapshot) (Result, error) {
	var status Severity
	switch s.Status {
	case "green":
		status = OK
	case "yellow":
		status = Warning
	case "red":
		status = Critical
	default:
		return Result{}, fmt.Errorf("unexpected cluster status %q", s.Status)
	}

	return Result{
		Status:  status,
		Summary: []string{"ES is " + s.Status},
		Perf: []PerfDatum{
			{Label: "active_primary_shards", Value: float64(s.ActivePrimaryShards)},
			{Label: "active_shards", Value: float64(s.ActiveShards)},
			{Label: "unassigned_shards", Value: float64(s.UnassignedShards)},
		},
	}, nil
}

// nodeMetric is one thresholded metric of the node check.
type nodeMetric struct {
	name       string
	value      int
	thresholds config.Thresholds
}

// EvaluateNode compares cpu, heap and filesystem usage to their thresholds.
// Critical thresholds are checked first for every metric; if any is
// exceeded the result is CRITICAL and warning thresholds are not looked at.
// Each exceeded metric adds a clause to the summary.
func EvaluateNode(s model.NodeSnapshot, cpu, heap, fs config.Thresholds) Result {
	fsUsage := s.FSUsagePercent()
	metrics := []nodeMetric{
		{name: "CPU", value: s.CPUPercent, thresholds: cpu},
		{name: "Java Heap", value: s.HeapUsedPercent, thresholds: heap},
		{name: "FS", value: fsUsage, thresholds: fs},
	}

	status := OK
	var clauses strings.Builder
	for _, m := range metrics {
		if m.value > m.thresholds.Critical {
			clauses.WriteString(m.name + " is critical.")
			status = Critical
		}
	}
	if status != Critical {
		for _, m := range metrics {
			if m.value > m.thresholds.Warning {
				clauses.WriteString(m.name + " is warning.")
				status = Warning
			}
		}
	}

	summary := nodeOKSummary
	if status != OK {
		summary = clauses.String()
	}

	return Result{
		Status:  status,
		Summary: []string{summary},
		Perf: []PerfDatum{
			{Label: "cpu_usage", Value: float64(s.CPUPercent)},
			{Label: "jvm_heap_usage", Value: float64(s.HeapUsedPercent)},
			{Label: "fs_usage", Value: float64(fsUsage)},
		},
	}
}

// EvaluateLastEntry compares the age of the newest document to age, in
// seconds: strictly above Critical is CRITICAL, strictly above Warning is
// WARNING. showIndex names the index the document came from in the summary.
func EvaluateLastEntry(s model.LastEntrySnapshot, age config.Thresholds, showIndex bool) Result {
	seconds := s.AgeSeconds()

	status := OK
	switch {
	case seconds > float64(age.Critical):
		status = Critical
	case seconds > float64(age.Warning):
		status = Warning
	}

	when := fmt.Sprintf("fetch data was at %s (%s ago)",
		s.Timestamp.Format(timestampShown), format.FormatDuration(seconds))
	summary := "Last " + when
	if showIndex {
		summary = fmt.Sprintf("Index %s last %s", s.Index, when)
	}

	return Result{
		Status:  status,
		Summary: []string{summary},
		Perf: []PerfDatum{
			{Label: "difference_in_seconds", Value: math.RoundToEven(seconds)},
		},
	}
}
