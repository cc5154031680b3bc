package model

import (
	"errors"
	"fmt"
	"math"

	"github.com/dm/check-es/internal/client"
)

var (
	// ErrMissingField is wrapped when a response lacks a field a check reads.
	ErrMissingField = errors.New("missing field")
	// ErrNodeNotFound is wrapped when the requested node is absent from /_nodes/stats.
	ErrNodeNotFound = errors.New("node not found")
)

// HealthSnapshot holds the fields of /_cluster/health the cluster check reads.
type HealthSnapshot struct {
	ClusterName         string
	Status              string
	ActivePrimaryShards int
	ActiveShards        int
	UnassignedShards    int
}

// NewHealthSnapshot converts a cluster health response, failing on any
// missing field.
func NewHealthSnapshot(h *client.ClusterHealth) (HealthSnapshot, error) {
	if h == nil {
		return HealthSnapshot{}, fmt.Errorf("cluster health: %w: response", ErrMissingField)
	}
	switch {
	case h.Status == "":
		return HealthSnapshot{}, fmt.Errorf("cluster health: %w: status", ErrMissingField)
	case h.ActivePrimaryShards == nil:
		return HealthSnapshot{}, fmt.Errorf("cluster health: %w: active_primary_shards", ErrMissingField)
	case h.ActiveShards == nil:
		return HealthSnapshot{}, fmt.Errorf("cluster health: %w: active_shards", ErrMissingField)
	case h.UnassignedShards == nil:
		return HealthSnapshot{}, fmt.Errorf("cluster health: %w: unassigned_shards", ErrMissingField)
	}
	return HealthSnapshot{
		ClusterName:         h.ClusterName,
		Status:              h.Status,
		ActivePrimaryShards: *h.ActivePrimaryShards,
		ActiveShards:        *h.ActiveShards,
		UnassignedShards:    *h.UnassignedShards,
	}, nil
}

// NodeSnapshot holds the resource usage of a single node.
type NodeSnapshot struct {
	ID               string
	Name             string
	CPUPercent       int
	HeapUsedPercent  int
	FSAvailableBytes int64
	FSTotalBytes     int64
}

// FSUsagePercent returns 100 - 100*available/total rounded half to even.
// FSTotalBytes must be non-zero; NewNodeSnapshot guarantees it.
func (n NodeSnapshot) FSUsagePercent() int {
	used := 100 - 100*float64(n.FSAvailableBytes)/float64(n.FSTotalBytes)
	return int(math.RoundToEven(used))
}

// NewNodeSnapshot picks node from a /_nodes/stats response. node is matched
// against node IDs first, then against node names.
func NewNodeSnapshot(resp *client.NodeStatsResponse, node string) (NodeSnapshot, error) {
	if resp == nil || resp.Nodes == nil {
		return NodeSnapshot{}, fmt.Errorf("node stats: %w: nodes", ErrMissingField)
	}

	id, stats, ok := lookupNode(resp.Nodes, node)
	if !ok {
		return NodeSnapshot{}, fmt.Errorf("node %q: %w", node, ErrNodeNotFound)
	}

	if err := nodeFieldsPresent(stats); err != nil {
		return NodeSnapshot{}, fmt.Errorf("node %q: %w", node, err)
	}
	if *stats.FS.Total.TotalInBytes <= 0 {
		return NodeSnapshot{}, fmt.Errorf("node %q: %w: fs.total.total_in_bytes is %d", node, ErrMissingField, *stats.FS.Total.TotalInBytes)
	}

	return NodeSnapshot{
		ID:               id,
		Name:             stats.Name,
		CPUPercent:       *stats.OS.CPU.Percent,
		HeapUsedPercent:  *stats.JVM.Mem.HeapUsedPercent,
		FSAvailableBytes: *stats.FS.Total.AvailableInBytes,
		FSTotalBytes:     *stats.FS.Total.TotalInBytes,
	}, nil
}

// nodeFieldsPresent names the first metric stats does not carry.
func nodeFieldsPresent(stats client.NodePerformanceStats) error {
	var missing string
	switch {
	case stats.OS == nil:
		missing = "os"
	case stats.OS.CPU.Percent == nil:
		missing = "os.cpu.percent"
	case stats.JVM == nil:
		missing = "jvm"
	case stats.JVM.Mem.HeapUsedPercent == nil:
		missing = "jvm.mem.heap_used_percent"
	case stats.FS == nil:
		missing = "fs"
	case stats.FS.Total.TotalInBytes == nil:
		missing = "fs.total.total_in_bytes"
	case stats.FS.Total.AvailableInBytes == nil:
		missing = "fs.total.available_in_bytes"
	default:
		return nil
	}
	return fmt.Errorf("%w: %s", ErrMissingField, missing)
}

// lookupNode matches by ID, then by a unique node name.
func lookupNode(nodes map[string]client.NodePerformanceStats, node string) (string, client.NodePerformanceStats, bool) {
	if stats, ok := nodes[node]; ok {
		return node, stats, true
	}

	var (
		foundID string
		found   client.NodePerformanceStats
		matches int
	)
	for id, stats := range nodes {
		if stats.Name == node {
			foundID, found = id, stats
			matches++
		}
	}
	if matches != 1 {
		return "", client.NodePerformanceStats{}, false
	}
	return foundID, found, true
}
