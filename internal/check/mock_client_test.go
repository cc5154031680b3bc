package check

import (
	"context"
	"encoding/json"

	"github.com/dm/check-es/internal/client"
)

// MockESClient implements client.ESClient for testing.
type MockESClient struct {
	HealthFn    func(ctx context.Context) (*client.ClusterHealth, error)
	NodeStatsFn func(ctx context.Context) (*client.NodeStatsResponse, error)
	SearchFn    func(ctx context.Context, index string, query []byte) (*client.SearchResponse, error)
}

func (m *MockESClient) GetClusterHealth(ctx context.Context) (*client.ClusterHealth, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return clusterHealth("green", 5, 10, 0), nil
}

func (m *MockESClient) GetNodeStats(ctx context.Context) (*client.NodeStatsResponse, error) {
	if m.NodeStatsFn != nil {
		return m.NodeStatsFn(ctx)
	}
	return nodeStatsResponse("node1", 10, 10, 90, 100), nil
}

func (m *MockESClient) SearchLatest(ctx context.Context, index string, query []byte) (*client.SearchResponse, error) {
	if m.SearchFn != nil {
		return m.SearchFn(ctx, index, query)
	}
	return &client.SearchResponse{}, nil
}

func (m *MockESClient) BaseURL() string {
	return "http://mock:9200"
}

func clusterHealth(status string, primaries, active, unassigned int) *client.ClusterHealth {
	return &client.ClusterHealth{
		ClusterName:         "test",
		Status:              status,
		ActivePrimaryShards: &primaries,
		ActiveShards:        &active,
		UnassignedShards:    &unassigned,
	}
}

func nodeStatsResponse(id string, cpu, heap int, avail, total int64) *client.NodeStatsResponse {
	s := client.NodePerformanceStats{
		Name: id + "-name",
		OS:   &client.NodeOSStats{},
		JVM:  &client.NodeJVMStats{},
		FS:   &client.NodeFSStats{},
	}
	s.OS.CPU.Percent = &cpu
	s.JVM.Mem.HeapUsedPercent = &heap
	s.FS.Total.AvailableInBytes = &avail
	s.FS.Total.TotalInBytes = &total
	return &client.NodeStatsResponse{Nodes: map[string]client.NodePerformanceStats{id: s}}
}

func searchResponse(index, timestamp string) *client.SearchResponse {
	return &client.SearchResponse{Hits: client.SearchHits{
		Total: client.HitsTotal{Value: 1, Relation: "eq"},
		Hits: []client.SearchHit{{
			Index:  index,
			Source: map[string]json.RawMessage{"@timestamp": json.RawMessage(`"` + timestamp + `"`)},
		}},
	}}
}
