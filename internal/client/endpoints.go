package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
)

const (
	endpointClusterHealth = "/_cluster/health?filter_path=cluster_name,status,active_primary_shards,active_shards,unassigned_shards"
	endpointNodeStats     = "/_nodes/stats/os,jvm,fs?filter_path=nodes.*.name,nodes.*.host,nodes.*.os.cpu.percent,nodes.*.jvm.mem.heap_used_percent,nodes.*.fs.total.total_in_bytes,nodes.*.fs.total.available_in_bytes"

	// TimestampField is the document field the last-entry search sorts on.
	TimestampField = "@timestamp"
)

// GetClusterHealth fetches cluster health from /_cluster/health.
func (c *DefaultClient) GetClusterHealth(ctx context.Context) (*ClusterHealth, error) {
	resp, err := c.doGet(ctx, endpointClusterHealth, nil)
	if err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}
	if err := resp.ok(); err != nil {
		return nil, fmt.Errorf("GetClusterHealth: %w", err)
	}

	var result ClusterHealth
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, fmt.Errorf("GetClusterHealth decode: %w", err)
	}
	return &result, nil
}

// GetNodeStats fetches per-node os, jvm and fs statistics from /_nodes/stats.
func (c *DefaultClient) GetNodeStats(ctx context.Context) (*NodeStatsResponse, error) {
	resp, err := c.doGet(ctx, endpointNodeStats, nil)
	if err != nil {
		return nil, fmt.Errorf("GetNodeStats: %w", err)
	}
	if err := resp.ok(); err != nil {
		return nil, fmt.Errorf("GetNodeStats: %w", err)
	}

	var result NodeStatsResponse
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, fmt.Errorf("GetNodeStats decode: %w", err)
	}
	return &result, nil
}

// SearchPath returns the _search path for an index pattern. Comma-separated
// patterns are escaped element by element so the separators survive.
func SearchPath(index string) string {
	parts := strings.Split(index, ",")
	for i, p := range parts {
		parts[i] = url.PathEscape(strings.TrimSpace(p))
	}
	return "/" + strings.Join(parts, ",") + "/_search"
}

// LatestQuery wraps query into a search body returning the single newest
// document by TimestampField. It fails if query is not valid JSON.
func LatestQuery(query []byte) ([]byte, error) {
	body := struct {
		Query json.RawMessage  `json:"query"`
		Size  int              `json:"size"`
		Sort  []map[string]any `json:"sort"`
	}{
		Query: json.RawMessage(query),
		Size:  1,
		Sort:  []map[string]any{{TimestampField: map[string]string{"order": "desc"}}},
	}
	out, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("build search body: %w", err)
	}
	return out, nil
}

// SearchLatest runs the newest-document search against index. A response
// carrying an "error" field yields a *SearchError whatever its status.
func (c *DefaultClient) SearchLatest(ctx context.Context, index string, query []byte) (*SearchResponse, error) {
	payload, err := LatestQuery(query)
	if err != nil {
		return nil, fmt.Errorf("SearchLatest: %w", err)
	}

	resp, err := c.doGet(ctx, SearchPath(index), payload)
	if err != nil {
		return nil, fmt.Errorf("SearchLatest: %w", err)
	}
	if searchErr := parseSearchError(resp.status, resp.body); searchErr != nil {
		return nil, fmt.Errorf("SearchLatest: %w", searchErr)
	}
	if err := resp.ok(); err != nil {
		return nil, fmt.Errorf("SearchLatest: %w", err)
	}

	var result SearchResponse
	if err := json.Unmarshal(resp.body, &result); err != nil {
		return nil, fmt.Errorf("SearchLatest decode: %w", err)
	}
	return &result, nil
}
