package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ClusterHealth represents the response from /_cluster/health.
// Shard counters are pointers so a missing field can be told apart from zero.
type ClusterHealth struct {
	ClusterName         string `json:"cluster_name"`
	Status              string `json:"status"`
	ActivePrimaryShards *int   `json:"active_primary_shards"`
	ActiveShards        *int   `json:"active_shards"`
	UnassignedShards    *int   `json:"unassigned_shards"`
}

// NodeStatsResponse represents the response from /_nodes/stats.
type NodeStatsResponse struct {
	Nodes map[string]NodePerformanceStats `json:"nodes"`
}

// NodePerformanceStats holds per-node resource data.
type NodePerformanceStats struct {
	Name string        `json:"name"`
	Host string        `json:"host"`
	OS   *NodeOSStats  `json:"os,omitempty"`
	JVM  *NodeJVMStats `json:"jvm,omitempty"`
	FS   *NodeFSStats  `json:"fs,omitempty"`
}

// NodeOSStats holds OS-level metrics. Leaf values are pointers so a
// field the node did not report is not read as zero.
type NodeOSStats struct {
	CPU struct {
		Percent *int `json:"percent"`
	} `json:"cpu"`
}

// NodeJVMStats holds JVM heap metrics.
type NodeJVMStats struct {
	Mem struct {
		HeapUsedPercent *int `json:"heap_used_percent"`
	} `json:"mem"`
}

// NodeFSStats holds filesystem metrics.
type NodeFSStats struct {
	Total struct {
		TotalInBytes     *int64 `json:"total_in_bytes"`
		AvailableInBytes *int64 `json:"available_in_bytes"`
	} `json:"total"`
}

// SearchResponse represents the subset of a _search response the
// last-entry check reads.
type SearchResponse struct {
	Hits SearchHits `json:"hits"`
}

// SearchHits holds the hit envelope of a _search response.
type SearchHits struct {
	Total HitsTotal   `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// SearchHit is a single document returned by _search.
type SearchHit struct {
	Index  string                     `json:"_index"`
	ID     string                     `json:"_id"`
	Source map[string]json.RawMessage `json:"_source"`
	Sort   []json.RawMessage          `json:"sort"`
}

// HitsTotal accepts both the 6.x form (`"total": 12`) and the 7.x+ form
// (`"total": {"value": 12, "relation": "eq"}`).
type HitsTotal struct {
	Value    int64
	Relation string
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *HitsTotal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			Value    int64  `json:"value"`
			Relation string `json:"relation"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return fmt.Errorf("hits.total: %w", err)
		}
		t.Value, t.Relation = obj.Value, obj.Relation
		return nil
	}
	if err := json.Unmarshal(data, &t.Value); err != nil {
		return fmt.Errorf("hits.total: %w", err)
	}
	t.Relation = "eq"
	return nil
}

// SearchError is the structured error Elasticsearch reports for a rejected
// search, e.g. a malformed query or a missing index.
type SearchError struct {
	Status int
	Type   string
	Reason string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed (status %d): type=%s reason=%s", e.Status, e.Type, e.Reason)
}

// parseSearchError returns a SearchError if body carries a top-level
// "error" field, and nil otherwise. Old clusters report the error as a
// plain string, which ends up in Reason.
func parseSearchError(status int, body []byte) *SearchError {
	var envelope struct {
		Error json.RawMessage `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Error) == 0 || string(envelope.Error) == "null" {
		return nil
	}

	var detail struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(envelope.Error, &detail); err != nil {
		var msg string
		if json.Unmarshal(envelope.Error, &msg) == nil {
			return &SearchError{Status: status, Reason: msg}
		}
		return &SearchError{Status: status, Reason: string(envelope.Error)}
	}
	return &SearchError{Status: status, Type: detail.Type, Reason: detail.Reason}
}
