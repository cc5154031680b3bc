package check

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dm/check-es/internal/client"
	"github.com/dm/check-es/internal/config"
	"github.com/dm/check-es/internal/model"
)

// Runner performs one check against an Elasticsearch cluster.
type Runner struct {
	Client client.ESClient
	Logger *zap.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// NewRunner returns a Runner using c. A nil logger disables diagnostics.
func NewRunner(c client.ESClient, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{Client: c, Logger: logger, Now: time.Now}
}

// Health runs the cluster health check, or the node check when opts.Node
// is set.
func (r *Runner) Health(ctx context.Context, opts config.HealthOptions) Result {
	if opts.Node != "" {
		return r.node(ctx, opts)
	}
	return r.cluster(ctx)
}

func (r *Runner) cluster(ctx context.Context) Result {
	url := r.Client.BaseURL()
	r.Logger.Debug("fetching cluster health", zap.String("url", url))

	health, err := r.Client.GetClusterHealth(ctx)
	if err != nil {
		return r.fail(err, url)
	}
	snap, err := model.NewHealthSnapshot(health)
	if err != nil {
		return r.fail(err, url)
	}
	r.Logger.Debug("cluster health",
		zap.String("cluster", snap.ClusterName),
		zap.String("status", snap.Status),
		zap.Int("unassigned_shards", snap.UnassignedShards))

	res, err := EvaluateCluster(snap)
	if err != nil {
		return r.fail(err, url)
	}
	return res
}

func (r *Runner) node(ctx context.Context, opts config.HealthOptions) Result {
	url := r.Client.BaseURL()
	r.Logger.Debug("fetching node stats", zap.String("url", url), zap.String("node", opts.Node))

	stats, err := r.Client.GetNodeStats(ctx)
	if err != nil {
		return r.fail(err, url)
	}
	snap, err := model.NewNodeSnapshot(stats, opts.Node)
	if err != nil {
		return r.fail(err, url)
	}
	r.Logger.Debug("node stats",
		zap.String("id", snap.ID),
		zap.String("name", snap.Name),
		zap.Int("cpu_percent", snap.CPUPercent),
		zap.Int("heap_used_percent", snap.HeapUsedPercent),
		zap.Int64("fs_available_bytes", snap.FSAvailableBytes),
		zap.Int64("fs_total_bytes", snap.FSTotalBytes),
		zap.Int("fs_usage_percent", snap.FSUsagePercent()))

	return EvaluateNode(snap, opts.CPU, opts.Heap, opts.FS)
}

// LastEntry runs the freshness check of the newest document matching
// opts.Query in opts.Index.
func (r *Runner) LastEntry(ctx context.Context, opts config.LastEntryOptions) Result {
	url := strings.TrimRight(r.Client.BaseURL(), "/") + client.SearchPath(opts.Index)
	r.Logger.Debug("searching newest document",
		zap.String("url", url),
		zap.String("query", opts.Query))

	resp, err := r.Client.SearchLatest(ctx, opts.Index, []byte(opts.Query))
	if err != nil {
		return r.fail(err, url)
	}
	snap, err := model.NewLastEntrySnapshot(resp, r.now())
	if err != nil {
		return r.fail(err, url)
	}
	if opts.ShowIndex && snap.Index == "" {
		return r.fail(fmt.Errorf("newest hit: %w: _index", model.ErrMissingField), url)
	}
	r.Logger.Debug("newest document",
		zap.String("index", snap.Index),
		zap.Time("timestamp", snap.Timestamp),
		zap.Duration("age", snap.Age))

	return EvaluateLastEntry(snap, opts.Age, opts.ShowIndex)
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// fail classifies err, logs it with a stack trace and returns the Unknown result.
func (r *Runner) fail(err error, url string) Result {
	ce := Classify(err, url)
	r.Logger.Error("check failed",
		zap.Stringer("kind", ce.Kind),
		zap.String("url", url),
		zap.Error(ce.Err))
	return ce.Result()
}
