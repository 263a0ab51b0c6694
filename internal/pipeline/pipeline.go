package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
	"github.com/couchcryptid/disaster-scatter/internal/observability"
)

// Source provides versions of the raw disaster table.
type Source interface {
	// Name identifies the source in logs and in the published dataset.
	Name() string

	// Version returns a fingerprint that changes whenever the table changes.
	Version(ctx context.Context) (string, error)

	// Read returns every raw row of the table.
	Read(ctx context.Context) ([]domain.RawRecord, error)
}

// Publisher receives each newly built dataset.
type Publisher interface {
	Publish(ds domain.Dataset)
}

// Pipeline loads the source, normalizes it, and publishes the result. It
// keeps polling the source and reloads when the version changes.
type Pipeline struct {
	source    Source
	publisher Publisher
	logger    *slog.Logger
	metrics   *observability.Metrics
	clock     clockwork.Clock
	interval  time.Duration

	ready   atomic.Bool
	version string
}

// New creates a Pipeline. An interval of zero loads once and never reloads.
func New(src Source, pub Publisher, logger *slog.Logger, metrics *observability.Metrics, clock clockwork.Clock, interval time.Duration) *Pipeline {
	return &Pipeline{
		source:    src,
		publisher: pub,
		logger:    logger,
		metrics:   metrics,
		clock:     clock,
		interval:  interval,
	}
}

// CheckReadiness returns nil once a dataset has been published, or an error
// describing why the service is not yet ready.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if !p.ready.Load() {
		return errors.New("dataset has not been loaded yet")
	}
	return nil
}

// Run loads the dataset, retrying with backoff until the first load succeeds,
// then polls for changes until the context is cancelled.
func (p *Pipeline) Run(ctx context.Context) error {
	p.logger.Info("pipeline started", "source", p.source.Name(), "reload_interval", p.interval)
	p.metrics.PipelineRunning.Set(1)
	defer p.metrics.PipelineRunning.Set(0)

	// Exponential backoff: start at 200ms, double each retry, cap at 5s.
	backoff := 200 * time.Millisecond
	maxBackoff := 5 * time.Second

	for !p.ready.Load() {
		if _, err := p.Reload(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			p.logger.Error("initial dataset load failed", "error", err, "retry_in", backoff)
			if !sleepWithContext(ctx, p.clock, backoff) {
				return nil
			}
			backoff = nextBackoff(backoff, maxBackoff)
		}
	}

	if p.interval <= 0 {
		<-ctx.Done()
		p.logger.Info("pipeline stopping", "reason", ctx.Err())
		return nil
	}

	ticker := p.clock.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.logger.Info("pipeline stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if _, err := p.Reload(ctx); err != nil && ctx.Err() == nil {
				p.logger.Warn("dataset reload failed, keeping previous dataset", "error", err)
			}
		}
	}
}

// Reload publishes a new dataset if the source version differs from the last
// one loaded. It reports whether a dataset was published.
func (p *Pipeline) Reload(ctx context.Context) (bool, error) {
	version, err := p.source.Version(ctx)
	if err != nil {
		p.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return false, fmt.Errorf("check source version: %w", err)
	}
	if p.ready.Load() && version == p.version {
		p.metrics.DatasetLoads.WithLabelValues("unchanged").Inc()
		p.logger.Debug("dataset unchanged, skipping reload", "version", version)
		return false, nil
	}

	if err := p.load(ctx, version); err != nil {
		p.metrics.DatasetLoads.WithLabelValues("error").Inc()
		return false, err
	}
	return true, nil
}

func (p *Pipeline) load(ctx context.Context, version string) error {
	start := p.clock.Now()

	raw, err := p.source.Read(ctx)
	if err != nil {
		return fmt.Errorf("read source: %w", err)
	}

	ds := domain.NewDataset(p.source.Name(), version, raw, p.clock.Now())
	p.publisher.Publish(ds)
	p.version = version
	p.ready.Store(true)

	elapsed := p.clock.Since(start)
	p.metrics.DatasetLoads.WithLabelValues("success").Inc()
	p.metrics.LoadDuration.Observe(elapsed.Seconds())
	p.metrics.RowsRead.Add(float64(ds.TotalRows))
	p.metrics.RowsDropped.Add(float64(ds.DroppedRows()))
	p.metrics.ValidRecords.Set(float64(len(ds.Records)))
	p.metrics.Countries.Set(float64(len(ds.Countries)))

	p.logger.Info("dataset loaded",
		"source", ds.Source,
		"version", version,
		"total_rows", ds.TotalRows,
		"valid_rows", len(ds.Records),
		"countries", len(ds.Countries),
		"duration", elapsed,
	)
	return nil
}

func nextBackoff(current, maxBackoff time.Duration) time.Duration {
	next := current * 2
	if next > maxBackoff {
		return maxBackoff
	}
	return next
}

func sleepWithContext(ctx context.Context, clock clockwork.Clock, d time.Duration) bool {
	if d <= 0 {
		return true
	}

	timer := clock.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-timer.Chan():
		return true
	}
}
