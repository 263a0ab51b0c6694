package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/disaster-scatter/internal/domain"
	"github.com/couchcryptid/disaster-scatter/internal/observability"
	"github.com/couchcryptid/disaster-scatter/internal/pipeline"
)

// --- mocks ---

type mockSource struct {
	mu      sync.Mutex
	version string
	rows    []domain.RawRecord
	errs    []error // returned by successive Read calls before succeeding
	reads   int
}

func (m *mockSource) Name() string { return "mock.csv" }

func (m *mockSource) Version(_ context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.version, nil
}

func (m *mockSource) Read(_ context.Context) ([]domain.RawRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++
	if len(m.errs) > 0 {
		err := m.errs[0]
		m.errs = m.errs[1:]
		return nil, err
	}
	return m.rows, nil
}

func (m *mockSource) set(version string, rows []domain.RawRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.version = version
	m.rows = rows
}

func (m *mockSource) readCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

type mockPublisher struct {
	mu       sync.Mutex
	datasets []domain.Dataset
}

func (m *mockPublisher) Publish(ds domain.Dataset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.datasets = append(m.datasets, ds)
}

func (m *mockPublisher) published() []domain.Dataset {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Dataset(nil), m.datasets...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var testRows = []domain.RawRecord{
	{Country: "X", StartYear: "2001", TotalDeaths: "5", Group: domain.GroupNatural},
	{Country: "Y", StartYear: "abc", TotalDeaths: "3"},
	{Country: "X", StartYear: "2002", TotalDeaths: "0"},
}

// --- tests ---

func TestPipeline_Reload_PublishesNormalizedDataset(t *testing.T) {
	src := &mockSource{version: "v1", rows: testRows}
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()
	loadedAt := time.Date(2024, time.April, 26, 15, 10, 0, 0, time.UTC)
	clock := clockwork.NewFakeClockAt(loadedAt)

	p := pipeline.New(src, pub, discardLogger(), metrics, clock, 0)
	require.Error(t, p.CheckReadiness(context.Background()))

	published, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	require.NoError(t, p.CheckReadiness(context.Background()))

	datasets := pub.published()
	require.Len(t, datasets, 1)
	ds := datasets[0]
	assert.Equal(t, "mock.csv", ds.Source)
	assert.Equal(t, "v1", ds.Version)
	assert.Equal(t, 3, ds.TotalRows)
	require.Len(t, ds.Records, 1)
	assert.Equal(t, "X", ds.Records[0].Country)
	assert.Equal(t, []string{"X"}, ds.Countries)
	assert.Equal(t, loadedAt, ds.LoadedAt)

	assert.InDelta(t, 3, testutil.ToFloat64(metrics.RowsRead), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(metrics.RowsDropped), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ValidRecords), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.Countries), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("success")), 0)
}

func TestPipeline_Reload_SkipsUnchangedVersion(t *testing.T) {
	src := &mockSource{version: "v1", rows: testRows}
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, pub, discardLogger(), metrics, clockwork.NewFakeClock(), 0)

	_, err := p.Reload(context.Background())
	require.NoError(t, err)

	published, err := p.Reload(context.Background())
	require.NoError(t, err)
	assert.False(t, published)
	assert.Equal(t, 1, src.readCount())
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("unchanged")), 0)

	src.set("v2", testRows[:1])
	published, err = p.Reload(context.Background())
	require.NoError(t, err)
	assert.True(t, published)
	assert.Len(t, pub.published(), 2)
}

func TestPipeline_Reload_ErrorKeepsPreviousDataset(t *testing.T) {
	src := &mockSource{version: "v1", rows: testRows}
	pub := &mockPublisher{}
	metrics := observability.NewMetricsForTesting()

	p := pipeline.New(src, pub, discardLogger(), metrics, clockwork.NewFakeClock(), 0)
	_, err := p.Reload(context.Background())
	require.NoError(t, err)

	src.set("v2", nil)
	src.errs = []error{errors.New("disk gone")}

	published, err := p.Reload(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk gone")
	assert.False(t, published)
	assert.Len(t, pub.published(), 1)
	require.NoError(t, p.CheckReadiness(context.Background()))
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.DatasetLoads.WithLabelValues("error")), 0)
}

func TestPipeline_Run_RetriesInitialLoad(t *testing.T) {
	src := &mockSource{version: "v1", rows: testRows, errs: []error{errors.New("not mounted yet")}}
	pub := &mockPublisher{}
	clock := clockwork.NewFakeClock()

	p := pipeline.New(src, pub, discardLogger(), observability.NewMetricsForTesting(), clock, 0)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// Wait for the backoff timer, then fire it.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(200 * time.Millisecond)

	require.Eventually(t, func() bool {
		return p.CheckReadiness(ctx) == nil
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, 2, src.readCount())

	cancel()
	require.NoError(t, <-done)
}

func TestPipeline_Run_ReloadsOnChange(t *testing.T) {
	src := &mockSource{version: "v1", rows: testRows}
	pub := &mockPublisher{}
	clock := clockwork.NewFakeClock()
	interval := 30 * time.Second

	p := pipeline.New(src, pub, discardLogger(), observability.NewMetricsForTesting(), clock, interval)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	// The ticker is created only after the first successful load.
	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	require.Len(t, pub.published(), 1)

	src.set("v2", append(testRows, domain.RawRecord{Country: "Z", StartYear: "2010", TotalDeaths: "9"}))
	clock.Advance(interval)

	require.Eventually(t, func() bool {
		return len(pub.published()) == 2
	}, 2*time.Second, 10*time.Millisecond)

	latest := pub.published()[1]
	assert.Equal(t, "v2", latest.Version)
	assert.Equal(t, []string{"X", "Z"}, latest.Countries)

	cancel()
	require.NoError(t, <-done)
}

func TestPipeline_Run_ContextCancellation(t *testing.T) {
	src := &mockSource{version: "v1", errs: []error{errors.New("fail")}}
	p := pipeline.New(src, &mockPublisher{}, discardLogger(), observability.NewMetricsForTesting(), clockwork.NewFakeClock(), 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, p.Run(ctx))
	require.Error(t, p.CheckReadiness(context.Background()))
}
