package report

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vshulcz/elasticreport/internal/domain"
)

type fakeProber struct {
	err   error
	v     domain.Version
	calls int
}

func (f *fakeProber) Probe(_ context.Context, _ string) (domain.Version, error) {
	f.calls++
	return f.v, f.err
}

type fakeUploader struct {
	err     error
	batches [][]domain.Document
	mu      sync.Mutex
}

func (f *fakeUploader) Upload(_ context.Context, docs []domain.Document) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, docs)
	return f.err
}

func steppingClock(start time.Time, step time.Duration) func() time.Time {
	var mu sync.Mutex
	cur := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := cur
		cur = cur.Add(step)
		return t
	}
}

func newReporter(t *testing.T, p *fakeProber, up *fakeUploader, opts ...Option) *Reporter {
	t.Helper()
	cfg := Config{Index: "metrics", InfoURL: "http://es:9200/", Host: "h", Rotation: RotationNone}
	return New(context.Background(), cfg, p, up, zap.NewNop(), opts...)
}

func TestNew_ProbesOnce(t *testing.T) {
	p := &fakeProber{v: domain.Version{Number: "2.3.1", Major: 2}}
	r := newReporter(t, p, &fakeUploader{})

	r.StartReport("a")
	r.StartReport("b")
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, 2, r.Version().Major)
}

func TestNew_ProbeFailureFallsBack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	p := &fakeProber{err: fmt.Errorf("%w: connection refused", domain.ErrProbe)}
	up := &fakeUploader{}
	r := New(context.Background(), Config{Index: "m"}, p, up, zap.New(core))

	assert.False(t, r.Version().ReplacesDots())
	assert.Equal(t, 1, logs.Len())

	pass := r.StartReport("ctx")
	pass.ReportHistogram("h", domain.HistogramValue{Percentile999: 1}, "ms", nil)
	require.NoError(t, pass.End(context.Background()))
	_, ok := up.batches[0][0].Fields.Get("Percentile 99.9%")
	assert.True(t, ok)
}

func TestNew_NilProber(t *testing.T) {
	r := New(context.Background(), Config{Index: "m"}, nil, &fakeUploader{}, nil)
	assert.Equal(t, domain.Version{}, r.Version())
}

func TestPass_EndToEndDotReplacement(t *testing.T) {
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{v: domain.Version{Number: "2.3.1", Major: 2}}, up)

	pass := r.StartReport("ctx")
	pass.ReportHistogram("latency", domain.HistogramValue{Percentile999: 12.3}, "ms", nil)
	require.NoError(t, pass.End(context.Background()))

	require.Len(t, up.batches, 1)
	require.Len(t, up.batches[0], 1)
	fields := up.batches[0][0].Fields
	v, ok := fields.Get("Percentile 99_9%")
	require.True(t, ok)
	assert.Equal(t, 12.3, v)
	_, ok = fields.Get("Percentile 99.9%")
	assert.False(t, ok)
}

func TestPass_SharedTimestamp(t *testing.T) {
	start := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{}, up, WithClock(steppingClock(start, time.Minute)))

	pass := r.StartReport("ctx")
	pass.ReportGauge("a", 1, "", nil)
	time.Sleep(2 * time.Millisecond)
	pass.ReportCounter("b", domain.CounterValue{Count: 1}, "", nil)
	pass.ReportTimer("c", domain.TimerValue{}, "", domain.Seconds, domain.Milliseconds, nil)
	require.NoError(t, pass.End(context.Background()))

	want := start.Format(TimestampLayout)
	for _, d := range up.batches[0] {
		ts, _ := d.Fields.Get("Timestamp")
		assert.Equal(t, want, ts)
	}

	next := r.StartReport("ctx")
	next.ReportGauge("a", 1, "", nil)
	require.NoError(t, next.End(context.Background()))
	ts, _ := up.batches[1][0].Fields.Get("Timestamp")
	assert.Equal(t, start.Add(time.Minute).Format(TimestampLayout), ts)
}

func TestPass_HealthAndInvalidGaugeProduceNothing(t *testing.T) {
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{}, up)

	pass := r.StartReport("ctx")
	pass.ReportHealth(domain.HealthStatus{Healthy: false, Results: []domain.HealthResult{{Name: "db"}}})
	pass.ReportHealth(domain.HealthStatus{Healthy: true})
	pass.ReportGauge("nan", math.NaN(), "", nil)
	require.NoError(t, pass.End(context.Background()))
	assert.Empty(t, up.batches[0])
}

func TestPass_DuplicatesKept(t *testing.T) {
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{}, up)

	pass := r.StartReport("ctx")
	pass.ReportGauge("g", 1, "", domain.Tags{"x"})
	pass.ReportGauge("g", 1, "", domain.Tags{"x"})
	require.NoError(t, pass.End(context.Background()))
	assert.Len(t, up.batches[0], 2)
}

func TestPass_UploadFailurePropagates(t *testing.T) {
	uerr := &domain.UploadError{Status: 503, Err: errors.New("unavailable")}
	r := newReporter(t, &fakeProber{}, &fakeUploader{err: uerr})

	pass := r.StartReport("ctx")
	pass.ReportGauge("g", 1, "", nil)
	err := pass.End(context.Background())

	var got *domain.UploadError
	require.ErrorAs(t, err, &got)
	assert.Equal(t, 503, got.Status)
}

func TestPass_ConcurrentPassesIsolated(t *testing.T) {
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{}, up)

	const passes, perPass = 8, 50
	var wg sync.WaitGroup
	for i := 0; i < passes; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			p := r.StartReport(fmt.Sprintf("pass-%d", id))
			for j := 0; j < perPass; j++ {
				p.ReportGauge(fmt.Sprintf("g-%d", id), float64(j), "", nil)
			}
			assert.NoError(t, p.End(context.Background()))
		}(i)
	}
	wg.Wait()

	require.Len(t, up.batches, passes)
	for _, docs := range up.batches {
		require.Len(t, docs, perPass)
		first, _ := docs[0].Fields.Get("Name")
		for _, d := range docs {
			name, _ := d.Fields.Get("Name")
			assert.Equal(t, first, name)
		}
	}
}

func TestReplay(t *testing.T) {
	up := &fakeUploader{}
	r := newReporter(t, &fakeProber{}, up)

	snap := domain.Snapshot{
		Gauges:     []domain.GaugeEntry{{Name: "g", Value: 1}},
		Counters:   []domain.CounterEntry{{Name: "c"}},
		Meters:     []domain.MeterEntry{{Name: "m"}},
		Histograms: []domain.HistogramEntry{{Name: "h"}},
		Timers:     []domain.TimerEntry{{Name: "t"}},
		Health:     domain.HealthStatus{Healthy: true},
	}
	pass := r.StartReport("ctx")
	Replay(pass, snap)
	require.NoError(t, pass.End(context.Background()))

	var types []string
	for _, d := range up.batches[0] {
		types = append(types, d.Type)
	}
	assert.Equal(t, []string{TypeGauge, TypeCounter, TypeMeter, TypeHistogram, TypeTimer}, types)
}

func TestBatch_BeginDrain(t *testing.T) {
	var b Batch
	ts := time.Unix(100, 0)
	b.Begin("first", ts)
	b.Append(domain.Document{Index: "a"})
	b.Append(domain.Document{Index: "b"})
	assert.Equal(t, 2, b.Len())
	assert.Equal(t, "first", b.ContextName())

	docs := b.Drain()
	assert.Len(t, docs, 2)
	assert.Equal(t, 0, b.Len())

	b.Append(domain.Document{Index: "c"})
	b.Begin("second", ts.Add(time.Second))
	assert.Equal(t, 0, b.Len())
	assert.Equal(t, ts.Add(time.Second), b.Timestamp())
}
