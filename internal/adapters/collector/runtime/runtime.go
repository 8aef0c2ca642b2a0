// Package runtime implements a metrics collector that samples Go runtime stats and host CPU/RAM usage.
package runtime

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
)

// Metric names produced by the collector.
const (
	MAlloc         = "Alloc"
	MHeapAlloc     = "HeapAlloc"
	MHeapInuse     = "HeapInuse"
	MHeapObjects   = "HeapObjects"
	MNumGC         = "NumGC"
	MNumGoroutine  = "NumGoroutine"
	MGCCPUFraction = "GCCPUFraction"
	MSys           = "Sys"
	MTotalAlloc    = "TotalAlloc"
	MRandomValue   = "RandomValue"
	TotalMemory    = "TotalMemory"
	FreeMemory     = "FreeMemory"
	CPUutilization = "CPUutilization"

	MPollCount    = "PollCount"
	MPolls        = "Polls"
	MGCPause      = "GCPause"
	MPollDuration = "PollDuration"
)

const (
	unitBytes   domain.Unit = "bytes"
	unitItems   domain.Unit = "items"
	unitPercent domain.Unit = "%"
)

// Collector periodically samples Go runtime stats plus host CPU/RAM metrics.
type Collector struct {
	st     *stats
	rnd    *rand.Rand
	stop   chan struct{}
	now    func() time.Time
	wg     sync.WaitGroup
	lastGC uint32
}

var _ ports.MetricsCollector = (*Collector)(nil)

// New creates a Collector with its own storage and random source.
func New() *Collector {
	now := time.Now
	return &Collector{
		st:   newStats(now()),
		rnd:  rand.New(rand.NewSource(now().UnixNano())), // #nosec G404
		stop: make(chan struct{}),
		now:  now,
	}
}

// Start launches background goroutines that sample runtime and host metrics at the given interval.
func (c *Collector) Start(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return fmt.Errorf("poll interval must be > 0, got %v", interval)
	}

	c.loop(ctx, interval, c.sampleRuntime)
	c.loop(ctx, interval, c.sampleHost)
	return nil
}

func (c *Collector) loop(ctx context.Context, interval time.Duration, sample func()) {
	t := time.NewTicker(interval)
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			case <-t.C:
				sample()
			}
		}
	}()
}

func (c *Collector) sampleRuntime() {
	start := c.now()
	done := c.st.BeginPoll(start)

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	c.st.SetGauge(MAlloc, unitBytes, float64(ms.Alloc))
	c.st.SetGauge(MHeapAlloc, unitBytes, float64(ms.HeapAlloc))
	c.st.SetGauge(MHeapInuse, unitBytes, float64(ms.HeapInuse))
	c.st.SetGauge(MHeapObjects, unitItems, float64(ms.HeapObjects))
	c.st.SetGauge(MSys, unitBytes, float64(ms.Sys))
	c.st.SetGauge(MTotalAlloc, unitBytes, float64(ms.TotalAlloc))
	c.st.SetGauge(MNumGC, unitItems, float64(ms.NumGC))
	c.st.SetGauge(MGCCPUFraction, unitPercent, ms.GCCPUFraction*100)
	c.st.SetGauge(MNumGoroutine, unitItems, float64(runtime.NumGoroutine()))
	c.st.SetGauge(MRandomValue, "", c.rnd.Float64())

	// PauseNs is a ring of the last 256 pauses; older ones are gone.
	first := c.lastGC + 1
	if ms.NumGC > 256 && first < ms.NumGC-255 {
		first = ms.NumGC - 255
	}
	for gc := first; gc <= ms.NumGC && gc > 0; gc++ {
		c.st.ObserveGCPause(float64(ms.PauseNs[(gc+255)%256]), gc)
	}
	c.lastGC = ms.NumGC

	c.st.MarkPoll(sourceRuntime)
	end := c.now()
	done(end)
	c.st.Tick(end)
}

func (c *Collector) sampleHost() {
	vm, err := mem.VirtualMemory()
	if err == nil && vm != nil {
		c.st.SetGauge(TotalMemory, unitBytes, float64(vm.Total))
		c.st.SetGauge(FreeMemory, unitBytes, float64(vm.Free))
	}
	pct, cerr := cpu.Percent(0, true)
	if cerr == nil {
		for i, p := range pct {
			c.st.SetGauge(fmt.Sprintf("%s%d", CPUutilization, i+1), unitPercent, p)
		}
	}
	if err == nil {
		err = cerr
	}
	c.st.SetHostErr(err)
	c.st.MarkPoll(sourceHost)
}

// Stop signals every collector goroutine to halt and waits for them to finish.
func (c *Collector) Stop() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
	c.wg.Wait()
}

// Snapshot returns a consistent copy of everything sampled so far.
func (c *Collector) Snapshot() domain.Snapshot {
	return c.st.Snapshot(c.now())
}

func gcLabel(n uint32) string {
	return "gc#" + strconv.FormatUint(uint64(n), 10)
}
