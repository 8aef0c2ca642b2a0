package runtime

import (
	"slices"
	"sync"
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
)

const (
	sourceRuntime = "runtime"
	sourceHost    = "host"
)

var sources = []string{sourceRuntime, sourceHost}

type stats struct {
	gauges   map[string]float64
	units    map[string]domain.Unit
	meters   map[string]*meter
	hostErr  error
	lastTick time.Time
	gcPause  reservoir
	pollDur  reservoir
	active   int64
	mu       sync.RWMutex
}

func newStats(now time.Time) *stats {
	s := &stats{
		gauges:   make(map[string]float64),
		units:    make(map[string]domain.Unit),
		meters:   make(map[string]*meter, len(sources)),
		lastTick: now,
	}
	for _, src := range sources {
		s.meters[src] = newMeter(now)
	}
	return s
}

func (s *stats) SetGauge(name string, unit domain.Unit, v float64) {
	s.mu.Lock()
	s.gauges[name] = v
	s.units[name] = unit
	s.mu.Unlock()
}

// MarkPoll counts one completed sampling round of src.
func (s *stats) MarkPoll(src string) {
	s.mu.Lock()
	s.meters[src].mark(1)
	s.mu.Unlock()
}

func (s *stats) Tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	elapsed := now.Sub(s.lastTick)
	s.lastTick = now
	for _, m := range s.meters {
		m.tick(elapsed)
	}
}

func (s *stats) ObserveGCPause(ns float64, gc uint32) {
	s.mu.Lock()
	s.gcPause.update(ns, gcLabel(gc))
	s.mu.Unlock()
}

// BeginPoll marks a sampling round as in flight and returns the func that records its duration.
func (s *stats) BeginPoll(start time.Time) func(time.Time) {
	s.mu.Lock()
	s.active++
	s.mu.Unlock()
	return func(end time.Time) {
		s.mu.Lock()
		s.active--
		s.pollDur.update(float64(end.Sub(start))/float64(time.Millisecond), "")
		s.mu.Unlock()
	}
}

func (s *stats) SetHostErr(err error) {
	s.mu.Lock()
	s.hostErr = err
	s.mu.Unlock()
}

func (s *stats) PollCount(src string) int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.meters[src].count
}

func (s *stats) Snapshot(now time.Time) domain.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.gauges))
	for n := range s.gauges {
		names = append(names, n)
	}
	slices.Sort(names)
	gauges := make([]domain.GaugeEntry, 0, len(names))
	for _, n := range names {
		gauges = append(gauges, domain.GaugeEntry{Name: n, Unit: s.units[n], Value: s.gauges[n]})
	}

	var total int64
	for _, m := range s.meters {
		total += m.count
	}
	counter := domain.CounterValue{Count: total}
	polls := domain.MeterValue{Count: total}
	for _, src := range sources {
		m := s.meters[src]
		pct := percent(m.count, total)
		counter.Items = append(counter.Items, domain.CounterItem{Item: src, Count: m.count, Percent: pct})
		item := domain.MeterItem{
			Item:              src,
			Count:             m.count,
			Percent:           pct,
			MeanRate:          m.meanRate(now),
			OneMinuteRate:     m.m1.rate,
			FiveMinuteRate:    m.m5.rate,
			FifteenMinuteRate: m.m15.rate,
		}
		polls.Items = append(polls.Items, item)
		polls.MeanRate += item.MeanRate
		polls.OneMinuteRate += item.OneMinuteRate
		polls.FiveMinuteRate += item.FiveMinuteRate
		polls.FifteenMinuteRate += item.FifteenMinuteRate
	}

	runtimeMeter := s.meters[sourceRuntime]
	timerRate := domain.MeterValue{
		Count:             runtimeMeter.count,
		MeanRate:          runtimeMeter.meanRate(now),
		OneMinuteRate:     runtimeMeter.m1.rate,
		FiveMinuteRate:    runtimeMeter.m5.rate,
		FifteenMinuteRate: runtimeMeter.m15.rate,
	}

	health := domain.HealthStatus{Healthy: s.hostErr == nil}
	hostResult := domain.HealthResult{Name: "host sampling", Healthy: s.hostErr == nil, Message: "ok"}
	if s.hostErr != nil {
		hostResult.Message = s.hostErr.Error()
	}
	health.Results = append(health.Results, hostResult)

	return domain.Snapshot{
		Gauges:   gauges,
		Counters: []domain.CounterEntry{{Name: MPollCount, Unit: "polls", Value: counter}},
		Meters:   []domain.MeterEntry{{Name: MPolls, Unit: "polls", RateUnit: domain.Seconds, Value: polls}},
		Histograms: []domain.HistogramEntry{{
			Name: MGCPause, Unit: "ns", Value: s.gcPause.snapshot(),
		}},
		Timers: []domain.TimerEntry{{
			Name:         MPollDuration,
			Unit:         "polls",
			RateUnit:     domain.Seconds,
			DurationUnit: domain.Milliseconds,
			Value: domain.TimerValue{
				Rate:           timerRate,
				Histogram:      s.pollDur.snapshot(),
				ActiveSessions: s.active,
			},
		}},
		Health: health,
	}
}

func percent(part, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
