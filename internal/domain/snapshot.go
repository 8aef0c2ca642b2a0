package domain

// GaugeEntry is a named gauge reading.
type GaugeEntry struct {
	Name  string
	Unit  Unit
	Tags  Tags
	Value float64
}

// CounterEntry is a named counter snapshot.
type CounterEntry struct {
	Name  string
	Unit  Unit
	Tags  Tags
	Value CounterValue
}

// MeterEntry is a named meter snapshot.
type MeterEntry struct {
	Name     string
	Unit     Unit
	RateUnit TimeUnit
	Tags     Tags
	Value    MeterValue
}

// HistogramEntry is a named histogram snapshot.
type HistogramEntry struct {
	Name  string
	Unit  Unit
	Tags  Tags
	Value HistogramValue
}

// TimerEntry is a named timer snapshot.
type TimerEntry struct {
	Name         string
	Unit         Unit
	RateUnit     TimeUnit
	DurationUnit TimeUnit
	Tags         Tags
	Value        TimerValue
}

// Snapshot is an immutable view of every metric known to a collector.
// Entries keep the order in which the collector produced them.
type Snapshot struct {
	Gauges     []GaugeEntry
	Counters   []CounterEntry
	Meters     []MeterEntry
	Histograms []HistogramEntry
	Timers     []TimerEntry
	Health     HealthStatus
}

// Len returns the number of metric entries, health excluded.
func (s Snapshot) Len() int {
	return len(s.Gauges) + len(s.Counters) + len(s.Meters) + len(s.Histograms) + len(s.Timers)
}
