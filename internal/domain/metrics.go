// Package domain holds the metric snapshot records and the documents built from them.
package domain

// Unit describes what a metric measures (bytes, requests, ...).
type Unit string

// TimeUnit describes the time base of rates and durations.
type TimeUnit string

const (
	Nanoseconds  TimeUnit = "ns"
	Microseconds TimeUnit = "us"
	Milliseconds TimeUnit = "ms"
	Seconds      TimeUnit = "s"
	Minutes      TimeUnit = "min"
	Hours        TimeUnit = "h"
)

// Tags is the set of labels attached to a metric instance.
type Tags []string

// CounterItem is a per-item breakdown of a counter.
type CounterItem struct {
	Item    string
	Count   int64
	Percent float64
}

// CounterValue is the snapshot of a counter.
type CounterValue struct {
	Items []CounterItem
	Count int64
}

// MeterItem is a per-item breakdown of a meter with its own rates.
type MeterItem struct {
	Item              string
	Count             int64
	Percent           float64
	MeanRate          float64
	OneMinuteRate     float64
	FiveMinuteRate    float64
	FifteenMinuteRate float64
}

// MeterValue is the snapshot of a meter. Rates are already scaled to the reported rate unit.
type MeterValue struct {
	Items             []MeterItem
	Count             int64
	MeanRate          float64
	OneMinuteRate     float64
	FiveMinuteRate    float64
	FifteenMinuteRate float64
}

// HistogramValue is the snapshot of a sampled distribution.
// Empty user values mean the caller did not attach a label to the sample.
type HistogramValue struct {
	LastUserValue string
	MinUserValue  string
	MaxUserValue  string
	Count         int64
	LastValue     float64
	Min           float64
	Max           float64
	Mean          float64
	StdDev        float64
	Median        float64
	Percentile75  float64
	Percentile95  float64
	Percentile98  float64
	Percentile99  float64
	Percentile999 float64
	SampleSize    int
}

// TimerValue combines a rate record and a duration distribution.
type TimerValue struct {
	Rate           MeterValue
	Histogram      HistogramValue
	ActiveSessions int64
}

// HealthResult is the outcome of a single health check.
type HealthResult struct {
	Name    string
	Message string
	Healthy bool
}

// HealthStatus aggregates every registered health check.
type HealthStatus struct {
	Results []HealthResult
	Healthy bool
}
