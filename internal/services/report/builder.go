package report

import (
	"math"
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
)

// TimestampLayout is the format of the Timestamp field.
const TimestampLayout = "2006-01-02T15:04:05.0000Z07:00"

const (
	TypeGauge     = "Gauge"
	TypeCounter   = "Counter"
	TypeMeter     = "Meter"
	TypeHistogram = "Histogram"
	TypeTimer     = "Timer"
)

const percentile999 = "Percentile 99.9%"

// Builder maps metric snapshots to documents.
type Builder struct {
	namer        FieldNamer
	index        string
	host         string
	rotation     Rotation
	mappingTypes bool
}

// NewBuilder returns a Builder writing to the base index with the given rotation.
// host is stored in every document as ServerName.
func NewBuilder(index string, rotation Rotation, host string, v domain.Version) Builder {
	return Builder{
		namer:        NewFieldNamer(v),
		index:        index,
		host:         host,
		rotation:     rotation,
		mappingTypes: v.MappingTypes(),
	}
}

// Gauge builds a gauge document. Non-finite values produce no document.
func (b Builder) Gauge(ts time.Time, name string, value float64, unit domain.Unit, tags domain.Tags) (domain.Document, bool) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return domain.Document{}, false
	}
	return b.pack(ts, TypeGauge, name, unit, tags, domain.Field{Name: "Value", Value: value}), true
}

// Counter builds a counter document with two fields per item.
func (b Builder) Counter(ts time.Time, name string, value domain.CounterValue, unit domain.Unit, tags domain.Tags) domain.Document {
	fields := make([]domain.Field, 0, 1+2*len(value.Items))
	fields = append(fields, domain.Field{Name: "Count", Value: value.Count})
	for _, it := range value.Items {
		fields = append(fields,
			domain.Field{Name: it.Item + " - Count", Value: it.Count},
			domain.Field{Name: it.Item + " - Percent", Value: it.Percent},
		)
	}
	return b.pack(ts, TypeCounter, name, unit, tags, fields...)
}

// Meter builds a meter document with six fields per item.
func (b Builder) Meter(ts time.Time, name string, value domain.MeterValue, unit domain.Unit, tags domain.Tags) domain.Document {
	fields := make([]domain.Field, 0, 5+6*len(value.Items))
	fields = append(fields, domain.Field{Name: "Count", Value: value.Count})
	fields = appendRates(fields, value)
	for _, it := range value.Items {
		fields = append(fields,
			domain.Field{Name: it.Item + " - Count", Value: it.Count},
			domain.Field{Name: it.Item + " - Percent", Value: it.Percent},
			domain.Field{Name: it.Item + " - Mean Rate", Value: it.MeanRate},
			domain.Field{Name: it.Item + " - 1 Min Rate", Value: it.OneMinuteRate},
			domain.Field{Name: it.Item + " - 5 Min Rate", Value: it.FiveMinuteRate},
			domain.Field{Name: it.Item + " - 15 Min Rate", Value: it.FifteenMinuteRate},
		)
	}
	return b.pack(ts, TypeMeter, name, unit, tags, fields...)
}

// Histogram builds a histogram document.
func (b Builder) Histogram(ts time.Time, name string, value domain.HistogramValue, unit domain.Unit, tags domain.Tags) domain.Document {
	fields := make([]domain.Field, 0, 16)
	fields = append(fields, domain.Field{Name: "Total Count", Value: value.Count})
	fields = b.appendDistribution(fields, value)
	return b.pack(ts, TypeHistogram, name, unit, tags, fields...)
}

// Timer builds a timer document: rates first, then the duration distribution.
func (b Builder) Timer(ts time.Time, name string, value domain.TimerValue, unit domain.Unit, tags domain.Tags) domain.Document {
	fields := make([]domain.Field, 0, 21)
	fields = append(fields,
		domain.Field{Name: "Total Count", Value: value.Rate.Count},
		domain.Field{Name: "Active Sessions", Value: value.ActiveSessions},
	)
	fields = appendRates(fields, value.Rate)
	fields = b.appendDistribution(fields, value.Histogram)
	return b.pack(ts, TypeTimer, name, unit, tags, fields...)
}

func appendRates(fields []domain.Field, m domain.MeterValue) []domain.Field {
	return append(fields,
		domain.Field{Name: "Mean Rate", Value: m.MeanRate},
		domain.Field{Name: "1 Min Rate", Value: m.OneMinuteRate},
		domain.Field{Name: "5 Min Rate", Value: m.FiveMinuteRate},
		domain.Field{Name: "15 Min Rate", Value: m.FifteenMinuteRate},
	)
}

func (b Builder) appendDistribution(fields []domain.Field, h domain.HistogramValue) []domain.Field {
	return append(fields,
		domain.Field{Name: "Last", Value: h.LastValue},
		domain.Field{Name: "Last User Value", Value: userValue(h.LastUserValue)},
		domain.Field{Name: "Min", Value: h.Min},
		domain.Field{Name: "Min User Value", Value: userValue(h.MinUserValue)},
		domain.Field{Name: "Max", Value: h.Max},
		domain.Field{Name: "Max User Value", Value: userValue(h.MaxUserValue)},
		domain.Field{Name: "Mean", Value: h.Mean},
		domain.Field{Name: "StdDev", Value: h.StdDev},
		domain.Field{Name: "Median", Value: h.Median},
		domain.Field{Name: "Percentile 75%", Value: h.Percentile75},
		domain.Field{Name: "Percentile 95%", Value: h.Percentile95},
		domain.Field{Name: "Percentile 98%", Value: h.Percentile98},
		domain.Field{Name: "Percentile 99%", Value: h.Percentile99},
		domain.Field{Name: b.namer.Adjust(percentile999), Value: h.Percentile999},
		domain.Field{Name: "Sample Size", Value: h.SampleSize},
	)
}

func userValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (b Builder) pack(ts time.Time, kind, name string, unit domain.Unit, tags domain.Tags, extra ...domain.Field) domain.Document {
	fields := make(domain.Fields, 0, 6+len(extra))
	fields = append(fields,
		domain.Field{Name: "Timestamp", Value: ts.UTC().Format(TimestampLayout)},
		domain.Field{Name: "Type", Value: kind},
		domain.Field{Name: "Name", Value: name},
		domain.Field{Name: "ServerName", Value: b.host},
		domain.Field{Name: "Unit", Value: string(unit)},
	)
	if len(tags) > 0 {
		fields = append(fields, domain.Field{Name: "Tags", Value: []string(tags)})
	}
	fields = append(fields, extra...)

	doc := domain.Document{
		Index:  IndexName(b.index, b.rotation, ts),
		Fields: fields,
	}
	if b.mappingTypes {
		doc.Type = kind
	}
	return doc
}
