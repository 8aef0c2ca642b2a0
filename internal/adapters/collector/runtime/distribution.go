package runtime

import (
	"math"
	"slices"

	"github.com/vshulcz/elasticreport/internal/domain"
)

const reservoirSize = 1028

// reservoir keeps the most recent samples up to reservoirSize.
type reservoir struct {
	values   []float64
	last     float64
	lastUser string
	count    int64
	next     int
}

func (r *reservoir) update(v float64, user string) {
	r.count++
	r.last = v
	r.lastUser = user
	if len(r.values) < reservoirSize {
		r.values = append(r.values, v)
		return
	}
	r.values[r.next] = v
	r.next = (r.next + 1) % reservoirSize
}

func (r *reservoir) snapshot() domain.HistogramValue {
	h := domain.HistogramValue{
		Count:         r.count,
		LastValue:     r.last,
		LastUserValue: r.lastUser,
		SampleSize:    len(r.values),
	}
	if len(r.values) == 0 {
		return h
	}
	sorted := slices.Clone(r.values)
	slices.Sort(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))
	var sq float64
	for _, v := range sorted {
		sq += (v - mean) * (v - mean)
	}

	h.Min = sorted[0]
	h.Max = sorted[len(sorted)-1]
	h.Mean = mean
	if len(sorted) > 1 {
		h.StdDev = math.Sqrt(sq / float64(len(sorted)-1))
	}
	h.Median = quantile(sorted, 0.5)
	h.Percentile75 = quantile(sorted, 0.75)
	h.Percentile95 = quantile(sorted, 0.95)
	h.Percentile98 = quantile(sorted, 0.98)
	h.Percentile99 = quantile(sorted, 0.99)
	h.Percentile999 = quantile(sorted, 0.999)
	return h
}

// quantile interpolates between the closest ranks of a sorted sample.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	pos := q * float64(n+1)
	switch {
	case pos < 1:
		return sorted[0]
	case pos >= float64(n):
		return sorted[n-1]
	}
	lower := sorted[int(pos)-1]
	upper := sorted[int(pos)]
	return lower + (pos-math.Floor(pos))*(upper-lower)
}
