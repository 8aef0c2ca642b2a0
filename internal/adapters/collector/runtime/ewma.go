package runtime

import (
	"math"
	"time"
)

// ewma is an exponentially weighted moving rate, in events per second.
type ewma struct {
	window time.Duration
	rate   float64
	primed bool
}

func newEWMA(window time.Duration) *ewma {
	return &ewma{window: window}
}

// tick folds n events observed over elapsed into the rate.
func (e *ewma) tick(n int64, elapsed time.Duration) {
	if elapsed <= 0 {
		return
	}
	instant := float64(n) / elapsed.Seconds()
	if !e.primed {
		e.rate = instant
		e.primed = true
		return
	}
	alpha := 1 - math.Exp(-elapsed.Seconds()/e.window.Seconds())
	e.rate += alpha * (instant - e.rate)
}

// meter tracks a total count with mean and 1/5/15 minute rates.
type meter struct {
	start   time.Time
	m1      *ewma
	m5      *ewma
	m15     *ewma
	count   int64
	pending int64
}

func newMeter(start time.Time) *meter {
	return &meter{
		start: start,
		m1:    newEWMA(time.Minute),
		m5:    newEWMA(5 * time.Minute),
		m15:   newEWMA(15 * time.Minute),
	}
}

func (m *meter) mark(n int64) {
	m.count += n
	m.pending += n
}

func (m *meter) tick(elapsed time.Duration) {
	m.m1.tick(m.pending, elapsed)
	m.m5.tick(m.pending, elapsed)
	m.m15.tick(m.pending, elapsed)
	m.pending = 0
}

func (m *meter) meanRate(now time.Time) float64 {
	el := now.Sub(m.start).Seconds()
	if el <= 0 {
		return 0
	}
	return float64(m.count) / el
}
