package report

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vshulcz/elasticreport/internal/domain"
)

func TestIndexName(t *testing.T) {
	at := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "metrics-2024-03-07", IndexName("metrics", RotationDaily, at))
	assert.Equal(t, "metrics-2024-03", IndexName("metrics", RotationMonthly, at))
	assert.Equal(t, "metrics", IndexName("metrics", RotationNone, at))
	assert.Equal(t, "metrics", IndexName("metrics", "", at))
}

func TestIndexName_UsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*3600)
	// 2024-03-01 02:00 at UTC+5 is still February in UTC.
	at := time.Date(2024, 3, 1, 2, 0, 0, 0, loc)
	assert.Equal(t, "m-2024-02-29", IndexName("m", RotationDaily, at))
	assert.Equal(t, "m-2024-02", IndexName("m", RotationMonthly, at))
}

func TestIndexName_StableWithinBucket(t *testing.T) {
	start := time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC)
	want := IndexName("m", RotationDaily, start)
	for _, d := range []time.Duration{time.Second, time.Hour, 23*time.Hour + 59*time.Minute} {
		assert.Equal(t, want, IndexName("m", RotationDaily, start.Add(d)))
	}
	assert.NotEqual(t, want, IndexName("m", RotationDaily, start.Add(24*time.Hour)))
}

func TestParseRotation(t *testing.T) {
	cases := map[string]Rotation{
		"":        RotationNone,
		"none":    RotationNone,
		" Daily ": RotationDaily,
		"MONTHLY": RotationMonthly,
	}
	for in, want := range cases {
		got, err := ParseRotation(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseRotation("hourly")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidRotation))
}
