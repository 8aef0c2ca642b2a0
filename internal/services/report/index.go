package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
)

// Rotation selects the time bucket appended to the base index name.
type Rotation string

const (
	RotationNone    Rotation = "none"
	RotationDaily   Rotation = "daily"
	RotationMonthly Rotation = "monthly"
)

// ParseRotation accepts none, daily or monthly (case-insensitive). Empty means none.
func ParseRotation(s string) (Rotation, error) {
	switch r := Rotation(strings.ToLower(strings.TrimSpace(s))); r {
	case "", RotationNone:
		return RotationNone, nil
	case RotationDaily, RotationMonthly:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidRotation, s)
	}
}

// IndexName derives the destination index for instant now. Buckets are always computed in UTC.
func IndexName(base string, rotation Rotation, now time.Time) string {
	switch rotation {
	case RotationDaily:
		return base + "-" + now.UTC().Format("2006-01-02")
	case RotationMonthly:
		return base + "-" + now.UTC().Format("2006-01")
	default:
		return base
	}
}
