package report

import (
	"strings"

	"github.com/vshulcz/elasticreport/internal/domain"
)

// FieldNamer adjusts generated field names to what the target store accepts.
type FieldNamer struct {
	replaceDots bool
}

// NewFieldNamer configures the namer for the probed store version.
func NewFieldNamer(v domain.Version) FieldNamer {
	return FieldNamer{replaceDots: v.ReplacesDots()}
}

// Adjust replaces literal dots with underscores when the store would read them as object paths.
func (n FieldNamer) Adjust(name string) string {
	if !n.replaceDots {
		return name
	}
	return strings.ReplaceAll(name, ".", "_")
}
