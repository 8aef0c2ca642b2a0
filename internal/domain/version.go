package domain

// Version is the store version reported by its info endpoint.
// The zero value stands for an unknown, pre-2.x store.
type Version struct {
	Number string
	Major  int
}

// ReplacesDots reports whether literal dots in field names must be replaced.
// Stores from 2.x on treat dots as object paths.
func (v Version) ReplacesDots() bool {
	return v.Major >= 2
}

// MappingTypes reports whether bulk metadata may carry a document type.
func (v Version) MappingTypes() bool {
	return v.Major < 8
}
