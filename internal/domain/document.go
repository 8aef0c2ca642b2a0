package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Field is a single named value of a document.
type Field struct {
	Value any
	Name  string
}

// Fields keeps document fields in insertion order, which is also their JSON order.
type Fields []Field

// MarshalJSON encodes the fields as a JSON object without reordering keys.
func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fld.Name)
		if err != nil {
			return nil, fmt.Errorf("field name %q: %w", fld.Name, err)
		}
		v, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", fld.Name, err)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Get returns the first value stored under name.
func (f Fields) Get(name string) (any, bool) {
	for _, fld := range f {
		if fld.Name == name {
			return fld.Value, true
		}
	}
	return nil, false
}

// Names lists field names in order.
func (f Fields) Names() []string {
	out := make([]string, len(f))
	for i, fld := range f {
		out[i] = fld.Name
	}
	return out
}

// Document is one record destined for the index store.
// An empty Type means the store does not accept mapping types.
type Document struct {
	Index  string
	Type   string
	Fields Fields
}

// StoredDocument is a document as received by a bulk endpoint.
type StoredDocument struct {
	Index  string
	Type   string
	Source json.RawMessage
}

// ValidIndexName reports whether name is usable as an index: non-empty,
// lowercase and free of the characters the store rejects.
func ValidIndexName(name string) bool {
	if name == "" || name == "." || name == ".." || strings.HasPrefix(name, "_") {
		return false
	}
	return !strings.ContainsAny(name, " ,/\\*?\"<>|#:") && name == strings.ToLower(name)
}
