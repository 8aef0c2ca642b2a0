package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrProbe marks a failed store version detection.
	ErrProbe = errors.New("version probe failed")
	// ErrInvalidRotation is returned for an unknown index rotation mode.
	ErrInvalidRotation = errors.New("invalid index rotation")
	// ErrInvalidIndex is returned for an index name the store would reject.
	ErrInvalidIndex = errors.New("invalid index name")
	// ErrMalformedBulk is returned by the sink for an unparsable bulk body.
	ErrMalformedBulk = errors.New("malformed bulk body")
)

// UploadError is returned when a bulk upload fails. Status is zero for transport errors.
type UploadError struct {
	Err    error
	Status int
}

func (e *UploadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("bulk upload: status %d: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("bulk upload: %v", e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}
