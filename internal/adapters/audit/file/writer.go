// Package file appends ingest audit events to a local NDJSON file.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/vshulcz/elasticreport/internal/services/audit"
)

// Writer appends one JSON line per event. The file is opened per event so
// external rotation is picked up.
type Writer struct {
	path string
	mu   sync.Mutex
}

var _ audit.Observer = (*Writer)(nil)

func New(path string) *Writer {
	return &Writer{path: path}
}

func (w *Writer) Notify(_ context.Context, evt audit.Event) (retErr error) {
	if w == nil || w.path == "" {
		return nil
	}

	line, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	line = append(line, '\n')

	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("open audit file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close audit file: %w", cerr)
		}
	}()

	if _, err := f.Write(line); err != nil {
		return fmt.Errorf("write audit file: %w", err)
	}
	return nil
}
