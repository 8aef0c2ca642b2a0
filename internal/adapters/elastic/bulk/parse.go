package bulk

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/vshulcz/elasticreport/internal/domain"
)

const maxLineSize = 4 << 20

var supportedActions = map[string]struct{}{
	"index":  {},
	"create": {},
}

// Parse reads a bulk NDJSON body. Blank lines are skipped and a missing final
// newline is tolerated. Actions without _index fall back to defaultIndex.
func Parse(r io.Reader, defaultIndex string) ([]domain.StoredDocument, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLineSize)

	var (
		docs    []domain.StoredDocument
		pending *domain.StoredDocument
		line    int
	)
	for sc.Scan() {
		line++
		raw := bytes.TrimSpace(sc.Bytes())
		if len(raw) == 0 {
			continue
		}
		if pending == nil {
			meta, err := parseAction(raw, defaultIndex)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %w", domain.ErrMalformedBulk, line, err)
			}
			pending = &meta
			continue
		}
		if !json.Valid(raw) || raw[0] != '{' {
			return nil, fmt.Errorf("%w: line %d: document is not a JSON object", domain.ErrMalformedBulk, line)
		}
		pending.Source = bytes.Clone(raw)
		docs = append(docs, *pending)
		pending = nil
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedBulk, err)
	}
	if pending != nil {
		return nil, fmt.Errorf("%w: action without document", domain.ErrMalformedBulk)
	}
	return docs, nil
}

func parseAction(raw []byte, defaultIndex string) (domain.StoredDocument, error) {
	var act map[string]actionMeta
	if err := json.Unmarshal(raw, &act); err != nil {
		return domain.StoredDocument{}, err
	}
	if len(act) != 1 {
		return domain.StoredDocument{}, fmt.Errorf("expected one action, got %d", len(act))
	}
	for name, meta := range act {
		if _, ok := supportedActions[name]; !ok {
			return domain.StoredDocument{}, fmt.Errorf("unsupported action %q", name)
		}
		if meta.Index == "" {
			meta.Index = defaultIndex
		}
		if meta.Index == "" {
			return domain.StoredDocument{}, errors.New("missing _index")
		}
		return domain.StoredDocument{Index: meta.Index, Type: meta.Type}, nil
	}
	return domain.StoredDocument{}, nil
}
