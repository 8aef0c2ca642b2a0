// Package probe reads the store version from its info endpoint.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
)

// Prober issues a single GET against the info endpoint.
type Prober struct {
	tr ports.Transport
}

var _ ports.VersionProber = (*Prober)(nil)

func New(tr ports.Transport) *Prober {
	return &Prober{tr: tr}
}

// Probe fetches infoURL and extracts the major version.
// Every failure wraps domain.ErrProbe; choosing a fallback is up to the caller.
func (p *Prober) Probe(ctx context.Context, infoURL string) (domain.Version, error) {
	resp, err := p.tr.Do(ctx, ports.Request{
		Method: http.MethodGet,
		URL:    infoURL,
		Header: http.Header{"Accept": {"application/json"}},
	})
	if err != nil {
		return domain.Version{}, fmt.Errorf("%w: %v", domain.ErrProbe, err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return domain.Version{}, fmt.Errorf("%w: info status %d", domain.ErrProbe, resp.Status)
	}
	return ParseInfo(resp.Body)
}

type info struct {
	Version json.RawMessage `json:"version"`
}

type versionObject struct {
	Number json.RawMessage `json:"number"`
}

// ParseInfo extracts the version from an info document. Accepted shapes:
// {"version":{"number":"2.3.1"}}, {"version":"2.3.1"} and numeric variants of both.
func ParseInfo(body []byte) (domain.Version, error) {
	var doc info
	if err := json.Unmarshal(body, &doc); err != nil {
		return domain.Version{}, fmt.Errorf("%w: decode info: %v", domain.ErrProbe, err)
	}
	raw := bytes.TrimSpace(doc.Version)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return domain.Version{}, fmt.Errorf("%w: version field missing", domain.ErrProbe)
	}
	if raw[0] == '{' {
		var obj versionObject
		if err := json.Unmarshal(raw, &obj); err != nil {
			return domain.Version{}, fmt.Errorf("%w: decode version: %v", domain.ErrProbe, err)
		}
		raw = bytes.TrimSpace(obj.Number)
		if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
			return domain.Version{}, fmt.Errorf("%w: version number missing", domain.ErrProbe)
		}
	}

	number := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &number); err != nil {
			return domain.Version{}, fmt.Errorf("%w: decode version number: %v", domain.ErrProbe, err)
		}
	}
	return ParseVersion(number)
}

// ParseVersion reads the major component of a dotted version string such as "7.17.3".
func ParseVersion(number string) (domain.Version, error) {
	number = strings.TrimSpace(number)
	major, _, _ := strings.Cut(number, ".")
	n, err := strconv.Atoi(major)
	if err != nil || n < 0 {
		return domain.Version{}, fmt.Errorf("%w: bad version %q", domain.ErrProbe, number)
	}
	return domain.Version{Number: number, Major: n}, nil
}
