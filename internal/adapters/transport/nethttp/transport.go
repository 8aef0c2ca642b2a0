// Package nethttp implements ports.Transport on top of net/http.
package nethttp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vshulcz/elasticreport/internal/ports"
)

// DefaultTimeout bounds a request when no client is supplied.
const DefaultTimeout = 10 * time.Second

// Transport sends requests with an *http.Client.
type Transport struct {
	hc *http.Client
}

var _ ports.Transport = (*Transport)(nil)

// New returns a Transport using hc, or a client with DefaultTimeout when hc is nil.
func New(hc *http.Client) *Transport {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Transport{hc: hc}
}

// Do performs the request and reads the whole response body.
func (t *Transport) Do(ctx context.Context, r ports.Request) (resp ports.Response, retErr error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return ports.Response{}, fmt.Errorf("new request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	res, err := t.hc.Do(req)
	if err != nil {
		return ports.Response{}, fmt.Errorf("http do: %w", err)
	}
	defer func() {
		if cerr := res.Body.Close(); cerr != nil && retErr == nil {
			retErr = fmt.Errorf("close response body: %w", cerr)
		}
	}()

	b, err := io.ReadAll(res.Body)
	if err != nil {
		return ports.Response{}, fmt.Errorf("read body: %w", err)
	}
	return ports.Response{Status: res.StatusCode, Body: b}, nil
}
