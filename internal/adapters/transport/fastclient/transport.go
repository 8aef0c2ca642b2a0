// Package fastclient implements ports.Transport with valyala/fasthttp.
package fastclient

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/vshulcz/elasticreport/internal/ports"
)

// DefaultTimeout bounds a request when the context has no deadline.
const DefaultTimeout = 10 * time.Second

// Transport sends requests through a shared fasthttp.Client.
type Transport struct {
	client  *fasthttp.Client
	timeout time.Duration
}

var _ ports.Transport = (*Transport)(nil)

// New returns a Transport with the given per-request timeout (DefaultTimeout if <= 0).
func New(timeout time.Duration) *Transport {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Transport{
		client: &fasthttp.Client{
			Name:                     "elasticreport",
			NoDefaultUserAgentHeader: true,
		},
		timeout: timeout,
	}
}

// Do performs the request. The context deadline wins over the default timeout when it is earlier.
func (t *Transport) Do(ctx context.Context, r ports.Request) (ports.Response, error) {
	if err := ctx.Err(); err != nil {
		return ports.Response{}, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	req.Header.SetMethod(method)
	req.SetRequestURI(r.URL)
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Body != nil {
		req.SetBodyRaw(r.Body)
	}

	deadline := time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := t.client.DoDeadline(req, resp, deadline); err != nil {
		return ports.Response{}, fmt.Errorf("fasthttp do: %w", err)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())
	return ports.Response{Status: resp.StatusCode(), Body: body}, nil
}
