package ports

import (
	"context"
	"net/http"
)

// Request is a single outgoing HTTP call.
type Request struct {
	Header http.Header
	Method string
	URL    string
	Body   []byte
}

// Response carries the status and the fully read body.
type Response struct {
	Body   []byte
	Status int
}

// Transport performs blocking HTTP calls. Timeouts belong to the implementation.
type Transport interface {
	Do(ctx context.Context, req Request) (Response, error)
}
