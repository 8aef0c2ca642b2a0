// Package remoteaudit forwards ingest audit events to an HTTP collector.
package remoteaudit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/vshulcz/elasticreport/internal/ports"
	"github.com/vshulcz/elasticreport/internal/services/audit"
)

// Client POSTs each event as JSON through a ports.Transport.
type Client struct {
	tr       ports.Transport
	endpoint string
}

var _ audit.Observer = (*Client)(nil)

func New(rawURL string, tr ports.Transport) (*Client, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, errors.New("audit url is empty")
	}
	if _, err := url.ParseRequestURI(rawURL); err != nil {
		return nil, fmt.Errorf("invalid audit url: %w", err)
	}
	if tr == nil {
		return nil, errors.New("audit transport is nil")
	}
	return &Client{endpoint: rawURL, tr: tr}, nil
}

func (c *Client) Notify(ctx context.Context, evt audit.Event) error {
	if c == nil {
		return nil
	}
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}

	resp, err := c.tr.Do(ctx, ports.Request{
		Method: http.MethodPost,
		URL:    c.endpoint,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   payload,
	})
	if err != nil {
		return fmt.Errorf("audit post: %w", err)
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return fmt.Errorf("audit post status %d", resp.Status)
	}
	return nil
}
