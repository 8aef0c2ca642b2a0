// Package bulk frames documents in the bulk NDJSON format and uploads them in one request.
package bulk

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
)

// ContentType is the media type of a bulk body.
const ContentType = "application/x-ndjson"

type action struct {
	Index actionMeta `json:"index"`
}

type actionMeta struct {
	Index string `json:"_index"`
	Type  string `json:"_type,omitempty"`
}

var (
	gzipWriterPool = sync.Pool{
		New: func() any {
			return gzip.NewWriter(io.Discard)
		},
	}
	bufferPool = sync.Pool{
		New: func() any {
			return new(bytes.Buffer)
		},
	}
)

// Serialize writes two lines per document: the action metadata and the field object.
func Serialize(docs []domain.Document) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeTo(&buf, docs); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeTo(buf *bytes.Buffer, docs []domain.Document) error {
	for i, d := range docs {
		meta, err := json.Marshal(action{Index: actionMeta{Index: d.Index, Type: d.Type}})
		if err != nil {
			return fmt.Errorf("marshal action %d: %w", i, err)
		}
		src, err := json.Marshal(d.Fields)
		if err != nil {
			return fmt.Errorf("marshal document %d: %w", i, err)
		}
		buf.Write(meta)
		buf.WriteByte('\n')
		buf.Write(src)
		buf.WriteByte('\n')
	}
	return nil
}

// Uploader posts serialized batches to the bulk endpoint.
type Uploader struct {
	tr       ports.Transport
	endpoint string
	gzip     bool
}

var _ ports.Uploader = (*Uploader)(nil)

// Option configures an Uploader.
type Option func(*Uploader)

// WithGzip compresses request bodies.
func WithGzip(on bool) Option {
	return func(u *Uploader) { u.gzip = on }
}

func New(endpoint string, tr ports.Transport, opts ...Option) *Uploader {
	u := &Uploader{tr: tr, endpoint: endpoint}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Upload sends docs in a single POST. An empty batch sends nothing.
// Any failure comes back as *domain.UploadError and is not retried.
func (u *Uploader) Upload(ctx context.Context, docs []domain.Document) error {
	if len(docs) == 0 {
		return nil
	}

	plain := bufferPool.Get().(*bytes.Buffer)
	plain.Reset()
	defer bufferPool.Put(plain)
	if err := writeTo(plain, docs); err != nil {
		return &domain.UploadError{Err: err}
	}

	header := http.Header{"Content-Type": {ContentType}}
	body := plain.Bytes()
	if u.gzip {
		zbuf := bufferPool.Get().(*bytes.Buffer)
		zbuf.Reset()
		defer bufferPool.Put(zbuf)
		if err := gzipTo(zbuf, body); err != nil {
			return &domain.UploadError{Err: err}
		}
		body = zbuf.Bytes()
		header.Set("Content-Encoding", "gzip")
	}

	resp, err := u.tr.Do(ctx, ports.Request{
		Method: http.MethodPost,
		URL:    u.endpoint,
		Header: header,
		Body:   body,
	})
	if err != nil {
		return &domain.UploadError{Err: err}
	}
	if resp.Status < 200 || resp.Status >= 300 {
		return &domain.UploadError{
			Status: resp.Status,
			Err:    fmt.Errorf("server status: %s", http.StatusText(resp.Status)),
		}
	}
	return nil
}

func gzipTo(dst *bytes.Buffer, src []byte) error {
	zw := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(zw)
	zw.Reset(dst)
	if _, err := zw.Write(src); err != nil {
		_ = zw.Close()
		return fmt.Errorf("gzip write: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("gzip close: %w", err)
	}
	return nil
}
