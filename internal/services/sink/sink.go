// Package sink implements the ingest side of the development bulk store.
package sink

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/ports"
	"github.com/vshulcz/elasticreport/internal/services/audit"
)

// Item is the per-document outcome of a bulk request.
type Item struct {
	Index  string
	Type   string
	Error  string
	Status int
}

// Result summarizes one bulk request.
type Result struct {
	Items  []Item
	Took   time.Duration
	Errors bool
}

type Service struct {
	store   ports.DocumentStore
	audit   audit.Publisher
	log     *zap.Logger
	now     func() time.Time
	version domain.Version
}

type Option func(*Service)

// WithAudit publishes an audit.Event for every request that stored documents.
func WithAudit(p audit.Publisher) Option {
	return func(s *Service) { s.audit = p }
}

func WithLogger(l *zap.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func New(store ports.DocumentStore, version domain.Version, opts ...Option) *Service {
	s := &Service{store: store, version: version, now: time.Now, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

// Version is the store version announced on the info endpoint.
func (s *Service) Version() domain.Version {
	return s.version
}

// Ingest stores every acceptable document of the batch in one insert.
// Rejected documents are reported per item and do not fail the request.
func (s *Service) Ingest(ctx context.Context, docs []domain.StoredDocument) (Result, error) {
	start := s.now()
	res := Result{Items: make([]Item, len(docs))}
	accepted := make([]domain.StoredDocument, 0, len(docs))
	slots := make([]int, 0, len(docs))

	for i, d := range docs {
		res.Items[i] = Item{Index: d.Index, Type: d.Type}
		if err := s.check(d); err != nil {
			res.Items[i].Status = http.StatusBadRequest
			res.Items[i].Error = err.Error()
			res.Errors = true
			continue
		}
		accepted = append(accepted, d)
		slots = append(slots, i)
	}

	if len(accepted) > 0 {
		if err := s.store.Insert(ctx, accepted); err != nil {
			return Result{}, err
		}
	}
	for _, i := range slots {
		res.Items[i].Status = http.StatusCreated
	}
	res.Took = s.now().Sub(start)

	if len(accepted) > 0 {
		s.notify(ctx, start, accepted)
	}
	return res, nil
}

// notify never fails the request; audit errors are only logged.
func (s *Service) notify(ctx context.Context, at time.Time, docs []domain.StoredDocument) {
	if s.audit == nil {
		return
	}
	indices := make([]string, 0, 1)
	for _, d := range docs {
		indices = append(indices, d.Index)
	}
	slices.Sort(indices)

	evt := audit.Event{
		Timestamp: at.Unix(),
		Indices:   slices.Compact(indices),
		Documents: len(docs),
		IPAddress: audit.ClientIP(ctx),
	}
	if err := s.audit.Publish(ctx, evt); err != nil {
		s.log.Warn("audit publish failed", zap.Error(err))
	}
}

func (s *Service) check(d domain.StoredDocument) error {
	if !domain.ValidIndexName(d.Index) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidIndex, d.Index)
	}
	if d.Type != "" && !s.version.MappingTypes() {
		return fmt.Errorf("mapping type %q is not supported by version %s", d.Type, s.version.Number)
	}
	return nil
}

// Count returns the number of documents stored under index.
func (s *Service) Count(ctx context.Context, index string) (int64, error) {
	if !domain.ValidIndexName(index) {
		return 0, fmt.Errorf("%w: %q", domain.ErrInvalidIndex, index)
	}
	return s.store.Count(ctx, index)
}
