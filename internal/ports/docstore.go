package ports

import (
	"context"

	"github.com/vshulcz/elasticreport/internal/domain"
)

type DocumentStore interface {
	Insert(ctx context.Context, docs []domain.StoredDocument) error
	Count(ctx context.Context, index string) (int64, error)
	Ping(ctx context.Context) error
}
