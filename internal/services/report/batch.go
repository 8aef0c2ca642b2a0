package report

import (
	"time"

	"github.com/vshulcz/elasticreport/internal/domain"
)

// Batch accumulates the documents of a single reporting pass.
// It is owned by one pass and must not be shared.
type Batch struct {
	timestamp   time.Time
	contextName string
	docs        []domain.Document
}

// Begin clears the batch and records the pass identity.
func (b *Batch) Begin(contextName string, ts time.Time) {
	b.contextName = contextName
	b.timestamp = ts
	b.docs = b.docs[:0]
}

func (b *Batch) Append(doc domain.Document) {
	b.docs = append(b.docs, doc)
}

// Drain returns the accumulated documents and leaves the batch empty.
func (b *Batch) Drain() []domain.Document {
	docs := b.docs
	b.docs = nil
	return docs
}

func (b *Batch) Len() int { return len(b.docs) }

func (b *Batch) Timestamp() time.Time { return b.timestamp }

func (b *Batch) ContextName() string { return b.contextName }
