package sink

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vshulcz/elasticreport/internal/adapters/docstore/memory"
	"github.com/vshulcz/elasticreport/internal/domain"
	"github.com/vshulcz/elasticreport/internal/services/audit"
)

type failingStore struct{ *memory.Store }

func (failingStore) Insert(context.Context, []domain.StoredDocument) error {
	return errors.New("disk full")
}

func doc(index, typ string) domain.StoredDocument {
	return domain.StoredDocument{Index: index, Type: typ, Source: json.RawMessage(`{}`)}
}

func TestService_Ingest(t *testing.T) {
	store := memory.New()
	svc := New(store, domain.Version{Number: "7.17.0", Major: 7})
	ctx := context.Background()

	res, err := svc.Ingest(ctx, []domain.StoredDocument{
		doc("metrics", "Gauge"),
		doc("Bad Index", "Gauge"),
		doc("metrics", "Timer"),
	})
	require.NoError(t, err)
	assert.True(t, res.Errors)
	require.Len(t, res.Items, 3)
	assert.Equal(t, http.StatusCreated, res.Items[0].Status)
	assert.Equal(t, http.StatusBadRequest, res.Items[1].Status)
	assert.Contains(t, res.Items[1].Error, "invalid index name")
	assert.Equal(t, http.StatusCreated, res.Items[2].Status)

	n, err := svc.Count(ctx, "metrics")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)
}

func TestService_IngestRejectsTypesOnTypelessVersion(t *testing.T) {
	svc := New(memory.New(), domain.Version{Number: "8.11.1", Major: 8})

	res, err := svc.Ingest(context.Background(), []domain.StoredDocument{doc("metrics", "Gauge"), doc("metrics", "")})
	require.NoError(t, err)
	assert.True(t, res.Errors)
	assert.Equal(t, http.StatusBadRequest, res.Items[0].Status)
	assert.Equal(t, http.StatusCreated, res.Items[1].Status)
}

func TestService_IngestStoreError(t *testing.T) {
	svc := New(failingStore{memory.New()}, domain.Version{Major: 7})
	_, err := svc.Ingest(context.Background(), []domain.StoredDocument{doc("metrics", "")})
	assert.EqualError(t, err, "disk full")
}

func TestService_CountInvalidIndex(t *testing.T) {
	svc := New(memory.New(), domain.Version{})
	_, err := svc.Count(context.Background(), "_all")
	assert.ErrorIs(t, err, domain.ErrInvalidIndex)
	assert.NoError(t, svc.Ping(context.Background()))
}

func TestService_IngestPublishesAudit(t *testing.T) {
	var events []audit.Event
	pub := audit.NewSubject(audit.ObserverFunc(func(_ context.Context, evt audit.Event) error {
		events = append(events, evt)
		return nil
	}))
	svc := New(memory.New(), domain.Version{Major: 7}, WithAudit(pub))
	ctx := audit.WithClientIP(context.Background(), "10.0.0.7")

	_, err := svc.Ingest(ctx, []domain.StoredDocument{doc("b", ""), doc("a", ""), doc("b", ""), doc("BAD", "")})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, []string{"a", "b"}, events[0].Indices)
	assert.Equal(t, 3, events[0].Documents)
	assert.Equal(t, "10.0.0.7", events[0].IPAddress)

	_, err = svc.Ingest(ctx, []domain.StoredDocument{doc("BAD", "")})
	require.NoError(t, err)
	assert.Len(t, events, 1, "nothing stored, nothing audited")
}

func TestService_AuditFailureOnlyLogged(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	pub := audit.NewSubject(audit.ObserverFunc(func(context.Context, audit.Event) error {
		return errors.New("collector down")
	}))
	svc := New(memory.New(), domain.Version{Major: 7}, WithAudit(pub), WithLogger(zap.New(core)))

	res, err := svc.Ingest(context.Background(), []domain.StoredDocument{doc("m", "")})
	require.NoError(t, err)
	assert.False(t, res.Errors)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "audit publish failed", logs.All()[0].Message)
}
