package memory

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vshulcz/elasticreport/internal/domain"
)

func TestStore_InsertCount(t *testing.T) {
	s := New()
	ctx := context.Background()

	require.NoError(t, s.Insert(ctx, []domain.StoredDocument{
		{Index: "metrics", Type: "Gauge", Source: json.RawMessage(`{"Name":"a"}`)},
		{Index: "metrics", Type: "Gauge", Source: json.RawMessage(`{"Name":"a"}`)},
		{Index: "other", Source: json.RawMessage(`{}`)},
	}))

	n, err := s.Count(ctx, "metrics")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n, "duplicates are kept")

	n, err = s.Count(ctx, "missing")
	require.NoError(t, err)
	assert.Zero(t, n)

	docs := s.Documents("metrics")
	require.Len(t, docs, 2)
	assert.Equal(t, "Gauge", docs[0].Type)
	assert.NoError(t, s.Ping(ctx))
}

func TestStore_InsertCopiesSource(t *testing.T) {
	s := New()
	src := json.RawMessage(`{"v":1}`)
	require.NoError(t, s.Insert(context.Background(), []domain.StoredDocument{{Index: "i", Source: src}}))
	src[5] = '2'

	assert.JSONEq(t, `{"v":1}`, string(s.Documents("i")[0].Source))
}

func TestStore_ConcurrentInsert(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = s.Insert(context.Background(), []domain.StoredDocument{{Index: "m", Source: json.RawMessage(`{}`)}})
			}
		}()
	}
	wg.Wait()

	n, err := s.Count(context.Background(), "m")
	require.NoError(t, err)
	assert.EqualValues(t, 400, n)
}
