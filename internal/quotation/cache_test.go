package quotation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*DraftCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewDraftCache(client, time.Minute), mr
}

func TestDraftCacheFetchPopulates(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (*Draft, error) {
		loads++
		return &Draft{Code: "QT-202608-0001", Status: StatusDraft}, nil
	}

	first, err := cache.Fetch(ctx, "QT-202608-0001", loader)
	require.NoError(t, err)
	assert.Equal(t, "QT-202608-0001", first.Code)
	assert.Equal(t, 1, loads)
	assert.True(t, mr.Exists("quotation:draft:QT-202608-0001"))

	second, err := cache.Fetch(ctx, "QT-202608-0001", loader)
	require.NoError(t, err)
	assert.Equal(t, first.Code, second.Code)
	assert.Equal(t, 1, loads, "second fetch must hit the cache")
}

func TestDraftCacheInvalidate(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (*Draft, error) {
		loads++
		return &Draft{Code: "QT-202608-0002"}, nil
	}

	_, err := cache.Fetch(ctx, "QT-202608-0002", loader)
	require.NoError(t, err)

	cache.Invalidate(ctx, "QT-202608-0002")
	assert.False(t, mr.Exists("quotation:draft:QT-202608-0002"))

	_, err = cache.Fetch(ctx, "QT-202608-0002", loader)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestDraftCacheLoaderErrorPropagates(t *testing.T) {
	cache, _ := newTestCache(t)

	want := errors.New("boom")
	_, err := cache.Fetch(context.Background(), "QT-202608-0003", func(context.Context) (*Draft, error) {
		return nil, want
	})
	assert.ErrorIs(t, err, want)
}

func TestDraftCacheFallsBackWhenRedisDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	draft, err := cache.Fetch(context.Background(), "QT-202608-0004", func(context.Context) (*Draft, error) {
		return &Draft{Code: "QT-202608-0004"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "QT-202608-0004", draft.Code)
}

func TestDraftCacheNilClientUsesLoader(t *testing.T) {
	cache := NewDraftCache(nil, time.Minute)
	draft, err := cache.Fetch(context.Background(), "QT-202608-0005", func(context.Context) (*Draft, error) {
		return &Draft{Code: "QT-202608-0005"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "QT-202608-0005", draft.Code)
}
