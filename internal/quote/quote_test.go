package quote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/existflow/taskbreeze/internal/model"
)

func TestUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"q":"Ship it.","a":"Someone","h":"<blockquote/>"}]`))
	}))
	defer srv.Close()

	q, err := NewUpstream(srv.URL).Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.Quote{Text: "Ship it.", Author: "Someone"}, q)
}

func TestUpstream_Failures(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTooManyRequests) },
		"empty":  func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`[]`)) },
		"junk":   func(w http.ResponseWriter, r *http.Request) { _, _ = w.Write([]byte(`<html>`)) },
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()
			_, err := NewUpstream(srv.URL).Quote(context.Background())
			assert.Error(t, err)
		})
	}
}

func TestProvider_FallsBack(t *testing.T) {
	failing := SourceFunc(func(context.Context) (model.Quote, error) {
		return model.Quote{}, errors.New("offline")
	})
	p := NewProvider(failing)
	p.pick = func(n int) int { return n - 1 }

	assert.Equal(t, Fallbacks[2], p.Get(context.Background()))
	q, err := p.Quote(context.Background())
	require.NoError(t, err)
	assert.Contains(t, Fallbacks, q)
}

func TestSession_CachesUntilRefresh(t *testing.T) {
	var calls int
	src := SourceFunc(func(context.Context) (model.Quote, error) {
		calls++
		return model.Quote{Text: "quote", Author: string(rune('a' + calls))}, nil
	})
	s := NewSession(NewProvider(src))
	ctx := context.Background()

	first := s.Get(ctx)
	assert.Equal(t, first, s.Get(ctx))
	assert.Equal(t, 1, calls)

	refreshed := s.Refresh(ctx)
	assert.NotEqual(t, first, refreshed)
	assert.Equal(t, refreshed, s.Get(ctx))
	assert.Equal(t, 2, calls)
}

func TestRedisCache_MissThenHit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	var calls int
	base := SourceFunc(func(context.Context) (model.Quote, error) {
		calls++
		return model.Quote{Text: "cached", Author: "me"}, nil
	})
	cache := NewRedisCache(base, client, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		q, err := cache.Quote(ctx)
		require.NoError(t, err)
		assert.Equal(t, "cached", q.Text)
	}
	assert.Equal(t, 1, calls)
	assert.True(t, mr.Exists(CacheKey))

	mr.FastForward(2 * time.Minute)
	_, err = cache.Quote(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRedisCache_DoesNotCacheFailures(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	base := SourceFunc(func(context.Context) (model.Quote, error) {
		return model.Quote{}, errors.New("upstream down")
	})
	_, err = NewRedisCache(base, client, time.Minute).Quote(context.Background())
	require.Error(t, err)
	assert.False(t, mr.Exists(CacheKey))
}

func TestRedisCache_CorruptEntryIsEvicted(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	require.NoError(t, mr.Set(CacheKey, "{broken"))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	base := SourceFunc(func(context.Context) (model.Quote, error) {
		return model.Quote{Text: "fresh"}, nil
	})
	q, err := NewRedisCache(base, client, time.Minute).Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", q.Text)
}

// failGets fails every GET as if the connection dropped
type failGets struct{}

func (failGets) DialHook(next redis.DialHook) redis.DialHook { return next }

func (failGets) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		if cmd.Name() == "get" {
			err := errors.New("read tcp: i/o timeout")
			cmd.SetErr(err)
			return err
		}
		return next(ctx, cmd)
	}
}

func (failGets) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func TestRedisCache_TransportErrorKeepsEntry(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	const entry = `{"text":"kept","author":"me"}`
	require.NoError(t, mr.Set(CacheKey, entry))

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	client.AddHook(failGets{})

	base := SourceFunc(func(context.Context) (model.Quote, error) {
		return model.Quote{Text: "fresh"}, nil
	})
	// Zero ttl keeps the miss from writing, so only eviction could touch the key
	q, err := NewRedisCache(base, client, 0).Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "fresh", q.Text)

	got, err := mr.Get(CacheKey)
	require.NoError(t, err)
	assert.Equal(t, entry, got)
}
