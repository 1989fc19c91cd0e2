package scraper

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/kingjawir/marketplace/sdk/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct {
	mu    sync.Mutex
	pages map[string]string
	fail  map[string]bool
	calls []Target
}

func (f *fakeRenderer) Render(_ context.Context, target Target) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, target)
	for prefix, page := range f.pages {
		if len(target.URL) >= len(prefix) && target.URL[:len(prefix)] == prefix {
			if f.fail[prefix] {
				return "", errors.New("chrome crashed")
			}
			return page, nil
		}
	}
	return "", errors.New("unexpected url " + target.URL)
}

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := OpenCache(context.Background(), CacheConfig{
		Path: filepath.Join(t.TempDir(), "cache.db"),
		TTL:  time.Minute,
	})
	require.NoError(t, err)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestCacheExpiry(t *testing.T) {
	ctx := context.Background()
	cache := openTestCache(t)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	products := []Product{product("a", "Rp1.000", "", ""), product("b", "Rp2.000", "", "")}
	require.NoError(t, cache.Put(ctx, Tokopedia, "iphone", products))

	got, hit, err := cache.Get(ctx, Tokopedia, "iphone", 1)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []string{"a"}, names(got))

	_, hit, err = cache.Get(ctx, Blibli, "iphone", 10)
	require.NoError(t, err)
	assert.False(t, hit)

	now = now.Add(2 * time.Minute)
	_, hit, err = cache.Get(ctx, Tokopedia, "iphone", 10)
	require.NoError(t, err)
	assert.False(t, hit)

	pruned, err := cache.Prune(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)
}

func TestServiceSearchUsesCache(t *testing.T) {
	ctx := context.Background()
	renderer := &fakeRenderer{pages: map[string]string{tokopediaBaseURL: tokopediaPage}}
	svc := NewService(logger.NewDiscard(), renderer, openTestCache(t))

	first, err := svc.Search(ctx, Tokopedia, "iphone", 2)
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := svc.Search(ctx, Tokopedia, "iphone", 2)
	require.NoError(t, err)
	assert.Equal(t, names(first), names(second))
	assert.Len(t, renderer.calls, 1)
	assert.Equal(t, 2, renderer.calls[0].Limit)
}

func TestServiceSkipsCacheForShortResults(t *testing.T) {
	ctx := context.Background()
	renderer := &fakeRenderer{pages: map[string]string{tokopediaBaseURL: tokopediaPage}}
	svc := NewService(logger.NewDiscard(), renderer, openTestCache(t))

	for range 2 {
		products, err := svc.Search(ctx, Tokopedia, "", 0)
		require.NoError(t, err)
		assert.Len(t, products, 2)
	}
	assert.Len(t, renderer.calls, 2)
	assert.Contains(t, renderer.calls[0].URL, "q="+DefaultQuery)
}

func TestServiceSearchAll(t *testing.T) {
	ctx := context.Background()
	renderer := &fakeRenderer{
		pages: map[string]string{tokopediaBaseURL: tokopediaPage, blibliBaseURL: blibliPage},
		fail:  map[string]bool{},
	}
	svc := NewService(logger.NewDiscard(), renderer, nil)

	all, err := svc.SearchAll(ctx, "hp", 10)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	renderer.fail[blibliBaseURL] = true
	all, err = svc.SearchAll(ctx, "hp", 10)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	renderer.fail[tokopediaBaseURL] = true
	_, err = svc.SearchAll(ctx, "hp", 10)
	assert.Error(t, err)
}

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, NormalizeLimit(0))
	assert.Equal(t, MaxLimit, NormalizeLimit(500))
	assert.Equal(t, 7, NormalizeLimit(7))
}
