package availability

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	mu      sync.Mutex
	calls   map[string]int
	valid   map[string]bool
	err     error
	errOnce bool
}

func newFakeValidator() *fakeValidator {
	return &fakeValidator{calls: map[string]int{}, valid: map[string]bool{}}
}

func (f *fakeValidator) ValidatePackageID(ctx context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if f.err != nil {
		err := f.err
		if f.errOnce {
			f.err = nil
		}
		return false, err
	}
	return f.valid[id], nil
}

func (f *fakeValidator) callCount(id string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

func newTestService(v Validator) (*Service, *time.Time) {
	svc := NewService(v)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	return svc, &now
}

func TestIsPackageValidCachesVerdict(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-1"] = true
	svc, _ := newTestService(upstream)

	assert.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.Equal(t, 1, upstream.callCount("pkg-1"))
}

func TestIsPackageValidCachesNegativeVerdict(t *testing.T) {
	upstream := newFakeValidator()
	svc, _ := newTestService(upstream)

	assert.False(t, svc.IsPackageValid(context.Background(), "pkg-gone"))
	assert.False(t, svc.IsPackageValid(context.Background(), "pkg-gone"))
	assert.Equal(t, 1, upstream.callCount("pkg-gone"))
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-1"] = true
	svc, now := newTestService(upstream)

	require.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))

	// One second before expiry the cache still answers.
	*now = now.Add(time.Hour - time.Second)
	require.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.Equal(t, 1, upstream.callCount("pkg-1"))

	// At expiry the upstream is consulted again.
	*now = now.Add(time.Second)
	require.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.Equal(t, 2, upstream.callCount("pkg-1"))
}

func TestUpstreamErrorFailsOpenAndIsNotCached(t *testing.T) {
	upstream := newFakeValidator()
	upstream.err = errors.New("timeout")
	upstream.errOnce = true
	upstream.valid["pkg-1"] = false
	svc, _ := newTestService(upstream)

	// Error: assume available, do not poison the cache.
	assert.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.Zero(t, svc.CacheStats().Size)

	// Next call reaches upstream and gets the real verdict.
	assert.False(t, svc.IsPackageValid(context.Background(), "pkg-1"))
	assert.Equal(t, 2, upstream.callCount("pkg-1"))
}

func TestBatchValidate(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-1"] = true
	upstream.valid["pkg-2"] = false
	upstream.valid["pkg-3"] = true
	svc, _ := newTestService(upstream)

	results := svc.BatchValidate(context.Background(), []string{"pkg-1", "pkg-2", "pkg-3", "pkg-1"})

	assert.Equal(t, map[string]bool{"pkg-1": true, "pkg-2": false, "pkg-3": true}, results)
	assert.Equal(t, 1, upstream.callCount("pkg-1"))
}

func TestClearCache(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-1"] = true
	svc, _ := newTestService(upstream)

	svc.IsPackageValid(context.Background(), "pkg-1")
	require.Equal(t, 1, svc.CacheStats().Size)

	svc.ClearCache()
	assert.Zero(t, svc.CacheStats().Size)

	svc.IsPackageValid(context.Background(), "pkg-1")
	assert.Equal(t, 2, upstream.callCount("pkg-1"))
}

func TestCacheStatsKeys(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-a"] = true
	svc, _ := newTestService(upstream)

	svc.IsPackageValid(context.Background(), "pkg-a")
	svc.IsPackageValid(context.Background(), "pkg-b")

	stats := svc.CacheStats()
	sort.Strings(stats.Keys)
	assert.Equal(t, 2, stats.Size)
	assert.Equal(t, []string{"pkg-a", "pkg-b"}, stats.Keys)
}

func TestConcurrentAccess(t *testing.T) {
	upstream := newFakeValidator()
	upstream.valid["pkg-1"] = true
	svc, _ := newTestService(upstream)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			svc.IsPackageValid(context.Background(), "pkg-1")
			svc.CacheStats()
		}()
	}
	wg.Wait()

	assert.True(t, svc.IsPackageValid(context.Background(), "pkg-1"))
}
