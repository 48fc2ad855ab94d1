package sheets

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRegionCache(t *testing.T) {
	cache := NewRegionCache()
	key := RegionKey{SpreadsheetID: "s", TabTitle: "Январь 2025"}

	_, ok := cache.Get(key)
	assert.False(t, ok)

	region := &Region{StartRow: 7, EndRow: 6}
	cache.Put(key, region)

	got, ok := cache.Get(key)
	assert.True(t, ok)
	assert.Same(t, region, got)
	assert.Equal(t, 1, cache.Len())

	_, ok = cache.Get(RegionKey{SpreadsheetID: "other", TabTitle: "Январь 2025"})
	assert.False(t, ok)

	cache.Delete(key)
	assert.Equal(t, 0, cache.Len())
}

func TestRegionCache_LockSerializesSameKey(t *testing.T) {
	cache := NewRegionCache()
	key := RegionKey{SpreadsheetID: "s", TabTitle: "t"}

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := cache.Lock(key)
			defer unlock()

			mu.Lock()
			active++
			maxSeen = max(maxSeen, active)
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxSeen)
}

func TestRegionCache_LockIndependentKeys(t *testing.T) {
	cache := NewRegionCache()
	unlock := cache.Lock(RegionKey{SpreadsheetID: "s", TabTitle: "a"})
	defer unlock()

	done := make(chan struct{})
	go func() {
		cache.Lock(RegionKey{SpreadsheetID: "s", TabTitle: "b"})()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different key blocked")
	}
}
