package sheets

import "sync"

// RegionKey identifies a block region: one tab of one spreadsheet.
type RegionKey struct {
	SpreadsheetID string
	TabTitle      string
}

// RegionCache remembers located regions so a tab is scanned once per process.
// Cached pointers are shared: callers that update EndRow must Put the region back.
type RegionCache struct {
	regions map[RegionKey]*Region
	locks   map[RegionKey]*sync.Mutex
	mu      sync.Mutex
}

// NewRegionCache creates an empty cache.
func NewRegionCache() *RegionCache {
	return &RegionCache{
		regions: make(map[RegionKey]*Region),
		locks:   make(map[RegionKey]*sync.Mutex),
	}
}

// Get returns the cached region for key.
func (c *RegionCache) Get(key RegionKey) (*Region, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.regions[key]
	return r, ok
}

// Put stores region under key.
func (c *RegionCache) Put(key RegionKey, region *Region) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.regions[key] = region
}

// Delete drops the cached region for key.
func (c *RegionCache) Delete(key RegionKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.regions, key)
}

// Len returns the number of cached regions.
func (c *RegionCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.regions)
}

// Lock acquires the per-region lock for key and returns its release function.
// Holding it across locate, plan and write keeps two writers off the same row.
func (c *RegionCache) Lock(key RegionKey) (unlock func()) {
	c.mu.Lock()
	m, ok := c.locks[key]
	if !ok {
		m = &sync.Mutex{}
		c.locks[key] = m
	}
	c.mu.Unlock()

	m.Lock()
	return m.Unlock
}
