package geocoding

import (
	"sync"

	"github.com/servicespot/servicespot/internal/geo"
)

// PincodeCache memoizes pincode-to-location resolutions for the lifetime of
// the process. Entries are never evicted individually; the only way to drop
// data is the administrative Clear. Construct one explicitly and inject it
// so tests get a fresh instance instead of shared global state.
type PincodeCache struct {
	mu      sync.RWMutex
	entries map[int]geo.Location
}

// NewPincodeCache creates an empty cache.
func NewPincodeCache() *PincodeCache {
	return &PincodeCache{
		entries: make(map[int]geo.Location),
	}
}

// Get returns the cached location for a pincode, if present.
func (c *PincodeCache) Get(pincode int) (geo.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	loc, ok := c.entries[pincode]
	return loc, ok
}

// Put stores a resolved location, overwriting unconditionally. Concurrent
// writers for the same pincode are benign: results for one pincode are
// expected to be identical, so last writer wins.
func (c *PincodeCache) Put(pincode int, loc geo.Location) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[pincode] = loc
}

// Clear drops all entries.
func (c *PincodeCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[int]geo.Location)
}

// Size returns the number of cached pincodes, for admin reporting.
func (c *PincodeCache) Size() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
