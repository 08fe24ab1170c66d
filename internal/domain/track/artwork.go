package track

import (
	"context"
	"sync"
)

// ArtworkFetcher resolves a track's artwork reference into image bytes.
// Implementations live outside the engine; the context is cancelled when
// the track stops being current before the fetch completes.
type ArtworkFetcher interface {
	Fetch(ctx context.Context, t Track) ([]byte, error)
}

// ArtworkCache is a side table of fetched artwork keyed by track id.
// Tracks themselves stay immutable; artwork resolved after the fact is
// stored here and invalidated when the track leaves the queue.
type ArtworkCache struct {
	mu  sync.RWMutex
	art map[string][]byte
}

// NewArtworkCache creates an empty artwork cache.
func NewArtworkCache() *ArtworkCache {
	return &ArtworkCache{
		art: make(map[string][]byte),
	}
}

// Get returns the cached artwork for a track id.
func (c *ArtworkCache) Get(id string) ([]byte, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, ok := c.art[id]
	return data, ok
}

// Put stores fetched artwork for a track id.
func (c *ArtworkCache) Put(id string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.art[id] = data
}

// Invalidate drops cached artwork for the given track ids.
func (c *ArtworkCache) Invalidate(ids ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, id := range ids {
		delete(c.art, id)
	}
}

// Clear drops all cached artwork.
func (c *ArtworkCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.art = make(map[string][]byte)
}

// Len returns the number of cached entries.
func (c *ArtworkCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.art)
}
