package interp

import (
	"sync"

	"github.com/golang/groupcache/lru"

	"slumber/vm"
)

// BlockCache keeps compiled blocks keyed by source text. Blocks are never
// modified after compilation, so one block may back any number of scripts.
type BlockCache struct {
	mu     sync.Mutex
	cache  *lru.Cache
	hits   int
	misses int
}

// NewBlockCache returns a cache holding at most size blocks
func NewBlockCache(size int) *BlockCache {
	return &BlockCache{cache: lru.New(size)}
}

// Get returns the block compiled from src, if cached
func (c *BlockCache) Get(src string) (*vm.Block, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.cache.Get(src)
	if !ok {
		c.misses++
		return nil, false
	}
	c.hits++
	return v.(*vm.Block), true
}

// Add stores the block compiled from src
func (c *BlockCache) Add(src string, b *vm.Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Add(src, b)
}

// Len reports the number of cached blocks
func (c *BlockCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cache.Len()
}

// Stats reports lookups that hit and missed
func (c *BlockCache) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear drops every cached block
func (c *BlockCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache.Clear()
}
