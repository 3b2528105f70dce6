package builtins

import (
	"regexp"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultPatternCacheSize bounds the compiled regexps kept per registry
const DefaultPatternCacheSize = 128

// PatternCache keeps compiled regular expressions keyed by source text.
// It is shared by every script of a registry.
type PatternCache struct {
	mu    sync.Mutex
	cache *lru.Cache
}

// NewPatternCache returns a cache holding at most size patterns. A size of
// zero or less means no limit.
func NewPatternCache(size int) *PatternCache {
	if size < 0 {
		size = 0
	}
	return &PatternCache{cache: lru.New(size)}
}

// Compile returns the compiled form of pattern, compiling it on a miss
func (p *PatternCache) Compile(pattern string) (*regexp.Regexp, error) {
	p.mu.Lock()
	if v, ok := p.cache.Get(pattern); ok {
		p.mu.Unlock()
		return v.(*regexp.Regexp), nil
	}
	p.mu.Unlock()

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache.Add(pattern, re)
	p.mu.Unlock()
	return re, nil
}

// Len reports how many patterns are cached
func (p *PatternCache) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cache.Len()
}
