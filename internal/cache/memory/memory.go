package memory

import (
	"context"
	"math"
	"sync"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// Provider implements an in-memory cache that evicts the least recently used
// entries once the stored bytes exceed the limit
type Provider struct {
	limit int
	size  int
	cache *simplelru.LRU[string, []byte]
	mutex sync.Mutex
}

// New returns a new Provider instance, a limit of 0 disables eviction
func New(limit int) *Provider {
	p := &Provider{limit: limit}

	// Entries are bounded by size, not count
	p.cache, _ = simplelru.NewLRU[string, []byte](math.MaxInt, func(key string, data []byte) {
		p.size -= len(data)
	})

	return p
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	data, exists := p.cache.Get(key)
	if !exists {
		return nil, cache.ErrNotFound
	}

	return data, nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if previous, exists := p.cache.Peek(key); exists {
		p.size -= len(previous)
	}

	p.cache.Add(key, data)
	p.size += len(data)

	for p.limit > 0 && p.size > p.limit && p.cache.Len() > 1 {
		p.cache.RemoveOldest()
	}

	return nil
}

// Len returns the amount of cached objects
func (p *Provider) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.cache.Len()
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {}
