package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DMarby/photo-strip/internal/cache"
)

// Provider is an in-memory mock cache.
// Gets of keys starting with "error" fail, sets of keys starting with "seterror" fail.
type Provider struct {
	Objects map[string][]byte
	// Sets records every successfully set key, in order
	Sets  []string
	mutex sync.Mutex
}

// New returns a Provider holding the given objects
func New(objects map[string][]byte) *Provider {
	if objects == nil {
		objects = make(map[string][]byte)
	}
	return &Provider{Objects: objects}
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, "error") {
		return nil, fmt.Errorf("error")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	data, ok := p.Objects[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return data, nil
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) error {
	if strings.HasPrefix(key, "seterror") {
		return fmt.Errorf("seterror")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.Objects == nil {
		p.Objects = make(map[string][]byte)
	}
	p.Objects[key] = data
	p.Sets = append(p.Sets, key)
	return nil
}

// Shutdown does nothing
func (p *Provider) Shutdown() {}
