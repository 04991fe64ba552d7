package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/DMarby/photo-strip/internal/storage"
)

// Provider implements an in-memory storage.
// Keys starting with "error" fail on Get and Put.
type Provider struct {
	Objects map[string][]byte
	mutex   sync.Mutex
}

// New returns a Provider holding the given objects
func New(objects map[string][]byte) *Provider {
	if objects == nil {
		objects = make(map[string][]byte)
	}
	return &Provider{Objects: objects}
}

// Get returns the data stored under key
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	if strings.HasPrefix(key, "error") {
		return nil, fmt.Errorf("error")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	data, ok := p.Objects[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

// Put stores data under key
func (p *Provider) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if strings.HasPrefix(key, "error") {
		return fmt.Errorf("error")
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.Objects == nil {
		p.Objects = make(map[string][]byte)
	}
	p.Objects[key] = data
	return nil
}
