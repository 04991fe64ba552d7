package file

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/DMarby/photo-strip/internal/database"
)

// Provider implements a counter persisted as a JSON file
type Provider struct {
	path    string
	counter *database.Counter
	mu      sync.Mutex
}

// New returns a new Provider instance, the file is created on the first Record
func New(path string) (*Provider, error) {
	p := &Provider{path: path}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return p, nil
		}
		return nil, err
	}

	var counter database.Counter
	if err := json.Unmarshal(data, &counter); err != nil {
		return nil, err
	}
	p.counter = &counter

	return p, nil
}

// Get returns the current totals
func (p *Provider) Get(ctx context.Context) (*database.Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.counter == nil {
		return nil, database.ErrNotFound
	}

	c := *p.counter
	return &c, nil
}

// Record counts a hit and persists the new totals
func (p *Provider) Record(ctx context.Context, t database.VisitType) (*database.Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next := database.Counter{}
	if p.counter != nil {
		next = *p.counter
	}
	next.Apply(t)

	if err := p.write(next); err != nil {
		return nil, err
	}
	p.counter = &next

	c := next
	return &c, nil
}

func (p *Provider) write(c database.Counter) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(p.path), "."+filepath.Base(p.path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}

	return os.Rename(tmp, p.path)
}

// Wait blocks until the counter is ready
func (p *Provider) Wait(ctx context.Context) error {
	return nil
}

// Shutdown shuts down the counter
func (p *Provider) Shutdown() {}
