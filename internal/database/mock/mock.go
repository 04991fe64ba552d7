package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/photo-strip/internal/database"
)

// Provider implements a counter that always fails
type Provider struct {
}

// Get returns an error
func (p *Provider) Get(ctx context.Context) (*database.Counter, error) {
	return nil, fmt.Errorf("get error")
}

// Record returns an error
func (p *Provider) Record(ctx context.Context, t database.VisitType) (*database.Counter, error) {
	return nil, fmt.Errorf("record error")
}

// Wait returns immediately
func (p *Provider) Wait(ctx context.Context) error {
	return nil
}

// Shutdown does nothing
func (p *Provider) Shutdown() {}
