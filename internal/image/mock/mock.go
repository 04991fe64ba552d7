package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/photo-strip/internal/image"
)

// Processor implements a mock image processor
type Processor struct {
}

// Render returns an error instead of rendering a strip
func (p *Processor) Render(ctx context.Context, task *image.Task) (*image.Rendered, error) {
	return nil, fmt.Errorf("processing error")
}

// Filter returns an error instead of filtering a photo
func (p *Processor) Filter(ctx context.Context, task *image.FilterTask) ([]byte, error) {
	return nil, fmt.Errorf("processing error")
}

// Shutdown does nothing
func (p *Processor) Shutdown() {}
