package image

import (
	"context"
)

// Processor renders strips and filters photos
type Processor interface {
	Render(ctx context.Context, task *Task) (*Rendered, error)
	Filter(ctx context.Context, task *FilterTask) ([]byte, error)
	Shutdown()
}

// Rendered is an encoded strip
type Rendered struct {
	Data   []byte
	Key    string
	Width  int
	Height int
	// Failed lists the photos that were left blank
	Failed []int
}
