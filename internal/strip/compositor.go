// Package strip composes decoded photos, decorations, stickers and text into
// a photo strip.
package strip

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/raster"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/tracing"
	"github.com/gogpu/gg"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded is returned by a render when a newer render was started on the same compositor
var ErrSuperseded = errors.New("render superseded by a newer render")

// FailurePolicy decides what happens when a photo fails to decode
type FailurePolicy int

const (
	// SkipFailed leaves the cell blank and still counts the photo as drawn
	SkipFailed FailurePolicy = iota
	// AbortOnFailure stops the render and returns a DecodeError
	AbortOnFailure
)

// ParseFailurePolicy reads "skip" or "abort"
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch s {
	case "skip":
		return SkipFailed, nil
	case "abort":
		return AbortOnFailure, nil
	}
	return SkipFailed, fmt.Errorf("invalid decode failure policy %q", s)
}

// DecodeError is returned when a photo fails to decode under AbortOnFailure
type DecodeError struct {
	Index int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("error decoding photo %d: %s", e.Index, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Hooks observe the progress of a render, they run on the drawing goroutine
type Hooks struct {
	// PhotoDrawn runs once photo index and its decoration are painted, drawn is the barrier count
	PhotoDrawn func(index, drawn int)
	// OverlayDrawn runs after the text, date and sticker pass
	OverlayDrawn func(drawn int)
}

// Result is a finished strip
type Result struct {
	Raster *raster.Raster
	Layout Layout
	// Failed lists the photos that could not be decoded and were left blank
	Failed []int
}

// Compositor renders strips. Every call to Render starts a new generation,
// renders from older generations are discarded.
type Compositor struct {
	Stickers          *sticker.Placer
	Assets            sticker.AssetLoader
	Log               *logger.Logger
	Tracer            *tracing.Tracer
	Now               func() time.Time
	FailurePolicy     FailurePolicy
	DecodeConcurrency int
	Hooks             Hooks

	generation atomic.Uint64
}

type decoded struct {
	index  int
	raster *raster.Raster
	err    error
}

// Render decodes the sources concurrently and composes them onto a new canvas.
// Photos are drawn by a single goroutine as their decodes complete, in any order.
// The text, date and sticker pass runs once all photos are counted as drawn.
func (c *Compositor) Render(ctx context.Context, sources []Source, opts Options) (*Result, error) {
	ctx, span := c.Tracer.Start(ctx, "strip.Compositor.Render", trace.WithAttributes(
		attribute.Int("photos", len(sources)),
		attribute.Bool("duplicate", opts.Duplicate),
	))
	defer span.End()

	layout, err := NewLayout(opts.Dimensions, len(sources), opts.Duplicate, opts.TextPosition)
	if err != nil {
		return nil, err
	}

	if err := ValidateText(opts.Text); err != nil {
		return nil, err
	}

	// Rejected renders never supersede the one in flight
	generation := c.generation.Add(1)

	dc := gg.NewContext(layout.Width, layout.Height)
	defer dc.Close()

	c.drawBackground(dc, layout, opts.Background)
	if opts.Design != "" {
		c.drawDesign(ctx, dc, layout, opts.Design)
	}

	ctx, cancel := context.WithCancel(ctx)
	results := make(chan decoded)

	var slots chan struct{}
	if c.DecodeConcurrency > 0 {
		slots = make(chan struct{}, c.DecodeConcurrency)
	}

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			if slots != nil {
				select {
				case slots <- struct{}{}:
					defer func() { <-slots }()
				case <-ctx.Done():
					return nil
				}
			}

			r, err := c.decode(ctx, i, src)
			select {
			case results <- decoded{index: i, raster: r, err: err}:
			case <-ctx.Done():
			}
			return nil
		})
	}

	defer func() {
		cancel()
		g.Wait()
	}()

	var failed []int
	drawn := 0
	for drawn < layout.Photos {
		var result decoded
		select {
		case result = <-results:
		case <-ctx.Done():
			return nil, ctx.Err()
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if c.generation.Load() != generation {
			return nil, ErrSuperseded
		}

		if result.err != nil {
			if c.FailurePolicy == AbortOnFailure {
				return nil, &DecodeError{Index: result.index, Err: result.err}
			}

			c.Log.Warnw("leaving cell blank, photo failed to decode",
				"photo", result.index,
				"error", result.err,
			)
			failed = append(failed, result.index)
		} else {
			c.drawPhoto(dc, layout, result.index, result.raster, opts)
		}

		drawn++
		if c.Hooks.PhotoDrawn != nil {
			c.Hooks.PhotoDrawn(result.index, drawn)
		}
	}

	if c.generation.Load() != generation {
		return nil, ErrSuperseded
	}

	if err := c.drawOverlay(ctx, dc, layout, opts); err != nil {
		return nil, err
	}

	if c.Hooks.OverlayDrawn != nil {
		c.Hooks.OverlayDrawn(drawn)
	}

	if c.generation.Load() != generation {
		return nil, ErrSuperseded
	}

	return &Result{
		Raster: raster.FromImage(dc.Image()),
		Layout: layout,
		Failed: failed,
	}, nil
}

func (c *Compositor) decode(ctx context.Context, index int, src Source) (*raster.Raster, error) {
	ctx, span := c.Tracer.Start(ctx, "strip.Compositor.decode", trace.WithAttributes(attribute.Int("photo", index)))
	defer span.End()

	r, err := src.Decode(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	return r, nil
}

func (c *Compositor) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}
