package strip

import (
	"context"

	"github.com/DMarby/photo-strip/internal/filter"
	"github.com/DMarby/photo-strip/internal/raster"
)

// Source produces one decoded photo, decoding may block
type Source interface {
	Decode(ctx context.Context) (*raster.Raster, error)
}

// SourceFunc adapts a function to a Source
type SourceFunc func(ctx context.Context) (*raster.Raster, error)

// Decode calls f
func (f SourceFunc) Decode(ctx context.Context) (*raster.Raster, error) {
	return f(ctx)
}

// Encoded is a photo still in its encoded form
type Encoded []byte

// Decode decodes the payload
func (e Encoded) Decode(ctx context.Context) (*raster.Raster, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return raster.Decode(e)
}

// Decoded wraps an already decoded photo, the raster is never modified
func Decoded(r *raster.Raster) Source {
	return SourceFunc(func(ctx context.Context) (*raster.Raster, error) {
		return r, nil
	})
}

// Filtered applies a colour filter to a copy of the decoded photo
func Filtered(src Source, spec filter.Spec) Source {
	if spec.IsIdentity() {
		return src
	}

	return SourceFunc(func(ctx context.Context) (*raster.Raster, error) {
		r, err := src.Decode(ctx)
		if err != nil {
			return nil, err
		}
		return filter.Apply(r.Clone(), spec), nil
	})
}

// Mirrored flips a copy of the decoded photo horizontally
func Mirrored(src Source) Source {
	return SourceFunc(func(ctx context.Context) (*raster.Raster, error) {
		r, err := src.Decode(ctx)
		if err != nil {
			return nil, err
		}
		return r.Clone().Mirror(), nil
	})
}
