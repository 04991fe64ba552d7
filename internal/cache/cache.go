package cache

import (
	"context"
	"errors"

	"github.com/DMarby/photo-strip/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"
)

// Provider is an interface for getting and setting cached objects
type Provider interface {
	Get(ctx context.Context, key string) (data []byte, err error)
	Set(ctx context.Context, key string, data []byte) (err error)
	Shutdown()
}

// LoaderFunc is a function for loading data into a cache
type LoaderFunc func(ctx context.Context, key string) (data []byte, err error)

// Auto is a read-through cache, concurrent misses for the same key share one load
type Auto struct {
	Tracer      *tracing.Tracer
	Provider    Provider
	Loader      LoaderFunc
	lookupGroup singleflight.Group
}

// Get returns an object from the cache if it exists, otherwise it loads it into the cache and returns it
func (a *Auto) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, span := a.Tracer.Start(ctx, "cache.Auto.Get", trace.WithAttributes(attribute.String("key", key)))
	defer span.End()

	data, err = a.Provider.Get(ctx, key)
	// Either a hit, or the cache itself is failing
	if err != ErrNotFound {
		return
	}

	span.SetAttributes(attribute.Bool("miss", true))

	var v interface{}
	v, err, _ = a.lookupGroup.Do(key, func() (interface{}, error) {
		data, err := a.Loader(ctx, key)
		if err != nil {
			return nil, err
		}

		err = a.Provider.Set(ctx, key, data)
		if err != nil {
			return nil, err
		}

		return data, nil
	})

	if err != nil {
		span.RecordError(err)
		return
	}

	data, _ = v.([]byte)
	return
}

// Errors
var (
	ErrNotFound = errors.New("not found in cache")
)
