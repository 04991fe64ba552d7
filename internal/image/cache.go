package image

import (
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/raster"
	"github.com/DMarby/photo-strip/internal/storage"
	"github.com/DMarby/photo-strip/internal/tracing"
)

// Cache is an asset cache
type Cache = cache.Auto

// NewCache instantiates a new cache
func NewCache(tracer *tracing.Tracer, cacheProvider cache.Provider, storageProvider storage.Provider) *Cache {
	return &Cache{
		Tracer:   tracer,
		Provider: cacheProvider,
		Loader: func(ctx context.Context, key string) (data []byte, err error) {
			ctx, span := tracer.Start(ctx, "image.Cache.Loader")
			defer span.End()

			return storageProvider.Get(ctx, key)
		},
	}
}

// Assets loads sticker and strip design bitmaps through the cache, keeping decoded bitmaps in memory
type Assets struct {
	cache   *Cache
	decoded sync.Map
}

// NewAssets returns an asset loader reading from cache
func NewAssets(cache *Cache) *Assets {
	return &Assets{cache: cache}
}

// LoadImage returns the decoded asset stored under key
func (a *Assets) LoadImage(ctx context.Context, key string) (image.Image, error) {
	if img, ok := a.decoded.Load(key); ok {
		return img.(image.Image), nil
	}

	data, err := a.cache.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("error getting asset %s: %w", key, err)
	}

	r, err := raster.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("error decoding asset %s: %w", key, err)
	}

	img := r.NRGBA()
	a.decoded.Store(key, img)
	return img, nil
}
