package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/DMarby/photo-strip/internal/cache"
	"github.com/DMarby/photo-strip/internal/tracing"
	"github.com/mediocregopher/radix/v4"
)

// Provider implements a redis cache, keys are namespaced and expire after the ttl
type Provider struct {
	client radix.Client
	tracer *tracing.Tracer
	prefix string
	ttl    time.Duration
}

// New returns a new Provider instance, a ttl of 0 keeps entries until evicted by redis
func New(ctx context.Context, tracer *tracing.Tracer, address string, poolSize int, prefix string, ttl time.Duration) (*Provider, error) {
	cfg := radix.PoolConfig{
		Size: poolSize,
	}

	client, err := cfg.New(ctx, "tcp", address)
	if err != nil {
		return nil, err
	}

	return &Provider{
		client: client,
		tracer: tracer,
		prefix: prefix,
		ttl:    ttl,
	}, nil
}

// Get returns an object from the cache if it exists
func (p *Provider) Get(ctx context.Context, key string) (data []byte, err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Get")
	defer span.End()

	mn := radix.Maybe{Rcv: &data}
	err = p.client.Do(ctx, radix.Cmd(&mn, "GET", p.prefix+key))
	if err != nil {
		return nil, err
	}

	if mn.Null {
		return nil, cache.ErrNotFound
	}

	return
}

// Set adds an object to the cache
func (p *Provider) Set(ctx context.Context, key string, data []byte) (err error) {
	ctx, span := p.tracer.Start(ctx, "redis.Set")
	defer span.End()

	if p.ttl > 0 {
		return p.client.Do(ctx, radix.FlatCmd(nil, "SET", p.prefix+key, data, "EX", strconv.Itoa(int(p.ttl.Seconds()))))
	}

	return p.client.Do(ctx, radix.FlatCmd(nil, "SET", p.prefix+key, data))
}

// Shutdown shuts down the cache
func (p *Provider) Shutdown() {
	p.client.Close()
}
