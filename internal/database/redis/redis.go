package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/DMarby/photo-strip/internal/database"
	"github.com/DMarby/photo-strip/internal/tracing"
	"github.com/mediocregopher/radix/v4"
)

// recordScript increments both fields atomically and returns the new totals
var recordScript = radix.NewEvalScript(`
local pageviews = redis.call("HINCRBY", KEYS[1], "pageviews", 1)
local visits = redis.call("HINCRBY", KEYS[1], "visits", ARGV[1])
return {pageviews, visits}
`)

// Provider implements a counter stored in a redis hash
type Provider struct {
	client radix.Client
	tracer *tracing.Tracer
	key    string
}

// New returns a new Provider instance storing the totals under key
func New(ctx context.Context, tracer *tracing.Tracer, address string, poolSize int, key string) (*Provider, error) {
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
		key:    key,
	}, nil
}

// Get returns the current totals
func (p *Provider) Get(ctx context.Context) (*database.Counter, error) {
	ctx, span := p.tracer.Start(ctx, "redis.HGETALL")
	defer span.End()

	var fields map[string]int64
	if err := p.client.Do(ctx, radix.Cmd(&fields, "HGETALL", p.key)); err != nil {
		return nil, err
	}

	if len(fields) == 0 {
		return nil, database.ErrNotFound
	}

	return &database.Counter{
		Pageviews: fields["pageviews"],
		Visits:    fields["visits"],
	}, nil
}

// Record counts a hit
func (p *Provider) Record(ctx context.Context, t database.VisitType) (*database.Counter, error) {
	ctx, span := p.tracer.Start(ctx, "redis.Record")
	defer span.End()

	visits := "0"
	if t == database.VisitPageview {
		visits = "1"
	}

	var totals []int64
	if err := p.client.Do(ctx, recordScript.Cmd(&totals, []string{p.key}, visits)); err != nil {
		return nil, err
	}

	if len(totals) != 2 {
		return nil, fmt.Errorf("unexpected reply from counter script: %v", totals)
	}

	return &database.Counter{
		Pageviews: totals[0],
		Visits:    totals[1],
	}, nil
}

// Wait blocks until redis answers a PING, or the context is done
func (p *Provider) Wait(ctx context.Context) error {
	for {
		err := p.client.Do(ctx, radix.Cmd(nil, "PING"))
		if err == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Second):
		}
	}
}

// Shutdown shuts down the redis client
func (p *Provider) Shutdown() {
	p.client.Close()
}
