package compositor

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/queue"
	"github.com/DMarby/photo-strip/internal/raster"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/DMarby/photo-strip/internal/tracing"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	queueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "strip_processor_queue_size",
		Help: "Number of tasks waiting for or running on a worker.",
	})
	renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "strip_processor_renders_total",
		Help: "Strip renders by result.",
	}, []string{"result"})
	renderDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "strip_processor_render_duration_seconds",
		Help:    "Time spent rendering and encoding a strip.",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	}, []string{"photos"})
	decodeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "strip_processor_photo_decode_failures_total",
		Help: "Photos that could not be decoded.",
	})
)

// Config configures the processor
type Config struct {
	Workers int
	// SessionLimit is the number of session compositors kept, the least recently used is dropped
	SessionLimit      int
	DecodeConcurrency int
	FailurePolicy     strip.FailurePolicy
	// Now overrides the clock used for date stamps
	Now func() time.Time
}

// Processor renders strips on a worker queue.
// Renders sharing a session use one compositor, so a newer render supersedes an older one.
type Processor struct {
	queue    *queue.Queue
	log      *logger.Logger
	tracer   *tracing.Tracer
	assets   sticker.AssetLoader
	stickers *sticker.Placer
	config   Config

	mu       sync.Mutex
	sessions *lru.Cache[string, *strip.Compositor]
}

// New initializes a new processor instance and starts its workers
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, assets sticker.AssetLoader, config Config) *Processor {
	p := &Processor{
		log:      log,
		tracer:   tracer,
		assets:   assets,
		stickers: &sticker.Placer{Assets: assets, Log: log},
		config:   config,
	}

	limit := config.SessionLimit
	if limit <= 0 {
		limit = math.MaxInt
	}
	p.sessions, _ = lru.New[string, *strip.Compositor](limit)

	p.queue = queue.New(ctx, config.Workers, p.process)
	go p.queue.Run()
	log.Infof("starting strip worker queue with %d workers", config.Workers)

	return p
}

// Render queues a strip render and waits for the encoded result
func (p *Processor) Render(ctx context.Context, task *image.Task) (*image.Rendered, error) {
	result, err := p.enqueue(ctx, task)
	if err != nil {
		return nil, err
	}

	rendered, ok := result.(*image.Rendered)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return rendered, nil
}

// Filter queues a single photo filter and waits for the encoded result
func (p *Processor) Filter(ctx context.Context, task *image.FilterTask) ([]byte, error) {
	result, err := p.enqueue(ctx, task)
	if err != nil {
		return nil, err
	}

	data, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("error getting result")
	}

	return data, nil
}

func (p *Processor) enqueue(ctx context.Context, data interface{}) (interface{}, error) {
	queueSize.Inc()
	defer queueSize.Dec()

	return p.queue.Process(ctx, data)
}

func (p *Processor) process(ctx context.Context, data interface{}) (interface{}, error) {
	switch task := data.(type) {
	case *image.Task:
		return p.render(ctx, task)
	case *image.FilterTask:
		return p.filter(ctx, task)
	}
	return nil, fmt.Errorf("invalid data")
}

func (p *Processor) render(ctx context.Context, task *image.Task) (*image.Rendered, error) {
	ctx, span := p.tracer.Start(ctx, "compositor.Processor.render", trace.WithAttributes(
		attribute.String("session", task.Session),
		attribute.Int("photos", len(task.Photos)),
	))
	defer span.End()

	start := time.Now()
	defer func() {
		renderDuration.WithLabelValues(fmt.Sprint(len(task.Photos))).Observe(time.Since(start).Seconds())
	}()

	sources := make([]strip.Source, len(task.Photos))
	for i, photo := range task.Photos {
		sources[i] = source(photo)
	}

	result, err := p.compositor(task.Session).Render(ctx, sources, task.Options)
	if err != nil {
		renders.WithLabelValues(resultLabel(err)).Inc()

		var decodeErr *strip.DecodeError
		if errors.As(err, &decodeErr) {
			decodeFailures.Inc()
		}
		return nil, err
	}

	if len(result.Failed) > 0 {
		decodeFailures.Add(float64(len(result.Failed)))
	}

	buf, err := encode(result.Raster, task.OutputFormat)
	if err != nil {
		renders.WithLabelValues("error").Inc()
		return nil, err
	}

	renders.WithLabelValues("ok").Inc()

	return &image.Rendered{
		Data:   buf,
		Key:    task.Key(),
		Width:  result.Raster.Width,
		Height: result.Raster.Height,
		Failed: result.Failed,
	}, nil
}

func (p *Processor) filter(ctx context.Context, task *image.FilterTask) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "compositor.Processor.filter", trace.WithAttributes(
		attribute.String("filter", task.Photo.Filter.String()),
	))
	defer span.End()

	r, err := source(task.Photo).Decode(ctx)
	if err != nil {
		decodeFailures.Inc()
		return nil, &strip.DecodeError{Index: 0, Err: err}
	}

	return encode(r, task.OutputFormat)
}

// compositor returns the compositor of a session, renders without a session get their own
func (p *Processor) compositor(id string) *strip.Compositor {
	if id == "" {
		return p.newCompositor()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.sessions.Get(id); ok {
		return c
	}

	c := p.newCompositor()
	p.sessions.Add(id, c)
	return c
}

func (p *Processor) newCompositor() *strip.Compositor {
	return &strip.Compositor{
		Stickers:          p.stickers,
		Assets:            p.assets,
		Log:               p.log,
		Tracer:            p.tracer,
		Now:               p.config.Now,
		FailurePolicy:     p.config.FailurePolicy,
		DecodeConcurrency: p.config.DecodeConcurrency,
	}
}

// Sessions returns the number of live session compositors
func (p *Processor) Sessions() int {
	return p.sessions.Len()
}

// Shutdown drops every session compositor, the workers stop when the context passed to New is done
func (p *Processor) Shutdown() {
	p.sessions.Purge()
}

// source decodes, mirrors then filters a photo, the way it was captured and previewed
func source(photo image.Photo) strip.Source {
	var src strip.Source = strip.Encoded(photo.Data)
	if photo.Mirror {
		src = strip.Mirrored(src)
	}
	return strip.Filtered(src, photo.Filter)
}

func encode(r *raster.Raster, format image.OutputFormat) ([]byte, error) {
	switch format {
	case image.JPEG:
		return r.EncodeJPEG(image.JPEGQuality)
	default:
		return r.EncodePNG()
	}
}

func resultLabel(err error) string {
	var decodeErr *strip.DecodeError
	switch {
	case errors.Is(err, strip.ErrSuperseded):
		return "superseded"
	case errors.As(err, &decodeErr):
		return "decode_error"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
