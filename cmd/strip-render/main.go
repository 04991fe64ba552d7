package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/DMarby/photo-strip/internal/cache/memory"
	"github.com/DMarby/photo-strip/internal/decoration"
	"github.com/DMarby/photo-strip/internal/filter"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/image/compositor"
	"github.com/DMarby/photo-strip/internal/logger"
	fileStorage "github.com/DMarby/photo-strip/internal/storage/file"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/DMarby/photo-strip/internal/tracing"

	"github.com/jamiealquiza/envy"
	"go.uber.org/zap"
)

// Comandline flags
var (
	loglevel = zap.LevelFlag("log-level", zap.WarnLevel, "log level (default \"warn\") (debug, info, warn, error, dpanic, panic, fatal)")
	output   = flag.String("output", "photostrip.png", "file to write the strip to, the extension picks the format (.png, .jpg)")
	assets   = flag.String("assets", "./assets", "path to the sticker and design assets")
	timeout  = flag.Duration("timeout", time.Minute, "time allowed for rendering")

	// Filter
	filterDescriptor = flag.String("filter", "", "filter descriptor applied to every photo, e.g. \"sepia(50%) contrast(110%)\"")
	preset           = flag.String("preset", "", "filter preset applied to every photo, ignored when -filter is set")
	intensity        = flag.Float64("intensity", -1, "preset intensity between 0 and 100, the preset default when negative")
	mirror           = flag.Bool("mirror", false, "flip every photo horizontally")

	// Composition
	background   = flag.String("background", "white", "background color, css color name, #rgb, #rrggbb or film")
	decorationID = flag.String("decoration", "", "decoration drawn around every photo")
	stickers     = flag.String("stickers", "", "sticker set placed on the strip")
	text         = flag.String("text", "", "custom text")
	date         = flag.Bool("date", true, "show the date stamp")
	textPosition = flag.String("text-position", "bottom", "text band position (top, bottom)")
	bold         = flag.Bool("bold", true, "bold text")
	italic       = flag.Bool("italic", true, "italic text")
	font         = flag.String("font", strip.DefaultFont, "font family of the custom text")
	fontSize     = flag.Float64("font-size", 20, "font size of the custom text")
	radius       = flag.Float64("radius", 0, "corner radius of the photos")
	duplicate    = flag.Bool("duplicate", false, "render two strips side by side")
	design       = flag.String("design", "", "asset key of a tile repeated down the side borders")

	decodeFailurePolicy = flag.String("decode-failure-policy", "abort", "what to do with a photo that fails to decode (skip, abort)")
)

func main() {
	// Parse environment variables
	envy.Parse("STRIP_RENDER")

	// Parse commandline flags
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] photo...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	// Initialize the logger
	log := logger.New(*loglevel)
	defer log.Sync()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(log, flag.Args()); err != nil {
		log.Fatalf("error rendering strip: %s", err)
	}
}

func run(log *logger.Logger, paths []string) error {
	photos := make([][]byte, len(paths))
	for i, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		photos[i] = data
	}

	task, err := newTask(photos, filepath.Ext(*output))
	if err != nil {
		return err
	}

	policy, err := strip.ParseFailurePolicy(*decodeFailurePolicy)
	if err != nil {
		return err
	}

	storage, err := fileStorage.New(*assets)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	tracer := tracing.NewNoop(log, "strip-render")
	processor := compositor.New(ctx, log, tracer, image.NewAssets(image.NewCache(tracer, memory.New(0), storage)), compositor.Config{
		Workers:       1,
		FailurePolicy: policy,
	})
	defer processor.Shutdown()

	rendered, err := processor.Render(ctx, task)
	if err != nil {
		return err
	}

	for _, index := range rendered.Failed {
		log.Warnw("photo left blank", "photo", paths[index])
	}

	log.Infow("rendered strip",
		"output", *output,
		"width", rendered.Width,
		"height", rendered.Height,
		"key", rendered.Key,
	)

	return os.WriteFile(*output, rendered.Data, 0644)
}

// newTask builds a render task from the flags
func newTask(photos [][]byte, extension string) (*image.Task, error) {
	format, err := image.ParseOutputFormat(extension)
	if err != nil {
		return nil, err
	}

	opts, err := options()
	if err != nil {
		return nil, err
	}

	spec, err := photoFilter()
	if err != nil {
		return nil, err
	}

	task := image.NewTask("", opts, format)
	for _, photo := range photos {
		task.AddPhoto(photo, spec)
	}

	if *mirror {
		task.Mirror()
	}

	return task, nil
}

func photoFilter() (filter.Spec, error) {
	if *filterDescriptor != "" {
		return filter.Parse(*filterDescriptor), nil
	}

	if *preset == "" {
		return filter.Identity(), nil
	}

	p, err := filter.ParsePreset(*preset)
	if err != nil {
		return filter.Spec{}, err
	}

	if *intensity < 0 {
		return p.Spec(), nil
	}

	if *intensity > 100 {
		return filter.Spec{}, fmt.Errorf("intensity must be between 0 and 100")
	}

	return p.AtIntensity(*intensity), nil
}

func options() (strip.Options, error) {
	opts := strip.DefaultOptions()
	var err error

	if opts.Background, err = strip.ParseBackground(*background); err != nil {
		return opts, err
	}

	if opts.Decoration, err = decoration.ParseID(*decorationID); err != nil {
		return opts, err
	}

	if opts.Stickers, err = sticker.ParseSetID(*stickers); err != nil {
		return opts, err
	}

	if opts.TextPosition, err = strip.ParseTextPosition(*textPosition); err != nil {
		return opts, err
	}

	if err := strip.ValidateText(*text); err != nil {
		return opts, err
	}

	if err := strip.ValidateFont(*font, *fontSize); err != nil {
		return opts, err
	}

	if *radius < 0 {
		return opts, fmt.Errorf("radius must not be negative")
	}

	opts.Text = *text
	opts.ShowDate = *date
	opts.Bold = *bold
	opts.Italic = *italic
	opts.Font = *font
	opts.FontSize = *fontSize
	opts.CornerRadius = *radius
	opts.Duplicate = *duplicate
	opts.Design = *design

	return opts, nil
}
