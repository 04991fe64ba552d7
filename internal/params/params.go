package params

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/DMarby/photo-strip/internal/decoration"
	"github.com/DMarby/photo-strip/internal/filter"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/strip"
)

// Errors
var (
	ErrNoPhotos       = errors.New("at least one photo is required")
	ErrTooManyPhotos  = errors.New("too many photos")
	ErrPhotoTooLarge  = errors.New("photo is too large")
	ErrInvalidDesign  = errors.New("invalid strip design")
	ErrInvalidSession = errors.New("invalid session")
)

// MaxPhotos is the largest strip accepted
const MaxPhotos = 8

// photoPrefix starts the per photo filter fields, e.g. photo.0.preset
const photoPrefix = "photo."

var (
	designPattern  = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*$`)
	sessionPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)
)

// StripParams contains the fields of a strip render request
type StripParams struct {
	Session string
	Photos  []image.Photo
	Options strip.Options
	Format  image.OutputFormat
}

// FilterParams contains the fields of a single photo filter request
type FilterParams struct {
	Photo  image.Photo
	Format image.OutputFormat
}

// GetStripParams parses a multipart strip render request.
// Photos are read in the order of their "photo" parts, each at most maxPhotoSize bytes.
func GetStripParams(r *http.Request, maxMemory, maxPhotoSize int64) (*StripParams, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	f := form(r.MultipartForm.Value)

	files := r.MultipartForm.File["photo"]
	if len(files) == 0 {
		return nil, ErrNoPhotos
	}

	if len(files) > MaxPhotos {
		return nil, fmt.Errorf("%w: %d, at most %d", ErrTooManyPhotos, len(files), MaxPhotos)
	}

	base, err := f.filter("")
	if err != nil {
		return nil, err
	}

	mirror, err := f.bool("mirror", false)
	if err != nil {
		return nil, err
	}

	p := &StripParams{
		Photos: make([]image.Photo, len(files)),
	}

	for i, fh := range files {
		data, err := readPhoto(fh, maxPhotoSize)
		if err != nil {
			return nil, fmt.Errorf("photo %d: %w", i, err)
		}

		spec := base
		prefix := fmt.Sprintf("%s%d.", photoPrefix, i)
		if f.hasPrefix(prefix) {
			if spec, err = f.filter(prefix); err != nil {
				return nil, err
			}
		}

		p.Photos[i] = image.Photo{Data: data, Filter: spec, Mirror: mirror}
	}

	if p.Options, err = f.options(); err != nil {
		return nil, err
	}

	if p.Format, err = image.ParseOutputFormat(f.get("format")); err != nil {
		return nil, err
	}

	if p.Session = f.get("session"); p.Session != "" && !sessionPattern.MatchString(p.Session) {
		return nil, ErrInvalidSession
	}

	return p, nil
}

// GetFilterParams parses a multipart single photo filter request
func GetFilterParams(r *http.Request, maxMemory, maxPhotoSize int64) (*FilterParams, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	f := form(r.MultipartForm.Value)

	files := r.MultipartForm.File["photo"]
	if len(files) != 1 {
		return nil, fmt.Errorf("%w: exactly one photo is filtered", ErrNoPhotos)
	}

	data, err := readPhoto(files[0], maxPhotoSize)
	if err != nil {
		return nil, err
	}

	spec, err := f.filter("")
	if err != nil {
		return nil, err
	}

	mirror, err := f.bool("mirror", false)
	if err != nil {
		return nil, err
	}

	format, err := image.ParseOutputFormat(f.get("format"))
	if err != nil {
		return nil, err
	}

	return &FilterParams{
		Photo:  image.Photo{Data: data, Filter: spec, Mirror: mirror},
		Format: format,
	}, nil
}

func readPhoto(fh *multipart.FileHeader, maxSize int64) ([]byte, error) {
	if fh.Size > maxSize {
		return nil, ErrPhotoTooLarge
	}

	file, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		return nil, err
	}

	if int64(len(data)) > maxSize {
		return nil, ErrPhotoTooLarge
	}

	return data, nil
}

// form reads typed fields out of multipart values
type form map[string][]string

func (f form) get(key string) string {
	if v := f[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

func (f form) has(key string) bool {
	_, ok := f[key]
	return ok
}

func (f form) hasPrefix(prefix string) bool {
	for key := range f {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

func (f form) bool(key string, fallback bool) (bool, error) {
	v := f.get(key)
	if v == "" {
		if f.has(key) {
			// A bare field is a flag
			return true, nil
		}
		return fallback, nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %q", key, v)
	}
	return b, nil
}

func (f form) float(key string, fallback, min, max float64) (float64, error) {
	v := f.get(key)
	if v == "" {
		return fallback, nil
	}

	n, err := strconv.ParseFloat(v, 64)
	if err != nil || n < min || n > max {
		return 0, fmt.Errorf("invalid %s: %q, must be between %g and %g", key, v, min, max)
	}
	return n, nil
}

// filter reads the colour filter fields below prefix.
// A filter descriptor wins over a preset, which wins over the adjustment sliders.
func (f form) filter(prefix string) (filter.Spec, error) {
	if f.has(prefix + "filter") {
		return filter.Parse(f.get(prefix + "filter")), nil
	}

	if slug := f.get(prefix + "preset"); slug != "" {
		preset, err := filter.ParsePreset(slug)
		if err != nil {
			return filter.Spec{}, err
		}

		if !f.has(prefix + "intensity") {
			return preset.Spec(), nil
		}

		intensity, err := f.float(prefix+"intensity", 0, 0, 100)
		if err != nil {
			return filter.Spec{}, err
		}
		return preset.AtIntensity(intensity), nil
	}

	var adjustments filter.Adjustments
	fields := []struct {
		name     string
		value    *float64
		min, max float64
	}{
		{"brightness", &adjustments.Brightness, -100, 100},
		{"contrast", &adjustments.Contrast, -100, 100},
		{"saturation", &adjustments.Saturation, -100, 100},
		{"exposure", &adjustments.Exposure, -100, 100},
		{"highlights", &adjustments.Highlights, -100, 100},
		{"color_temperature", &adjustments.ColorTemperature, -100, 100},
		{"tone", &adjustments.Tone, -100, 100},
		{"sharpness", &adjustments.Sharpness, 0, 100},
	}

	for _, field := range fields {
		v, err := f.float(prefix+field.name, 0, field.min, field.max)
		if err != nil {
			return filter.Spec{}, err
		}
		*field.value = v
	}

	auto, err := f.float(prefix+"auto", 0, 0, 100)
	if err != nil {
		return filter.Spec{}, err
	}

	if auto > 0 {
		adjustments = adjustments.Add(filter.Auto(auto))
	}

	return adjustments.Spec(), nil
}

// options reads the composition fields, unset fields keep the defaults
func (f form) options() (strip.Options, error) {
	opts := strip.DefaultOptions()
	var err error

	if opts.Background, err = strip.ParseBackground(f.get("background")); err != nil {
		return opts, err
	}

	if opts.Decoration, err = decoration.ParseID(f.get("decoration")); err != nil {
		return opts, err
	}

	if opts.Stickers, err = sticker.ParseSetID(f.get("stickers")); err != nil {
		return opts, err
	}

	opts.Text = f.get("text")
	if err := strip.ValidateText(opts.Text); err != nil {
		return opts, err
	}

	if opts.ShowDate, err = f.bool("date", opts.ShowDate); err != nil {
		return opts, err
	}

	if opts.TextPosition, err = strip.ParseTextPosition(f.get("text_position")); err != nil {
		return opts, err
	}

	if opts.Bold, err = f.bool("bold", opts.Bold); err != nil {
		return opts, err
	}

	if opts.Italic, err = f.bool("italic", opts.Italic); err != nil {
		return opts, err
	}

	if font := f.get("font"); font != "" {
		opts.Font = font
	}

	if opts.FontSize, err = f.float("font_size", opts.FontSize, strip.MinFontSize, strip.MaxFontSize); err != nil {
		return opts, err
	}

	if err := strip.ValidateFont(opts.Font, opts.FontSize); err != nil {
		return opts, err
	}

	if opts.CornerRadius, err = f.float("radius", 0, 0, 150); err != nil {
		return opts, err
	}

	if opts.Duplicate, err = f.bool("duplicate", false); err != nil {
		return opts, err
	}

	if design := f.get("design"); design != "" {
		if !designPattern.MatchString(design) {
			return opts, fmt.Errorf("%w: %q", ErrInvalidDesign, design)
		}
		opts.Design = "designs/" + design + ".png"
	}

	return opts, nil
}
