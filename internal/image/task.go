package image

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/DMarby/photo-strip/internal/filter"
	"github.com/DMarby/photo-strip/internal/strip"
	"github.com/twmb/murmur3"
)

// Task is a strip rendering task
type Task struct {
	Session      string
	Photos       []Photo
	Options      strip.Options
	OutputFormat OutputFormat
}

// Photo is one captured photo and the colour filter to apply to it
type Photo struct {
	Data   []byte
	Filter filter.Spec
	Mirror bool
}

// FilterTask filters a single photo
type FilterTask struct {
	Photo        Photo
	OutputFormat OutputFormat
}

// OutputFormat is the image format to output to
type OutputFormat int

const (
	// PNG represents the PNG format, used for downloads
	PNG OutputFormat = iota
	// JPEG represents the compressed JPEG format, used for email delivery
	JPEG
)

// JPEGQuality is the quality of the compressed payload
const JPEGQuality = 70

// ParseOutputFormat reads a format name or file extension
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch strings.TrimPrefix(strings.ToLower(s), ".") {
	case "", "png":
		return PNG, nil
	case "jpg", "jpeg":
		return JPEG, nil
	}
	return PNG, fmt.Errorf("invalid output format %q", s)
}

// Extension returns the file extension including the dot
func (f OutputFormat) Extension() string {
	if f == JPEG {
		return ".jpg"
	}
	return ".png"
}

// ContentType returns the mime type
func (f OutputFormat) ContentType() string {
	if f == JPEG {
		return "image/jpeg"
	}
	return "image/png"
}

// NewTask creates a new strip rendering task
func NewTask(session string, options strip.Options, format OutputFormat) *Task {
	return &Task{
		Session:      session,
		Options:      options,
		OutputFormat: format,
	}
}

// AddPhoto appends a photo, filtered with spec
func (t *Task) AddPhoto(data []byte, spec filter.Spec) *Task {
	t.Photos = append(t.Photos, Photo{Data: data, Filter: spec})
	return t
}

// Mirror flips every photo horizontally
func (t *Task) Mirror() *Task {
	for i := range t.Photos {
		t.Photos[i].Mirror = true
	}
	return t
}

// Key returns a content hash of the photos and options, equal tasks get equal keys
func (t *Task) Key() string {
	h := murmur3.New128()

	var n [8]byte
	write := func(b []byte) {
		binary.LittleEndian.PutUint64(n[:], uint64(len(b)))
		h.Write(n[:])
		h.Write(b)
	}

	for _, p := range t.Photos {
		write(p.Data)
		write([]byte(p.Filter.String()))
		if p.Mirror {
			write([]byte("mirror"))
		}
	}

	write([]byte(fmt.Sprintf("%+v", t.Options)))
	write([]byte(t.OutputFormat.Extension()))

	hi, lo := h.Sum128()
	return fmt.Sprintf("%016x%016x", hi, lo)
}
