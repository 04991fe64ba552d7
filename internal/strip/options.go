package strip

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/DMarby/photo-strip/internal/decoration"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/gogpu/gg"
	"github.com/rivo/uniseg"
	"golang.org/x/image/colornames"
)

// MaxTextLength is the longest custom text, in grapheme clusters
const MaxTextLength = 20

// Errors
var (
	ErrTextTooLong       = fmt.Errorf("text is longer than %d characters", MaxTextLength)
	ErrInvalidBackground = errors.New("invalid background")
)

// Background is a solid color or the film motif
type Background struct {
	Color color.NRGBA
	Film  bool
}

// Named backgrounds offered by the booth
var Backgrounds = []string{"white", "black", "#FFF2CC", "#f6d5da", "#dde6d5", "#adc3e5", "#dbcfff", "film"}

// ParseBackground reads "film", a CSS color name, or a #rgb / #rrggbb hex color
func ParseBackground(s string) (Background, error) {
	s = strings.TrimSpace(s)

	if s == "" {
		return Background{Color: color.NRGBA{255, 255, 255, 255}}, nil
	}

	if strings.EqualFold(s, "film") {
		return Background{Color: color.NRGBA{0, 0, 0, 255}, Film: true}, nil
	}

	if strings.HasPrefix(s, "#") {
		c, err := gg.ParseHex(s)
		if err != nil {
			return Background{}, fmt.Errorf("%w: %s", ErrInvalidBackground, err)
		}
		return Background{Color: color.NRGBA{channel(c.R), channel(c.G), channel(c.B), 255}}, nil
	}

	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return Background{Color: color.NRGBA{c.R, c.G, c.B, 255}}, nil
	}

	return Background{}, fmt.Errorf("%w: %q", ErrInvalidBackground, s)
}

func channel(v float64) uint8 {
	return uint8(math.Round(math.Min(math.Max(v, 0), 1) * 255))
}

// Luminance is the perceived brightness of the background in [0, 255]
func (b Background) Luminance() float64 {
	return 0.299*float64(b.Color.R) + 0.587*float64(b.Color.G) + 0.114*float64(b.Color.B)
}

// Dark reports whether the background needs light text.
// A luminance below 128 is dark, the film motif is always dark.
func (b Background) Dark() bool {
	return b.Film || b.Luminance() < 128
}

// TextColor picks white text for dark backgrounds and black otherwise
func TextColor(b Background) color.NRGBA {
	if b.Dark() {
		return color.NRGBA{255, 255, 255, 255}
	}
	return color.NRGBA{0, 0, 0, 255}
}

// TextLength counts user perceived characters
func TextLength(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// ValidateText rejects custom text longer than MaxTextLength
func ValidateText(s string) error {
	if TextLength(s) > MaxTextLength {
		return ErrTextTooLong
	}
	return nil
}

// Options controls the look of a strip
type Options struct {
	Dimensions   Dimensions
	Background   Background
	Decoration   decoration.ID
	Stickers     sticker.SetID
	Text         string
	ShowDate     bool
	TextPosition TextPosition
	Bold         bool
	Italic       bool
	Font         string
	FontSize     float64
	CornerRadius float64
	Duplicate    bool
	// Design is the storage key of a tile repeated down both side borders
	Design string
}

// DefaultOptions is a white single strip with the date stamp
func DefaultOptions() Options {
	return Options{
		Dimensions: DefaultDimensions(),
		Background: Background{Color: color.NRGBA{255, 255, 255, 255}},
		ShowDate:   true,
		Bold:       true,
		Italic:     true,
		Font:       DefaultFont,
		FontSize:   20,
	}
}
