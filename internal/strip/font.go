package strip

import (
	"fmt"
	"sync"

	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultFont is used when no family is requested
const DefaultFont = "Arial"

// Fonts are the families offered for custom text
var Fonts = []string{
	"Arial",
	"Courier New",
	"Verdana",
	"Times New Roman",
	"Brush Script MT",
	"Pacifico",
	"Lobster",
	"Dancing Script",
	"Georgia",
	"Comic Sans MS",
	"Impact",
}

// Font sizes accepted for custom text
const (
	MinFontSize = 12
	MaxFontSize = 32
)

// ValidateFont checks the family and size of custom text
func ValidateFont(family string, size float64) error {
	if size < MinFontSize || size > MaxFontSize {
		return fmt.Errorf("font size must be between %d and %d", MinFontSize, MaxFontSize)
	}

	for _, f := range Fonts {
		if f == family {
			return nil
		}
	}

	return fmt.Errorf("unknown font %q", family)
}

type fontStyle struct {
	mono, bold, italic bool
}

var fontData = map[fontStyle][]byte{
	{}:                                     goregular.TTF,
	{bold: true}:                           gobold.TTF,
	{italic: true}:                         goitalic.TTF,
	{bold: true, italic: true}:             gobolditalic.TTF,
	{mono: true}:                           gomono.TTF,
	{mono: true, bold: true}:               gomonobold.TTF,
	{mono: true, italic: true}:             gomonoitalic.TTF,
	{mono: true, bold: true, italic: true}: gomonobolditalic.TTF,
}

// fontCache parses each embedded font once
type fontCache struct {
	mutex   sync.Mutex
	sources map[fontStyle]*text.FontSource
}

var fonts = &fontCache{sources: make(map[fontStyle]*text.FontSource)}

// face returns a face for the family. Courier New maps to Go Mono,
// every other family to Go sans.
func (f *fontCache) face(family string, size float64, bold, italic bool) (text.Face, error) {
	style := fontStyle{mono: family == "Courier New", bold: bold, italic: italic}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	source, ok := f.sources[style]
	if !ok {
		var err error
		source, err = text.NewFontSource(fontData[style])
		if err != nil {
			return nil, fmt.Errorf("error loading font %q: %w", family, err)
		}
		f.sources[style] = source
	}

	return source.Face(size), nil
}
