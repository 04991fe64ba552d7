package strip

import (
	"errors"
	"fmt"
	"image"
)

// Errors
var (
	ErrNoPhotos          = errors.New("a strip needs at least one photo")
	ErrInvalidDimensions = errors.New("invalid strip dimensions")
)

// Dimensions is the base geometry of a strip
type Dimensions struct {
	PhotoWidth  int
	PhotoHeight int
	Border      int
	Spacing     int
	TextBand    int
}

// DefaultDimensions is a 400x300 cell with a 40px border, 20px between photos and a 70px text band
func DefaultDimensions() Dimensions {
	return Dimensions{
		PhotoWidth:  400,
		PhotoHeight: 300,
		Border:      40,
		Spacing:     20,
		TextBand:    70,
	}
}

// TextPosition places the text band below or above the photo column
type TextPosition int

const (
	TextBelow TextPosition = iota
	TextAbove
)

func (p TextPosition) String() string {
	if p == TextAbove {
		return "top"
	}
	return "bottom"
}

// ParseTextPosition reads "top" or "bottom", the empty string is bottom
func ParseTextPosition(s string) (TextPosition, error) {
	switch s {
	case "", "bottom":
		return TextBelow, nil
	case "top":
		return TextAbove, nil
	}
	return TextBelow, fmt.Errorf("invalid text position %q", s)
}

// Layout is the geometry of one render, computed once
type Layout struct {
	Dimensions
	Photos       int
	Duplicate    bool
	TextPosition TextPosition

	// StripWidth is the width of a single strip instance
	StripWidth int
	Width      int
	Height     int
}

// NewLayout computes the canvas geometry for a number of photos
func NewLayout(d Dimensions, photos int, duplicate bool, position TextPosition) (Layout, error) {
	if photos < 1 {
		return Layout{}, ErrNoPhotos
	}

	if d.PhotoWidth <= 0 || d.PhotoHeight <= 0 || d.Border < 0 || d.Spacing < 0 || d.TextBand < 0 {
		return Layout{}, fmt.Errorf("%w: %+v", ErrInvalidDimensions, d)
	}

	l := Layout{
		Dimensions:   d,
		Photos:       photos,
		Duplicate:    duplicate,
		TextPosition: position,
		StripWidth:   d.PhotoWidth + d.Border*2,
		Height:       d.PhotoHeight*photos + d.Spacing*(photos-1) + d.Border*2 + d.TextBand,
	}

	if duplicate {
		l.Width = d.PhotoWidth*2 + d.Border*3
	} else {
		l.Width = l.StripWidth
	}

	return l, nil
}

// Instances returns the x offset of each strip instance, the two halves of a
// duplicated canvas share the middle border
func (l Layout) Instances() []int {
	if l.Duplicate {
		return []int{0, l.PhotoWidth + l.Border}
	}
	return []int{0}
}

// photoColumnHeight is the height of the photos and the spacing between them
func (l Layout) photoColumnHeight() int {
	return l.PhotoHeight*l.Photos + l.Spacing*(l.Photos-1)
}

// PhotosTop is the y of the first cell
func (l Layout) PhotosTop() int {
	if l.TextPosition == TextAbove {
		return l.Border + l.TextBand
	}
	return l.Border
}

// TextBandTop is the y of the text band
func (l Layout) TextBandTop() int {
	if l.TextPosition == TextAbove {
		return l.Border
	}
	return l.Border + l.photoColumnHeight()
}

// StickerOffset moves stickers anchored to the bottom of the canvas along with the text band
func (l Layout) StickerOffset() int {
	return l.TextBandTop() - (l.Border + l.photoColumnHeight())
}

// Cell returns the rectangle of photo i in the strip instance at xOffset
func (l Layout) Cell(xOffset, i int) image.Rectangle {
	x := xOffset + l.Border
	y := l.PhotosTop() + (l.PhotoHeight+l.Spacing)*i
	return image.Rect(x, y, x+l.PhotoWidth, y+l.PhotoHeight)
}

// decorationBounds returns the rows the decoration of photo i may paint, from the
// middle of the spacing above the cell to the middle of the spacing below it.
// The first and last photos extend to the canvas edges.
func (l Layout) decorationBounds(i int) (top, bottom int) {
	cell := l.Cell(0, i)

	top, bottom = 0, l.Height
	if i > 0 {
		top = cell.Min.Y - l.Spacing/2
	}
	if i < l.Photos-1 {
		bottom = cell.Max.Y + l.Spacing - l.Spacing/2
	}
	return top, bottom
}
