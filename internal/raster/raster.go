// Package raster holds the RGBA pixel buffer shared by the filter engine and
// the strip compositor.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"image/png"

	// Additional decoders for captured photos and assets
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

// MaxPixels bounds the decoded size of a payload, checked against its header before decoding
const MaxPixels = 40_000_000

// Errors
var (
	ErrInvalidSize = errors.New("invalid raster size")
	ErrTooLarge    = errors.New("image too large")
)

// Raster is a width x height grid of straight (non premultiplied) RGBA pixels,
// stored row-major with 4 bytes per pixel
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// New allocates a transparent raster
func New(width, height int) (*Raster, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}

	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height*4),
	}, nil
}

// FromImage copies an image into a new raster
func FromImage(img image.Image) *Raster {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))

	// Straight alpha sources are copied as is, anything else goes through draw
	if src, ok := img.(*image.NRGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			start := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(nrgba.Pix[y*nrgba.Stride:(y+1)*nrgba.Stride], src.Pix[start:start+b.Dx()*4])
		}
	} else {
		draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)
	}

	return &Raster{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    nrgba.Pix,
	}
}

// Decode decodes an encoded png, jpeg, webp or bmp payload.
// Payloads whose header declares more than MaxPixels pixels are rejected with ErrTooLarge.
func Decode(buf []byte) (*Raster, error) {
	config, _, err := image.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	if config.Width <= 0 || config.Height <= 0 {
		return nil, fmt.Errorf("error decoding image: %w: %dx%d", ErrInvalidSize, config.Width, config.Height)
	}

	if config.Width > MaxPixels/config.Height {
		return nil, fmt.Errorf("error decoding image: %w: %dx%d", ErrTooLarge, config.Width, config.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("error decoding image: %w", err)
	}

	return FromImage(img), nil
}

// NRGBA returns an image.NRGBA view sharing the raster's pixels
func (r *Raster) NRGBA() *image.NRGBA {
	return &image.NRGBA{
		Pix:    r.Pix,
		Stride: r.Width * 4,
		Rect:   image.Rect(0, 0, r.Width, r.Height),
	}
}

// At returns the pixel at x, y
func (r *Raster) At(x, y int) color.NRGBA {
	i := (y*r.Width + x) * 4
	return color.NRGBA{R: r.Pix[i], G: r.Pix[i+1], B: r.Pix[i+2], A: r.Pix[i+3]}
}

// Clone returns a deep copy of the raster
func (r *Raster) Clone() *Raster {
	pix := make([]uint8, len(r.Pix))
	copy(pix, r.Pix)

	return &Raster{
		Width:  r.Width,
		Height: r.Height,
		Pix:    pix,
	}
}

// Mirror flips the raster horizontally in place
func (r *Raster) Mirror() *Raster {
	stride := r.Width * 4
	for y := 0; y < r.Height; y++ {
		row := r.Pix[y*stride : (y+1)*stride]
		for left, right := 0, r.Width-1; left < right; left, right = left+1, right-1 {
			l, rr := left*4, right*4
			for c := 0; c < 4; c++ {
				row[l+c], row[rr+c] = row[rr+c], row[l+c]
			}
		}
	}

	return r
}

// EncodePNG encodes the raster as png
func (r *Raster) EncodePNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.NRGBA()); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// EncodeJPEG encodes the raster as jpeg with the given quality
func (r *Raster) EncodeJPEG(quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r.NRGBA(), &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
