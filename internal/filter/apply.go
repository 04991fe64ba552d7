package filter

import (
	"math"
	"runtime"

	"github.com/DMarby/photo-strip/internal/raster"
	"golang.org/x/sync/errgroup"
)

// Rows per band when filtering in parallel
const bandHeight = 64

// Apply runs the filter pipeline over every pixel of the raster in place and returns it.
// The pipeline order is brightness, contrast, saturation, grayscale, sepia,
// hue rotation, invert, clamp and round, then opacity on the alpha channel.
func Apply(r *raster.Raster, s Spec) *raster.Raster {
	if s.IsIdentity() {
		return r
	}

	p := newPipeline(s)
	stride := r.Width * 4

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))

	for y := 0; y < r.Height; y += bandHeight {
		start, end := y*stride, (y+bandHeight)*stride
		if end > len(r.Pix) {
			end = len(r.Pix)
		}

		band := r.Pix[start:end]
		g.Go(func() error {
			for i := 0; i < len(band); i += 4 {
				p.pixel(band[i : i+4 : i+4])
			}
			return nil
		})
	}

	g.Wait()
	return r
}

// pipeline holds the spec with its factors normalised once per call
type pipeline struct {
	brightness, contrast, saturate float64
	grayscale, sepia, invert       float64
	hue                            float64
	opacity                        float64
	rotateHue, fade                bool
}

func newPipeline(s Spec) pipeline {
	return pipeline{
		brightness: s.Brightness / 100,
		contrast:   s.Contrast / 100,
		saturate:   s.Saturate / 100,
		grayscale:  intensity(s.Grayscale),
		sepia:      intensity(s.Sepia),
		invert:     intensity(s.Invert),
		hue:        s.HueRotate / 360,
		rotateHue:  s.HueRotate != 0,
		opacity:    intensity(s.Opacity),
		fade:       s.Opacity < 100,
	}
}

// intensity maps a 0-100 amount to a blend factor in [0, 1]
func intensity(v float64) float64 {
	return math.Min(math.Max(v/100, 0), 1)
}

func (p pipeline) pixel(px []uint8) {
	r, g, b := float64(px[0]), float64(px[1]), float64(px[2])

	r, g, b = r*p.brightness, g*p.brightness, b*p.brightness

	r = (r-128)*p.contrast + 128
	g = (g-128)*p.contrast + 128
	b = (b-128)*p.contrast + 128

	l := luma(r, g, b)
	r, g, b = l+p.saturate*(r-l), l+p.saturate*(g-l), l+p.saturate*(b-l)

	if p.grayscale > 0 {
		k := p.grayscale
		l := luma(r, g, b)
		r, g, b = r*(1-k)+l*k, g*(1-k)+l*k, b*(1-k)+l*k
	}

	if p.sepia > 0 {
		k := p.sepia
		sr := 0.393*r + 0.769*g + 0.189*b
		sg := 0.349*r + 0.686*g + 0.168*b
		sb := 0.272*r + 0.534*g + 0.131*b
		r, g, b = r*(1-k)+sr*k, g*(1-k)+sg*k, b*(1-k)+sb*k
	}

	if p.rotateHue {
		// HSL is only defined for in-range channels
		h, s, l := rgbToHSL(clamp(r), clamp(g), clamp(b))
		h = math.Mod(h+p.hue, 1)
		if h < 0 {
			h++
		}
		r, g, b = hslToRGB(h, s, l)
	}

	if p.invert > 0 {
		k := p.invert
		r, g, b = r*(1-k)+(255-r)*k, g*(1-k)+(255-g)*k, b*(1-k)+(255-b)*k
	}

	px[0], px[1], px[2] = toByte(r), toByte(g), toByte(b)

	if p.fade {
		px[3] = toByte(float64(px[3]) * p.opacity)
	}
}

func luma(r, g, b float64) float64 {
	return 0.2989*r + 0.587*g + 0.114*b
}

func clamp(v float64) float64 {
	return math.Min(math.Max(v, 0), 255)
}

func toByte(v float64) uint8 {
	return uint8(math.Round(clamp(v)))
}
