package filter

import "math"

// Adjustments are the manual sliders, each typically in [-100, 100] with
// Sharpness in [0, 100]
type Adjustments struct {
	Brightness       float64 `json:"brightness"`
	Contrast         float64 `json:"contrast"`
	Saturation       float64 `json:"saturation"`
	Exposure         float64 `json:"exposure"`
	Highlights       float64 `json:"highlights"`
	ColorTemperature float64 `json:"colorTemperature"`
	Tone             float64 `json:"tone"`
	Sharpness        float64 `json:"sharpness"`
}

// Spec maps the adjustments onto filter parameters
func (a Adjustments) Spec() Spec {
	return Spec{
		Brightness: math.Max(100+a.Brightness, 0),
		Contrast:   math.Max(100+a.Contrast, 0),
		Saturate:   math.Max(100+a.Saturation, 0),
		Grayscale:  math.Abs(a.Exposure),
		Sepia:      math.Abs(a.Highlights),
		HueRotate:  a.ColorTemperature,
		Invert:     math.Abs(a.Tone),
		Opacity:    100 - math.Abs(a.Sharpness),
	}
}

// Add sums two sets of adjustments, used to stack auto adjust on manual edits
func (a Adjustments) Add(b Adjustments) Adjustments {
	return Adjustments{
		Brightness:       a.Brightness + b.Brightness,
		Contrast:         a.Contrast + b.Contrast,
		Saturation:       a.Saturation + b.Saturation,
		Exposure:         a.Exposure + b.Exposure,
		Highlights:       a.Highlights + b.Highlights,
		ColorTemperature: a.ColorTemperature + b.ColorTemperature,
		Tone:             a.Tone + b.Tone,
		Sharpness:        a.Sharpness + b.Sharpness,
	}
}

// Auto returns the automatic enhancement at the given strength, 0-100
func Auto(value float64) Adjustments {
	scale := value / 100

	return Adjustments{
		Brightness: -20 * scale,
		Contrast:   22 * scale,
		Saturation: 27 * scale,
		Exposure:   15 * scale,
		Highlights: -50 * scale,
	}
}
