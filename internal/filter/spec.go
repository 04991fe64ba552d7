// Package filter implements the per-pixel colour filter engine, the
// descriptor parser, adjustment mapping and the preset catalogue.
package filter

import (
	"fmt"
	"strconv"
	"strings"
)

// Spec is a structured set of colour filter parameters.
// Brightness, Contrast and Saturate are percentages where 100 is identity.
// Grayscale, Sepia and Invert are 0-100 intensities, HueRotate is in degrees,
// and Opacity is 0-100 where 100 is identity.
type Spec struct {
	Brightness float64 `json:"brightness"`
	Contrast   float64 `json:"contrast"`
	Saturate   float64 `json:"saturate"`
	Grayscale  float64 `json:"grayscale"`
	Sepia      float64 `json:"sepia"`
	HueRotate  float64 `json:"hueRotate"`
	Invert     float64 `json:"invert"`
	Opacity    float64 `json:"opacity"`
}

// Identity returns the spec that leaves every pixel untouched
func Identity() Spec {
	return Spec{
		Brightness: 100,
		Contrast:   100,
		Saturate:   100,
		Opacity:    100,
	}
}

// IsIdentity reports whether applying the spec is a no-op
func (s Spec) IsIdentity() bool {
	return s == Identity()
}

// String renders the spec as a filter descriptor, only listing non identity components
func (s Spec) String() string {
	var parts []string
	add := func(name string, value, identity float64, unit string) {
		if value != identity {
			parts = append(parts, name+"("+strconv.FormatFloat(value, 'f', -1, 64)+unit+")")
		}
	}

	add("brightness", s.Brightness, 100, "%")
	add("contrast", s.Contrast, 100, "%")
	add("saturate", s.Saturate, 100, "%")
	add("grayscale", s.Grayscale, 0, "%")
	add("sepia", s.Sepia, 0, "%")
	add("hue-rotate", s.HueRotate, 0, "deg")
	add("invert", s.Invert, 0, "%")
	add("opacity", s.Opacity, 100, "%")

	if len(parts) == 0 {
		return "none"
	}

	return strings.Join(parts, " ")
}

// GoString is used by %#v in test failures
func (s Spec) GoString() string {
	return fmt.Sprintf("filter.Spec{%s}", s.String())
}
