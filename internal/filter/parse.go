package filter

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var componentPattern = regexp.MustCompile(`([a-z-]+)\(\s*([^)]*?)\s*\)`)

// Parse reads a CSS style filter descriptor such as "brightness(110%) contrast(105%)".
// Components that are missing, unknown or malformed keep their identity value.
func Parse(descriptor string) Spec {
	spec := Identity()

	for _, match := range componentPattern.FindAllStringSubmatch(strings.ToLower(descriptor), -1) {
		name, arg := match[1], match[2]

		if name == "hue-rotate" {
			if deg, ok := parseAngle(arg); ok {
				spec.HueRotate = deg
			}
			continue
		}

		value, ok := parsePercentage(arg)
		if !ok {
			continue
		}

		switch name {
		case "brightness":
			spec.Brightness = value
		case "contrast":
			spec.Contrast = value
		case "saturate":
			spec.Saturate = value
		case "grayscale":
			spec.Grayscale = value
		case "sepia":
			spec.Sepia = value
		case "invert":
			spec.Invert = value
		case "opacity":
			spec.Opacity = value
		}
	}

	return spec
}

// parsePercentage accepts "110%" or a bare factor such as "1.1"
func parsePercentage(arg string) (float64, bool) {
	if v, found := strings.CutSuffix(arg, "%"); found {
		return parseNumber(v)
	}

	v, ok := parseNumber(arg)
	return v * 100, ok
}

// parseAngle accepts deg, rad and turn units, a bare number is read as degrees
func parseAngle(arg string) (float64, bool) {
	units := []struct {
		suffix string
		factor float64
	}{
		{"deg", 1},
		{"grad", 0.9},
		{"rad", 180 / math.Pi},
		{"turn", 360},
	}

	for _, unit := range units {
		if v, found := strings.CutSuffix(arg, unit.suffix); found {
			n, ok := parseNumber(v)
			return n * unit.factor, ok
		}
	}

	return parseNumber(arg)
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}
