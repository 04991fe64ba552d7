package filter

import "fmt"

// Preset is one of the named filter looks
type Preset int

const (
	NoFilter Preset = iota
	Fresh
	Clear
	Warm
	Film
	ModernGold
	BlackAndWhite
	HighContrast
	Gray
	Cool
	Vintage
	Fade
	Mist
	Food
	Autumn
	City
	Country
	Sunset
	Voyage
	Forest
	Flamingo
	Cyberpunk
)

// ErrUnknownPreset is returned when parsing an unknown preset slug
var ErrUnknownPreset = fmt.Errorf("unknown filter preset")

type presetInfo struct {
	name string
	slug string
	// look is the catalogue default
	look Spec
	// slider maps an intensity to a spec, nil keeps the default look
	slider func(v float64) Spec
}

func spec(mutate func(s *Spec)) Spec {
	s := Identity()
	mutate(&s)
	return s
}

var presets = [...]presetInfo{
	NoFilter: {name: "No Filter", slug: "none", look: Identity()},
	Fresh: {
		name: "Fresh", slug: "fresh",
		look: Spec{Brightness: 110, Saturate: 115, Contrast: 105, Opacity: 100},
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Brightness, s.Saturate, s.Contrast = 100+v/10, 100+v/5, 100+v/10 })
		},
	},
	Clear: {
		name: "Clear", slug: "clear",
		look: Spec{Contrast: 125, Brightness: 108, Saturate: 105, Opacity: 100},
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Contrast, s.Brightness, s.Saturate = 100+v/2, 100+v/10, 100+v/5 })
		},
	},
	Warm: {
		name: "Warm", slug: "warm",
		look:   spec(func(s *Spec) { s.Sepia, s.Brightness, s.Contrast = 20, 108, 110 }),
		slider: warmth,
	},
	Film: {
		name: "Film", slug: "film",
		look: spec(func(s *Spec) { s.Contrast, s.Brightness, s.Saturate = 105, 98, 92 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Contrast, s.Brightness, s.Saturate = 100+v/5, 100-v/10, 100-v/10 })
		},
	},
	ModernGold: {
		name: "Modern Gold", slug: "modernGold",
		look: spec(func(s *Spec) { s.Sepia, s.Brightness, s.Contrast, s.HueRotate = 42, 108, 115, 25 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Sepia, s.Brightness, s.Contrast, s.HueRotate = v/2, 100+v/10, 100+v/5, v/2 })
		},
	},
	BlackAndWhite: {
		name: "B&W", slug: "bw",
		look: spec(func(s *Spec) { s.Grayscale, s.Contrast = 100, 125 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Grayscale, s.Contrast = v, 100+v/2 })
		},
	},
	HighContrast: {
		name: "Contrast", slug: "contrast",
		look: spec(func(s *Spec) { s.Contrast = 155 }),
	},
	Gray: {
		name: "Gray", slug: "gray",
		look:   spec(func(s *Spec) { s.Grayscale = 100 }),
		slider: func(v float64) Spec { return spec(func(s *Spec) { s.Grayscale = v }) },
	},
	Cool: {
		name: "Cool", slug: "cool",
		look: spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 220, 98, 108 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 200+v/2, 100-v/10, 100+v/10 })
		},
	},
	Vintage: {
		name: "Vintage", slug: "vintage",
		look: spec(func(s *Spec) { s.Sepia, s.Contrast, s.Brightness, s.Saturate = 40, 115, 102, 88 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Sepia, s.Contrast, s.Brightness, s.Saturate = v/2, 100+v/5, 100+v/10, 100-v/10 })
		},
	},
	Fade: {
		name: "Fade", slug: "fade",
		look: spec(func(s *Spec) { s.Grayscale, s.Brightness, s.Contrast = 30, 105, 92 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Grayscale, s.Brightness, s.Contrast = v/2, 100+v/10, 100-v/10 })
		},
	},
	// Mist's blur has no per-pixel equivalent and is left out
	Mist: {
		name: "Mist", slug: "mist",
		look: spec(func(s *Spec) { s.Brightness, s.Contrast = 103, 97 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Brightness, s.Contrast = 100+v/10, 100-v/10 })
		},
	},
	Food: {
		name: "Food", slug: "food",
		look: spec(func(s *Spec) { s.Saturate, s.Contrast, s.Brightness = 135, 112, 105 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Saturate, s.Contrast, s.Brightness = 100+v/2, 100+v/10, 100+v/10 })
		},
	},
	Autumn: {
		name: "Autumn", slug: "autumn",
		look: spec(func(s *Spec) { s.Sepia, s.HueRotate, s.Brightness, s.Contrast = 35, 25, 108, 112 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Sepia, s.HueRotate, s.Brightness, s.Contrast = v/3, v/2, 100+v/10, 100+v/10 })
		},
	},
	City: {
		name: "City", slug: "city",
		look: spec(func(s *Spec) { s.Contrast, s.Brightness, s.Saturate = 120, 98, 108 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.Contrast, s.Brightness, s.Saturate = 100+v/2, 100-v/10, 100+v/5 })
		},
	},
	Country: {
		name: "Country", slug: "country",
		look:   spec(func(s *Spec) { s.Sepia, s.Brightness, s.Contrast = 25, 106, 110 }),
		slider: warmth,
	},
	Sunset: {
		name: "Sunset", slug: "sunset",
		look: spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 20, 108, 115 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = v/2, 100+v/10, 100+v/5 })
		},
	},
	Voyage: {
		name: "Voyage", slug: "voyage",
		look: spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 215, 97, 110 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 220+v/2, 100-v/10, 100+v/10 })
		},
	},
	Forest: {
		name: "Forest", slug: "forest",
		look: spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 130, 97, 108 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Brightness, s.Contrast = 130+v/2, 97-v/10, 108+v/10 })
		},
	},
	Flamingo: {
		name: "Flamingo", slug: "flamingo",
		look: spec(func(s *Spec) { s.HueRotate, s.Saturate, s.Brightness = 340, 140, 108 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Saturate, s.Brightness = 330+v/2, 100+v/2, 100+v/10 })
		},
	},
	Cyberpunk: {
		name: "Cyberpunk", slug: "cyberpunk",
		look: spec(func(s *Spec) { s.HueRotate, s.Contrast, s.Brightness, s.Saturate = 310, 135, 95, 140 }),
		slider: func(v float64) Spec {
			return spec(func(s *Spec) { s.HueRotate, s.Contrast, s.Brightness, s.Saturate = 300+v/2, 100+v/2, 100-v/10, 100+v/2 })
		},
	},
}

func warmth(v float64) Spec {
	return spec(func(s *Spec) { s.Sepia, s.Brightness, s.Contrast = v/3, 100+v/10, 100+v/10 })
}

// Presets lists every preset in catalogue order
func Presets() []Preset {
	all := make([]Preset, len(presets))
	for i := range presets {
		all[i] = Preset(i)
	}
	return all
}

// ParsePreset looks a preset up by its slug
func ParsePreset(slug string) (Preset, error) {
	for i, p := range presets {
		if p.slug == slug {
			return Preset(i), nil
		}
	}

	return NoFilter, fmt.Errorf("%w: %q", ErrUnknownPreset, slug)
}

func (p Preset) info() presetInfo {
	if p < 0 || int(p) >= len(presets) {
		return presets[NoFilter]
	}
	return presets[p]
}

// Name is the display name
func (p Preset) Name() string { return p.info().name }

// Slug is the stable identifier used in requests
func (p Preset) Slug() string { return p.info().slug }

func (p Preset) String() string { return p.Slug() }

// Spec returns the preset's default look
func (p Preset) Spec() Spec { return p.info().look }

// AtIntensity returns the preset scaled by a slider value in [0, 100].
// Presets without a slider keep their default look.
func (p Preset) AtIntensity(v float64) Spec {
	info := p.info()
	if info.slider == nil {
		return info.look
	}
	return info.slider(v)
}
