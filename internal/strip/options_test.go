package strip_test

import (
	"errors"
	"image/color"
	"strings"
	"testing"

	"github.com/DMarby/photo-strip/internal/strip"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		input    string
		expected strip.Background
		err      bool
	}{
		{"", strip.Background{Color: color.NRGBA{255, 255, 255, 255}}, false},
		{"white", strip.Background{Color: color.NRGBA{255, 255, 255, 255}}, false},
		{"Black", strip.Background{Color: color.NRGBA{0, 0, 0, 255}}, false},
		{"#FFF2CC", strip.Background{Color: color.NRGBA{0xff, 0xf2, 0xcc, 255}}, false},
		{"#abc", strip.Background{Color: color.NRGBA{0xaa, 0xbb, 0xcc, 255}}, false},
		{"#808080", strip.Background{Color: color.NRGBA{128, 128, 128, 255}}, false},
		{"film", strip.Background{Color: color.NRGBA{0, 0, 0, 255}, Film: true}, false},
		{"#zzzzzz", strip.Background{}, true},
		{"sparkly", strip.Background{}, true},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			bg, err := strip.ParseBackground(test.input)
			if (err != nil) != test.err {
				t.Fatalf("unexpected error %v", err)
			}

			if err != nil && !errors.Is(err, strip.ErrInvalidBackground) {
				t.Errorf("wrong error %v", err)
			}

			if bg != test.expected {
				t.Errorf("expected %v, got %v", test.expected, bg)
			}
		})
	}

	for _, name := range strip.Backgrounds {
		if _, err := strip.ParseBackground(name); err != nil {
			t.Errorf("offered background %q does not parse: %v", name, err)
		}
	}
}

func TestTextColor(t *testing.T) {
	white := color.NRGBA{255, 255, 255, 255}
	black := color.NRGBA{0, 0, 0, 255}

	tests := []struct {
		background string
		expected   color.NRGBA
	}{
		{"#000000", white},
		{"#FFFFFF", black},
		// Luminance 128 is not dark
		{"#808080", black},
		{"#7f7f7f", white},
		{"film", white},
		{"#adc3e5", black},
	}

	for _, test := range tests {
		t.Run(test.background, func(t *testing.T) {
			bg, err := strip.ParseBackground(test.background)
			if err != nil {
				t.Fatal(err)
			}

			if c := strip.TextColor(bg); c != test.expected {
				t.Errorf("expected %v, got %v", test.expected, c)
			}
		})
	}
}

func TestValidateText(t *testing.T) {
	tests := []struct {
		name   string
		text   string
		length int
		err    error
	}{
		{"empty", "", 0, nil},
		{"ascii", "Best Friends", 12, nil},
		{"skin tone emoji", "👍🏽", 1, nil},
		{"family emoji", "👨‍👩‍👧", 1, nil},
		{"flag", "🇸🇪", 1, nil},
		{"combining accent", "é", 1, nil},
		{"at limit", strings.Repeat("a", 19) + "🎉", 20, nil},
		{"over limit", strings.Repeat("🎉", 21), 21, strip.ErrTextTooLong},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if l := strip.TextLength(test.text); l != test.length {
				t.Errorf("expected length %d, got %d", test.length, l)
			}

			if err := strip.ValidateText(test.text); err != test.err {
				t.Errorf("expected %v, got %v", test.err, err)
			}
		})
	}
}

func TestValidateFont(t *testing.T) {
	if err := strip.ValidateFont("Courier New", 20); err != nil {
		t.Error(err)
	}

	if err := strip.ValidateFont("Wingdings", 20); err == nil {
		t.Error("expected error for unknown font")
	}

	if err := strip.ValidateFont("Arial", 40); err == nil {
		t.Error("expected error for oversized font")
	}
}
