package strip_test

import (
	"image"
	"reflect"
	"testing"

	"github.com/DMarby/photo-strip/internal/strip"
)

var testDimensions = strip.Dimensions{
	PhotoWidth:  400,
	PhotoHeight: 300,
	Border:      30,
	Spacing:     20,
	TextBand:    100,
}

func TestNewLayout(t *testing.T) {
	tests := []struct {
		name           string
		dimensions     strip.Dimensions
		photos         int
		duplicate      bool
		expectedWidth  int
		expectedHeight int
	}{
		{"four photos", testDimensions, 4, false, 460, 1420},
		{"four photos duplicated", testDimensions, 4, true, 890, 1420},
		{"single photo", testDimensions, 1, false, 460, 460},
		{"defaults", strip.DefaultDimensions(), 3, false, 480, 1090},
		{"defaults duplicated", strip.DefaultDimensions(), 3, true, 920, 1090},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			layout, err := strip.NewLayout(test.dimensions, test.photos, test.duplicate, strip.TextBelow)
			if err != nil {
				t.Fatal(err)
			}

			if layout.Width != test.expectedWidth || layout.Height != test.expectedHeight {
				t.Errorf("expected %dx%d, got %dx%d", test.expectedWidth, test.expectedHeight, layout.Width, layout.Height)
			}
		})
	}
}

func TestNewLayoutErrors(t *testing.T) {
	if _, err := strip.NewLayout(testDimensions, 0, false, strip.TextBelow); err != strip.ErrNoPhotos {
		t.Errorf("expected ErrNoPhotos, got %v", err)
	}

	if _, err := strip.NewLayout(strip.Dimensions{PhotoWidth: 0, PhotoHeight: 10}, 1, false, strip.TextBelow); err == nil {
		t.Error("expected error for empty cells")
	}
}

func TestLayoutGeometry(t *testing.T) {
	below, _ := strip.NewLayout(testDimensions, 4, true, strip.TextBelow)
	above, _ := strip.NewLayout(testDimensions, 4, true, strip.TextAbove)

	tests := []struct {
		name     string
		actual   interface{}
		expected interface{}
	}{
		{"instances", below.Instances(), []int{0, 430}},
		{"first cell", below.Cell(0, 0), image.Rect(30, 30, 430, 330)},
		{"third cell", below.Cell(0, 2), image.Rect(30, 670, 430, 970)},
		{"duplicated cell", below.Cell(430, 1), image.Rect(460, 350, 860, 650)},
		{"band below", below.TextBandTop(), 1290},
		{"stickers below", below.StickerOffset(), 0},
		{"first cell above", above.Cell(0, 0), image.Rect(30, 130, 430, 430)},
		{"band above", above.TextBandTop(), 30},
		{"stickers above", above.StickerOffset(), -1260},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if !reflect.DeepEqual(test.actual, test.expected) {
				t.Errorf("expected %v, got %v", test.expected, test.actual)
			}
		})
	}
}

func TestParseTextPosition(t *testing.T) {
	for input, expected := range map[string]strip.TextPosition{"": strip.TextBelow, "bottom": strip.TextBelow, "top": strip.TextAbove} {
		if p, err := strip.ParseTextPosition(input); err != nil || p != expected {
			t.Errorf("%q: expected %s, got %s (%v)", input, expected, p, err)
		}
	}

	if _, err := strip.ParseTextPosition("left"); err == nil {
		t.Error("expected error")
	}
}
