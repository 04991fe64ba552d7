package api

import (
	"encoding/json"
	"net/http"

	"github.com/DMarby/photo-strip/internal/decoration"
	"github.com/DMarby/photo-strip/internal/filter"
	"github.com/DMarby/photo-strip/internal/handler"
	"github.com/DMarby/photo-strip/internal/image"
	"github.com/DMarby/photo-strip/internal/params"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/strip"
)

// Catalog lists the options a client can pick from
type Catalog struct {
	Decorations   []string        `json:"decorations"`
	StickerSets   []string        `json:"sticker_sets"`
	Presets       []CatalogPreset `json:"presets"`
	Fonts         []string        `json:"fonts"`
	MinFontSize   int             `json:"min_font_size"`
	MaxFontSize   int             `json:"max_font_size"`
	Backgrounds   []string        `json:"backgrounds"`
	MaxTextLength int             `json:"max_text_length"`
	MaxPhotos     int             `json:"max_photos"`
	Formats       []string        `json:"formats"`
}

// CatalogPreset is a filter preset and the filter it applies at its default intensity
type CatalogPreset struct {
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Filter string `json:"filter"`
}

// NewCatalog builds the catalog from the registered options
func NewCatalog() *Catalog {
	c := &Catalog{
		Fonts:         strip.Fonts,
		MinFontSize:   strip.MinFontSize,
		MaxFontSize:   strip.MaxFontSize,
		Backgrounds:   strip.Backgrounds,
		MaxTextLength: strip.MaxTextLength,
		MaxPhotos:     params.MaxPhotos,
		Formats:       []string{image.PNG.Extension()[1:], image.JPEG.Extension()[1:]},
	}

	for _, id := range decoration.All() {
		c.Decorations = append(c.Decorations, id.String())
	}

	for _, id := range sticker.Sets() {
		c.StickerSets = append(c.StickerSets, id.String())
	}

	for _, p := range filter.Presets() {
		c.Presets = append(c.Presets, CatalogPreset{
			Name:   p.Name(),
			Slug:   p.Slug(),
			Filter: p.Spec().String(),
		})
	}

	return c
}

func (a *API) catalogHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")

	if err := json.NewEncoder(w).Encode(NewCatalog()); err != nil {
		a.logError(r, "error encoding catalog", err)
		return handler.InternalServerError()
	}

	return nil
}
