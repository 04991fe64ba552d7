// Package sticker places bitmap sticker sets onto a strip canvas.
package sticker

import (
	"errors"
	"fmt"
)

// SetID selects a sticker set
type SetID int

const (
	None SetID = iota
	Panda
	PandaPair
	BigPanda
	PandaWave
	Cats
	CatPair
	Corgi
	CorgiLeft
	BigCorgi
	TeddyBear
)

// ErrUnknownSet is returned when parsing an unknown sticker set name
var ErrUnknownSet = errors.New("unknown sticker set")

// Coord is a sticker anchor coordinate, either fixed or derived from the canvas size
type Coord struct {
	fixed    float64
	relative func(dimension float64) float64
}

// Fixed is a coordinate at an absolute offset
func Fixed(v float64) Coord {
	return Coord{fixed: v}
}

// FromEnd is a coordinate measured back from the far edge of the canvas
func FromEnd(offset float64) Coord {
	return Coord{relative: func(dimension float64) float64 { return dimension - offset }}
}

// Resolve evaluates the coordinate against a canvas dimension
func (c Coord) Resolve(dimension float64) float64 {
	if c.relative != nil {
		return c.relative(dimension)
	}
	return c.fixed
}

// Placement is a single sticker in a set
type Placement struct {
	// Asset is the storage key of the sticker bitmap
	Asset  string
	X, Y   Coord
	Width  int
	Height int
}

type set struct {
	name       string
	placements []Placement
}

var sets = [...]set{
	None: {name: "none"},
	Panda: {"panda", []Placement{
		{Asset: "stickers/panda.png", X: Fixed(20), Y: FromEnd(120), Width: 100, Height: 100},
	}},
	PandaPair: {"panda-1", []Placement{
		{Asset: "stickers/panda-1.png", X: FromEnd(120), Y: FromEnd(120), Width: 100, Height: 100},
		{Asset: "stickers/panda.png", X: Fixed(20), Y: FromEnd(120), Width: 100, Height: 100},
	}},
	BigPanda: {"panda-2", []Placement{
		{Asset: "stickers/panda-2.png", X: Fixed(20), Y: FromEnd(120), Width: 120, Height: 120},
	}},
	PandaWave: {"panda-3", []Placement{
		{Asset: "stickers/panda-3.png", X: Fixed(20), Y: FromEnd(120), Width: 110, Height: 110},
	}},
	Cats: {"cat", []Placement{
		{Asset: "stickers/cat.png", X: Fixed(20), Y: FromEnd(120), Width: 110, Height: 110},
		{Asset: "stickers/cat.png", X: FromEnd(120), Y: FromEnd(120), Width: 110, Height: 110},
	}},
	CatPair: {"cat-1", []Placement{
		{Asset: "stickers/cat-1.png", X: FromEnd(120), Y: FromEnd(120), Width: 110, Height: 110},
		{Asset: "stickers/cat-2.png", X: Fixed(20), Y: FromEnd(120), Width: 110, Height: 110},
	}},
	Corgi: {"corgi", []Placement{
		{Asset: "stickers/corgi.png", X: FromEnd(120), Y: FromEnd(120), Width: 110, Height: 110},
	}},
	CorgiLeft: {"corgi-1", []Placement{
		{Asset: "stickers/corgi-1.png", X: Fixed(20), Y: FromEnd(120), Width: 110, Height: 110},
	}},
	BigCorgi: {"corgi-2", []Placement{
		{Asset: "stickers/corgi-2.png", X: Fixed(30), Y: FromEnd(120), Width: 120, Height: 120},
	}},
	TeddyBear: {"teddy-bear", []Placement{
		{Asset: "stickers/teddy-bear.png", X: Fixed(30), Y: FromEnd(120), Width: 120, Height: 120},
	}},
}

func (id SetID) set() set {
	if id < 0 || int(id) >= len(sets) {
		return sets[None]
	}
	return sets[id]
}

func (id SetID) String() string {
	return id.set().name
}

// Placements returns the stickers of the set in drawing order
func (id SetID) Placements() []Placement {
	return id.set().placements
}

// ParseSetID looks a sticker set up by name, the empty string is None
func ParseSetID(name string) (SetID, error) {
	if name == "" {
		return None, nil
	}

	for i, s := range sets {
		if s.name == name {
			return SetID(i), nil
		}
	}

	return None, fmt.Errorf("%w: %q", ErrUnknownSet, name)
}

// Sets lists every sticker set, None included
func Sets() []SetID {
	all := make([]SetID, len(sets))
	for i := range sets {
		all[i] = SetID(i)
	}
	return all
}

// Assets lists the distinct asset keys used by any set
func Assets() []string {
	seen := map[string]bool{}
	var assets []string
	for _, s := range sets {
		for _, p := range s.placements {
			if !seen[p.Asset] {
				seen[p.Asset] = true
				assets = append(assets, p.Asset)
			}
		}
	}
	return assets
}
