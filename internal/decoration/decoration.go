// Package decoration draws the procedural frame decorations that are painted
// around each photo cell of a strip.
package decoration

import (
	"errors"
	"fmt"

	"github.com/gogpu/gg"
)

// ID selects one of the decorations
type ID int

const (
	None ID = iota
	GlowingStar
	Leaf
	Butterfly
	Flowers
	Bow
	Stars
	Clouds
	Hearts
)

// ErrUnknown is returned when parsing an unknown decoration name
var ErrUnknown = errors.New("unknown decoration")

var names = [...]string{
	None:        "none",
	GlowingStar: "glowingStar",
	Leaf:        "leaf",
	Butterfly:   "butterfly",
	Flowers:     "flowers",
	Bow:         "bow",
	Stars:       "stars",
	Clouds:      "clouds",
	Hearts:      "hearts",
}

func (id ID) String() string {
	if id < 0 || int(id) >= len(names) {
		return names[None]
	}
	return names[id]
}

// ParseID looks a decoration up by name, the empty string is None
func ParseID(name string) (ID, error) {
	if name == "" {
		return None, nil
	}

	for i, n := range names {
		if n == name {
			return ID(i), nil
		}
	}

	return None, fmt.Errorf("%w: %q", ErrUnknown, name)
}

// All lists every decoration, None included
func All() []ID {
	all := make([]ID, len(names))
	for i := range names {
		all[i] = ID(i)
	}
	return all
}

// Draw paints the decoration around the cell at x, y with the given size.
// Unknown ids are treated as None.
func Draw(dc *gg.Context, id ID, x, y, width, height float64) error {
	p := &painter{dc: dc}

	switch id {
	case None:
	case GlowingStar:
		drawGlowingStars(p, x, y, width, height)
	case Leaf:
		drawLeaves(p, x, y, width, height)
	case Butterfly:
		drawButterflies(p, x, y, width, height)
	case Flowers:
		drawFlowers(p, x, y, width, height)
	case Bow:
		drawBows(p, x, y, width, height)
	case Stars:
		drawStars(p, x, y, width, height)
	case Clouds:
		drawClouds(p, x, y, width, height)
	case Hearts:
		drawHearts(p, x, y, width, height)
	}

	if p.err != nil {
		return fmt.Errorf("error drawing %s decoration: %w", id, p.err)
	}

	return nil
}

// painter wraps a context and keeps the first fill or stroke error
type painter struct {
	dc  *gg.Context
	err error
}

func (p *painter) fill() {
	if err := p.dc.Fill(); err != nil && p.err == nil {
		p.err = err
	}
}

func (p *painter) stroke() {
	if err := p.dc.Stroke(); err != nil && p.err == nil {
		p.err = err
	}
}
