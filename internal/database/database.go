package database

import (
	"context"
	"errors"
	"fmt"
)

// Counter holds the site visit totals
type Counter struct {
	Pageviews int64 `json:"pageviews"`
	Visits    int64 `json:"visits"`
}

// VisitType is the kind of hit being recorded
type VisitType string

// Visit types
const (
	// Pageview counts one page view
	Pageview VisitType = "pageview"
	// VisitPageview counts one page view that starts a new visit
	VisitPageview VisitType = "visit-pageview"
)

// ParseVisitType validates a visit type
func ParseVisitType(s string) (VisitType, error) {
	switch VisitType(s) {
	case Pageview, VisitPageview:
		return VisitType(s), nil
	case "":
		return "", ErrMissingType
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Apply increments the counter for a hit of type t
func (c *Counter) Apply(t VisitType) {
	c.Pageviews++
	if t == VisitPageview {
		c.Visits++
	}
}

// Provider is an interface for reading and recording visit counts
type Provider interface {
	Get(ctx context.Context) (*Counter, error)
	Record(ctx context.Context, t VisitType) (*Counter, error)

	Wait(ctx context.Context) error
	Shutdown()
}

// Errors
var (
	ErrNotFound    = errors.New("counter does not exist")
	ErrMissingType = errors.New("missing visit type")
	ErrInvalidType = errors.New("invalid visit type")
)
