package storage

import (
	"context"
	"errors"
	"path"
	"strings"
)

// Provider is an interface for reading assets and storing rendered strips
type Provider interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// CleanKey normalises a storage key and rejects keys escaping the storage root
func CleanKey(key string) (string, error) {
	if key == "" || strings.Contains(key, "\\") {
		return "", ErrInvalidKey
	}

	cleaned := path.Clean("/" + key)[1:]
	if cleaned == "" || cleaned != strings.TrimPrefix(key, "/") {
		return "", ErrInvalidKey
	}

	return cleaned, nil
}

// Errors
var (
	ErrNotFound   = errors.New("object does not exist")
	ErrInvalidKey = errors.New("invalid storage key")
)
