package file

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/DMarby/photo-strip/internal/storage"
)

// Provider implements a file-based storage, keys are paths relative to the root
type Provider struct {
	path string
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	return &Provider{
		path,
	}, nil
}

func (p *Provider) resolve(key string) (string, error) {
	key, err := storage.CleanKey(key)
	if err != nil {
		return "", err
	}

	return filepath.Join(p.path, filepath.FromSlash(key)), nil
}

// Get returns the data stored under key
func (p *Provider) Get(ctx context.Context, key string) ([]byte, error) {
	path, err := p.resolve(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, storage.ErrNotFound
		}

		return nil, err
	}

	return data, nil
}

// Put writes data under key, replacing any previous object atomically
func (p *Provider) Put(ctx context.Context, key string, data []byte, contentType string) error {
	path, err := p.resolve(key)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".upload-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
