package file_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"

	"github.com/DMarby/photo-strip/internal/storage"
	"github.com/DMarby/photo-strip/internal/storage/file"

	"testing"
)

func TestFile(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "stickers"), 0o755); err != nil {
		t.Fatal(err)
	}

	fixture := []byte("\x89PNG fake")
	if err := os.WriteFile(filepath.Join(root, "stickers", "panda.png"), fixture, 0o644); err != nil {
		t.Fatal(err)
	}

	provider, err := file.New(root)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("Get an asset by key", func(t *testing.T) {
		buf, err := provider.Get(context.Background(), "stickers/panda.png")
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(buf, fixture) {
			t.Error("asset data doesn't match")
		}
	})

	t.Run("Put creates directories", func(t *testing.T) {
		err := provider.Put(context.Background(), "strips/2026/abc.png", []byte("strip"), "image/png")
		if err != nil {
			t.Fatal(err)
		}

		buf, err := provider.Get(context.Background(), "strips/2026/abc.png")
		if err != nil || string(buf) != "strip" {
			t.Errorf("wrong data %s, %v", buf, err)
		}
	})

	t.Run("Returns error on a nonexistant path", func(t *testing.T) {
		_, err := file.New("")
		if err == nil {
			t.FailNow()
		}
	})

	t.Run("Returns ErrNotFound on a nonexistant key", func(t *testing.T) {
		_, err := provider.Get(context.Background(), "stickers/nonexistant.png")
		if err != storage.ErrNotFound {
			t.Fatalf("wrong error %v", err)
		}
	})

	t.Run("Rejects keys outside the root", func(t *testing.T) {
		if _, err := provider.Get(context.Background(), "../secret"); err != storage.ErrInvalidKey {
			t.Fatalf("wrong error %v", err)
		}

		if err := provider.Put(context.Background(), "../secret", nil, ""); err != storage.ErrInvalidKey {
			t.Fatalf("wrong error %v", err)
		}
	})
}
