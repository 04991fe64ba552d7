package file_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"

	"github.com/DMarby/photo-strip/internal/database"
	"github.com/DMarby/photo-strip/internal/database/file"

	"testing"
)

func TestFile(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	path := filepath.Join(t.TempDir(), "counter.json")

	provider, err := file.New(path)
	if err != nil {
		t.Fatal(err)
	}
	defer provider.Shutdown()

	t.Run("Get before any hit", func(t *testing.T) {
		if _, err := provider.Get(ctx); err != database.ErrNotFound {
			t.Fatalf("wrong error %v", err)
		}
	})

	t.Run("Record hits", func(t *testing.T) {
		if _, err := provider.Record(ctx, database.VisitPageview); err != nil {
			t.Fatal(err)
		}

		counter, err := provider.Record(ctx, database.Pageview)
		if err != nil {
			t.Fatal(err)
		}

		expected := &database.Counter{Pageviews: 2, Visits: 1}
		if !reflect.DeepEqual(counter, expected) {
			t.Errorf("wrong counter %+v", counter)
		}
	})

	t.Run("Totals survive a restart", func(t *testing.T) {
		reopened, err := file.New(path)
		if err != nil {
			t.Fatal(err)
		}

		counter, err := reopened.Get(ctx)
		if err != nil {
			t.Fatal(err)
		}

		if !reflect.DeepEqual(counter, &database.Counter{Pageviews: 2, Visits: 1}) {
			t.Errorf("wrong counter %+v", counter)
		}
	})

	t.Run("Returns error on a corrupt file", func(t *testing.T) {
		corrupt := filepath.Join(t.TempDir(), "corrupt.json")
		if err := os.WriteFile(corrupt, []byte("{"), 0o644); err != nil {
			t.Fatal(err)
		}

		if _, err := file.New(corrupt); err == nil {
			t.FailNow()
		}
	})
}
