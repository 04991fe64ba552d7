package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/DMarby/photo-strip/internal/raster"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/DMarby/photo-strip/internal/storage"
	fileStorage "github.com/DMarby/photo-strip/internal/storage/file"
	"github.com/DMarby/photo-strip/internal/storage/spaces"
)

// Comandline flags
var (
	assetPath    = flag.String("asset-path", "./assets", "path to the asset directory")
	manifestPath = flag.String("manifest-path", "-", "path to write the asset manifest to, - for stdout")

	// Upload - Spaces
	spacesSpace          = flag.String("spaces-space", "", "digitalocean space to upload the assets to, nothing is uploaded when empty")
	spacesEndpoint       = flag.String("spaces-endpoint", "", "spaces endpoint, e.g. https://ams3.digitaloceanspaces.com")
	spacesAccessKey      = flag.String("spaces-access-key", "", "spaces access key")
	spacesSecretKey      = flag.String("spaces-secret-key", "", "spaces secret key")
	spacesPrefix         = flag.String("spaces-prefix", "", "prefix of every asset key in the space")
	spacesForcePathStyle = flag.Bool("spaces-force-path-style", false, "use path style urls, needed for some s3 compatible storages")
)

// Asset is an entry of the manifest
type Asset struct {
	Key     string `json:"key"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	Missing bool   `json:"missing,omitempty"`
}

func main() {
	flag.Parse()

	resolvedAssetPath, err := filepath.Abs(*assetPath)
	if err != nil {
		log.Fatal(err)
	}

	provider, err := fileStorage.New(resolvedAssetPath)
	if err != nil {
		log.Fatal(err)
	}

	designs, err := designKeys(resolvedAssetPath)
	if err != nil {
		log.Fatal(err)
	}

	assets, err := manifest(context.Background(), provider, append(sticker.Assets(), designs...))
	if err != nil {
		log.Fatal(err)
	}

	var out io.Writer = os.Stdout
	if *manifestPath != "-" {
		file, err := os.Create(*manifestPath)
		if err != nil {
			log.Fatal(err)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")

	if err := encoder.Encode(assets); err != nil {
		log.Fatal(err)
	}

	for _, asset := range assets {
		if asset.Missing {
			log.Printf("missing asset %s", asset.Key)
		}
	}

	if *spacesSpace == "" {
		return
	}

	destination, err := spaces.New(*spacesSpace, *spacesEndpoint, *spacesAccessKey, *spacesSecretKey, *spacesPrefix, *spacesForcePathStyle)
	if err != nil {
		log.Fatal(err)
	}

	uploaded, err := upload(context.Background(), provider, destination, assets)
	if err != nil {
		log.Fatal(err)
	}

	log.Printf("uploaded %d assets to %s", uploaded, *spacesSpace)
}

// upload copies every asset that exists from src to dst
func upload(ctx context.Context, src, dst storage.Provider, assets []Asset) (int, error) {
	uploaded := 0
	for _, asset := range assets {
		if asset.Missing {
			continue
		}

		data, err := src.Get(ctx, asset.Key)
		if err != nil {
			return uploaded, err
		}

		if err := dst.Put(ctx, asset.Key, data, "image/png"); err != nil {
			return uploaded, fmt.Errorf("error uploading %s: %w", asset.Key, err)
		}
		uploaded++
	}

	return uploaded, nil
}

// manifest decodes every asset, assets that don't exist are marked missing
func manifest(ctx context.Context, provider storage.Provider, keys []string) ([]Asset, error) {
	assets := make([]Asset, len(keys))

	for i, key := range keys {
		assets[i].Key = key

		data, err := provider.Get(ctx, key)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				assets[i].Missing = true
				continue
			}
			return nil, err
		}

		r, err := raster.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("error decoding %s: %w", key, err)
		}

		assets[i].Width = r.Width
		assets[i].Height = r.Height
	}

	return assets, nil
}

// designKeys lists the strip designs found below designs/
func designKeys(root string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(root, "designs"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".png") {
			continue
		}
		keys = append(keys, "designs/"+entry.Name())
	}

	sort.Strings(keys)
	return keys, nil
}
