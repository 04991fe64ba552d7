package sticker_test

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"reflect"
	"testing"

	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/DMarby/photo-strip/internal/sticker"
	"github.com/gogpu/gg"
	"go.uber.org/zap"
)

type mockAssets struct {
	assets map[string]image.Image
	loaded []string
}

func (m *mockAssets) LoadImage(ctx context.Context, key string) (image.Image, error) {
	m.loaded = append(m.loaded, key)
	if img, ok := m.assets[key]; ok {
		return img, nil
	}
	return nil, fmt.Errorf("asset %s not found", key)
}

func solid(c color.Color, size int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestCoord(t *testing.T) {
	if v := sticker.Fixed(20).Resolve(500); v != 20 {
		t.Errorf("wrong fixed coordinate %v", v)
	}

	if v := sticker.FromEnd(120).Resolve(500); v != 380 {
		t.Errorf("wrong relative coordinate %v", v)
	}
}

func TestPlacerDraw(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	assets := &mockAssets{assets: map[string]image.Image{
		"stickers/panda.png": solid(color.NRGBA{255, 0, 0, 255}, 50),
	}}
	placer := &sticker.Placer{Assets: assets, Log: log}

	dc := gg.NewContext(480, 600)
	defer dc.Close()

	// The panda-1 asset is missing, the set still draws its second sticker
	placer.Draw(context.Background(), dc, sticker.PandaPair, 0, 480, 600, 0)

	if !reflect.DeepEqual(assets.loaded, []string{"stickers/panda-1.png", "stickers/panda.png"}) {
		t.Errorf("wrong assets loaded %v", assets.loaded)
	}

	img := dc.Image()
	if r, _, _, a := img.At(70, 530).RGBA(); r>>8 != 255 || a>>8 != 255 {
		t.Error("panda sticker not drawn at its anchor")
	}

	if _, _, _, a := img.At(410, 530).RGBA(); a != 0 {
		t.Error("missing sticker should leave the canvas untouched")
	}
}

func TestPlacerDrawOffsets(t *testing.T) {
	log := logger.New(zap.FatalLevel)
	defer log.Sync()

	assets := &mockAssets{assets: map[string]image.Image{
		"stickers/corgi.png": solid(color.NRGBA{0, 0, 255, 255}, 10),
	}}
	placer := &sticker.Placer{Assets: assets, Log: log}

	dc := gg.NewContext(960, 600)
	defer dc.Close()

	// Second strip of a duplicated canvas, band shifted up by 100
	placer.Draw(context.Background(), dc, sticker.Corgi, 480, 480, 600, -100)

	// x = 480 + 480 - 120, y = 600 - 120 - 100
	if _, _, b, a := dc.Image().At(845, 385).RGBA(); b>>8 != 255 || a>>8 != 255 {
		t.Error("corgi sticker not drawn at its offset anchor")
	}
}

func TestParseSetID(t *testing.T) {
	for _, id := range sticker.Sets() {
		parsed, err := sticker.ParseSetID(id.String())
		if err != nil || parsed != id {
			t.Errorf("%s did not round trip", id)
		}
	}

	if _, err := sticker.ParseSetID("dragon"); err == nil {
		t.Error("expected error for unknown set")
	}

	if len(sticker.Sets()) != 11 {
		t.Errorf("wrong set count %d", len(sticker.Sets()))
	}

	if len(sticker.Assets()) != 11 {
		t.Errorf("wrong asset count %d", len(sticker.Assets()))
	}
}
