package sticker

import (
	"context"
	"image"

	"github.com/DMarby/photo-strip/internal/logger"
	"github.com/gogpu/gg"
	"github.com/nfnt/resize"
)

// AssetLoader loads decoded bitmaps by storage key
type AssetLoader interface {
	LoadImage(ctx context.Context, key string) (image.Image, error)
}

// Placer draws sticker sets
type Placer struct {
	Assets AssetLoader
	Log    *logger.Logger
}

// Draw paints every sticker of the set onto the canvas.
// Coordinates are resolved against canvasWidth and canvasHeight, shifted right
// by xOffset and down by yOffset. Stickers whose asset can't be loaded are skipped.
func (p *Placer) Draw(ctx context.Context, dc *gg.Context, id SetID, xOffset, canvasWidth, canvasHeight, yOffset float64) {
	for _, placement := range id.Placements() {
		img, err := p.Assets.LoadImage(ctx, placement.Asset)
		if err != nil {
			p.Log.Warnw("skipping sticker",
				"sticker-set", id.String(),
				"asset", placement.Asset,
				"error", err,
			)
			continue
		}

		x := xOffset + placement.X.Resolve(canvasWidth)
		y := yOffset + placement.Y.Resolve(canvasHeight)

		scaled := resize.Resize(uint(placement.Width), uint(placement.Height), img, resize.Lanczos3)
		dc.DrawImage(gg.ImageBufFromImage(scaled), x, y)
	}
}
