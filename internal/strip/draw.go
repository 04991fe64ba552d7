package strip

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/DMarby/photo-strip/internal/decoration"
	"github.com/DMarby/photo-strip/internal/raster"
	"github.com/gogpu/gg"
	"github.com/nfnt/resize"
	"github.com/rivo/uniseg"
)

// Film sprocket holes
const (
	holeWidth   = 30
	holeHeight  = 25
	holeRadius  = 5
	holeInset   = 10
	holeOutset  = 35
	holeSpacing = 80
)

// Text band typography
const (
	dateFontSize  = 16
	letterSpacing = 2
	// textRaise is the gap between the custom text and the date baselines
	textRaise = 30
)

func (c *Compositor) drawBackground(dc *gg.Context, layout Layout, bg Background) {
	dc.ClearWithColor(gg.FromColor(bg.Color))

	if !bg.Film {
		return
	}

	// The shared middle border of a duplicated canvas only gets the holes of the right instance
	instances := layout.Instances()
	dc.SetHexColor("#fff")
	for i, x := range instances {
		for y := layout.Border; y < layout.Height-layout.Border; y += holeSpacing {
			dc.DrawRoundedRectangle(float64(x+holeInset), float64(y), holeWidth, holeHeight, holeRadius)
			if i == len(instances)-1 {
				dc.DrawRoundedRectangle(float64(x+layout.StripWidth-holeOutset), float64(y), holeWidth, holeHeight, holeRadius)
			}
		}
	}

	if err := dc.Fill(); err != nil {
		c.Log.Warnw("error drawing film sprockets", "error", err)
	}
}

// drawDesign tiles the design down both side borders of every instance, mirroring the left edge
func (c *Compositor) drawDesign(ctx context.Context, dc *gg.Context, layout Layout, key string) {
	if layout.Border == 0 || c.Assets == nil {
		return
	}

	img, err := c.Assets.LoadImage(ctx, key)
	if err != nil {
		c.Log.Warnw("skipping strip design", "design", key, "error", err)
		return
	}

	b := img.Bounds()
	tileHeight := int(math.Round(float64(b.Dy()) * float64(layout.Border) / float64(b.Dx())))
	if tileHeight <= 0 {
		c.Log.Warnw("skipping strip design", "design", key, "error", "empty tile")
		return
	}

	tile := resize.Resize(uint(layout.Border), uint(tileHeight), img, resize.Lanczos3)
	right := gg.ImageBufFromImage(tile)
	left := gg.ImageBufFromImage(raster.FromImage(tile).Mirror().NRGBA())

	for _, x := range layout.Instances() {
		for y := 0; y < layout.Height; y += tileHeight {
			dc.DrawImage(left, float64(x), float64(y))
			dc.DrawImage(right, float64(x+layout.StripWidth-layout.Border), float64(y))
		}
	}
}

// cover scales the photo to fill w x h, center cropping the longer dimension
func cover(r *raster.Raster, w, h int) image.Image {
	imageRatio := float64(r.Width) / float64(r.Height)
	targetRatio := float64(w) / float64(h)

	crop := image.Rect(0, 0, r.Width, r.Height)
	if imageRatio > targetRatio {
		cropWidth := int(math.Round(float64(r.Height) * targetRatio))
		x := (r.Width - cropWidth) / 2
		crop = image.Rect(x, 0, x+cropWidth, r.Height)
	} else {
		cropHeight := int(math.Round(float64(r.Width) / targetRatio))
		y := (r.Height - cropHeight) / 2
		crop = image.Rect(0, y, r.Width, y+cropHeight)
	}

	return resize.Resize(uint(w), uint(h), r.NRGBA().SubImage(crop), resize.Lanczos3)
}

// drawPhoto paints photo i and its decoration into the cell of every instance
func (c *Compositor) drawPhoto(dc *gg.Context, layout Layout, index int, photo *raster.Raster, opts Options) {
	buf := gg.ImageBufFromImage(cover(photo, layout.PhotoWidth, layout.PhotoHeight))

	for _, x := range layout.Instances() {
		cell := layout.Cell(x, index)
		cx, cy := float64(cell.Min.X), float64(cell.Min.Y)
		cw, ch := float64(cell.Dx()), float64(cell.Dy())

		if opts.CornerRadius > 0 {
			dc.Push()
			dc.DrawRoundedRectangle(cx, cy, cw, ch, opts.CornerRadius)
			dc.Clip()
			dc.DrawImage(buf, cx, cy)
			dc.Pop()
		} else {
			dc.DrawImage(buf, cx, cy)
		}

		// Decorations overflowing into the next cell are clipped at the middle of the spacing
		top, bottom := layout.decorationBounds(index)
		dc.Push()
		dc.ClipRect(0, float64(top), float64(layout.Width), float64(bottom-top))
		if err := decoration.Draw(dc, opts.Decoration, cx, cy, cw, ch); err != nil {
			c.Log.Warnw("error drawing decoration", "photo", index, "error", err)
		}
		dc.Pop()
	}
}

// drawOverlay paints the custom text, date stamp and stickers of every instance
func (c *Compositor) drawOverlay(ctx context.Context, dc *gg.Context, layout Layout, opts Options) error {
	ctx, span := c.Tracer.Start(ctx, "strip.Compositor.drawOverlay")
	defer span.End()

	ink := TextColor(opts.Background)
	bandBottom := float64(layout.TextBandTop() + layout.TextBand)
	date := c.now().Format("01/02/2006")

	for _, x := range layout.Instances() {
		center := float64(x) + float64(layout.StripWidth)/2
		dc.SetColor(ink)

		if opts.ShowDate {
			face, err := fonts.face(DefaultFont, dateFontSize, false, false)
			if err != nil {
				return err
			}
			dc.SetFont(face)
			drawSpaced(dc, date, center, bandBottom)
		}

		if opts.Text != "" {
			size := opts.FontSize
			if size <= 0 {
				size = DefaultOptions().FontSize
			}

			face, err := fonts.face(opts.Font, size, opts.Bold, opts.Italic)
			if err != nil {
				return fmt.Errorf("error drawing text: %w", err)
			}
			dc.SetFont(face)
			drawSpaced(dc, opts.Text, center, bandBottom-textRaise)
		}

		if c.Stickers != nil {
			c.Stickers.Draw(ctx, dc, opts.Stickers, float64(x), float64(layout.StripWidth), float64(layout.Height), float64(layout.StickerOffset()))
		}
	}

	return nil
}

// drawSpaced draws centered text one grapheme cluster at a time with letter spacing after each
func drawSpaced(dc *gg.Context, s string, centerX, baseline float64) {
	var clusters []string
	var widths []float64
	total := 0.0

	graphemes := uniseg.NewGraphemes(s)
	for graphemes.Next() {
		cluster := graphemes.Str()
		w, _ := dc.MeasureString(cluster)
		clusters = append(clusters, cluster)
		widths = append(widths, w)
		total += w + letterSpacing
	}

	x := centerX - total/2
	for i, cluster := range clusters {
		dc.DrawString(cluster, x, baseline)
		x += widths[i] + letterSpacing
	}
}
