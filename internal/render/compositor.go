package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/mycardscz/mycards-server/internal/deck"
)

// Default output size in pixels at 300 DPI for the 62x100 mm Marias stock.
const (
	DefaultWidth  = 732
	DefaultHeight = 1181
)

const borderThickness = 12

// Compositor is the production Renderer. Image references are resolved
// through the injected Fetcher, so rendering itself never touches the
// network directly and stays deterministic in tests.
type Compositor struct {
	fetcher Fetcher
}

// NewCompositor builds a compositor over an image fetcher.
func NewCompositor(fetcher Fetcher) *Compositor {
	return &Compositor{fetcher: fetcher}
}

// RenderFace renders a single card face. Template-locked cards are the
// fetched template filling the whole face; custom cards compose the uploaded
// image, caption and border over a white ground.
func (c *Compositor) RenderFace(ctx context.Context, card deck.CardConfig, opts Options) (image.Image, error) {
	width, height := normalizeSize(opts)

	if card.IsLocked && card.TemplateImage != "" {
		tmpl, err := c.fetcher.Fetch(ctx, card.TemplateImage)
		if err != nil {
			return nil, fmt.Errorf("render: fetch template for %s: %w", card.ID, err)
		}
		return imaging.Fill(tmpl, width, height, imaging.Center, imaging.Lanczos), nil
	}

	canvas := imaging.New(width, height, color.White)

	if card.CustomImage != "" {
		img, err := c.fetcher.Fetch(ctx, card.CustomImage)
		if err != nil {
			return nil, fmt.Errorf("render: fetch image for %s: %w", card.ID, err)
		}
		canvas = placeImage(canvas, img, card.ImageScale, card.ImageX, card.ImageY)
	}

	if card.CustomText != "" {
		drawCaption(canvas, card.CustomText, color.Black)
	}
	if !opts.PrintMode {
		drawBorder(canvas, parseHexColor(card.BorderColor, color.RGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}))
	}
	return canvas, nil
}

// RenderBack renders the shared back design over its background color.
func (c *Compositor) RenderBack(ctx context.Context, back deck.BackConfig, opts Options) (image.Image, error) {
	width, height := normalizeSize(opts)

	ground := parseHexColor(back.Color, color.RGBA{R: 0x0F, G: 0x16, B: 0x23, A: 0xFF})
	canvas := imaging.New(width, height, ground)

	if back.CustomImage != "" {
		img, err := c.fetcher.Fetch(ctx, back.CustomImage)
		if err != nil {
			return nil, fmt.Errorf("render: fetch back image: %w", err)
		}
		canvas = placeImage(canvas, img, back.ImageScale, back.ImageX, back.ImageY)
	}

	if back.CustomText != "" {
		drawCaption(canvas, back.CustomText, color.White)
	}
	if !opts.PrintMode {
		drawBorder(canvas, parseHexColor(back.BorderColor, color.RGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}))
	}
	return canvas, nil
}

func normalizeSize(opts Options) (int, int) {
	width, height := opts.Width, opts.Height
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return width, height
}

// placeImage fits the source onto the canvas, then applies the shopper's zoom
// and offset. Offsets are percentages of the canvas size, matching the wizard
// sliders.
func placeImage(canvas *image.NRGBA, src image.Image, scale float64, offsetX, offsetY int) *image.NRGBA {
	width := canvas.Bounds().Dx()
	height := canvas.Bounds().Dy()

	scale = deck.ClampScale(scale)
	offsetX = deck.ClampShift(offsetX)
	offsetY = deck.ClampShift(offsetY)

	fitted := imaging.Fit(src, width, height, imaging.Lanczos)
	scaledW := int(float64(fitted.Bounds().Dx()) * scale)
	scaledH := int(float64(fitted.Bounds().Dy()) * scale)
	if scaledW < 1 {
		scaledW = 1
	}
	if scaledH < 1 {
		scaledH = 1
	}
	scaled := imaging.Resize(fitted, scaledW, scaledH, imaging.Lanczos)

	x := (width-scaledW)/2 + offsetX*width/100
	y := (height-scaledH)/2 + offsetY*height/100
	return imaging.Overlay(canvas, scaled, image.Pt(x, y), 1.0)
}

// drawCaption paints the caption centered near the bottom edge.
func drawCaption(canvas *image.NRGBA, text string, ink color.Color) {
	face := basicfont.Face7x13
	drawer := &font.Drawer{
		Dst:  canvas,
		Src:  image.NewUniform(ink),
		Face: face,
	}
	textWidth := drawer.MeasureString(text).Ceil()
	x := (canvas.Bounds().Dx() - textWidth) / 2
	y := canvas.Bounds().Dy() - canvas.Bounds().Dy()/12
	drawer.Dot = fixed.P(x, y)
	drawer.DrawString(text)
}

// drawBorder paints the decorative frame used for on-screen previews.
func drawBorder(canvas *image.NRGBA, ink color.Color) {
	bounds := canvas.Bounds()
	top := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Min.Y+borderThickness)
	bottom := image.Rect(bounds.Min.X, bounds.Max.Y-borderThickness, bounds.Max.X, bounds.Max.Y)
	left := image.Rect(bounds.Min.X, bounds.Min.Y, bounds.Min.X+borderThickness, bounds.Max.Y)
	right := image.Rect(bounds.Max.X-borderThickness, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	uniform := image.NewUniform(ink)
	for _, r := range []image.Rectangle{top, bottom, left, right} {
		draw.Draw(canvas, r, uniform, image.Point{}, draw.Src)
	}
}

// parseHexColor parses #RGB and #RRGGBB colors, falling back on bad input.
func parseHexColor(s string, fallback color.RGBA) color.RGBA {
	if len(s) == 0 || s[0] != '#' {
		return fallback
	}
	hex := s[1:]
	nibble := func(b byte) (uint8, bool) {
		switch {
		case b >= '0' && b <= '9':
			return b - '0', true
		case b >= 'a' && b <= 'f':
			return b - 'a' + 10, true
		case b >= 'A' && b <= 'F':
			return b - 'A' + 10, true
		}
		return 0, false
	}
	switch len(hex) {
	case 3:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			n, ok := nibble(hex[i])
			if !ok {
				return fallback
			}
			out[i] = n<<4 | n
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 0xFF}
	case 6:
		var out [3]uint8
		for i := 0; i < 3; i++ {
			hi, okHi := nibble(hex[2*i])
			lo, okLo := nibble(hex[2*i+1])
			if !okHi || !okLo {
				return fallback
			}
			out[i] = hi<<4 | lo
		}
		return color.RGBA{R: out[0], G: out[1], B: out[2], A: 0xFF}
	}
	return fallback
}

var _ Renderer = (*Compositor)(nil)
