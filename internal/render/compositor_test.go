package render

import (
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
)

// fakeFetcher serves canned images by reference.
type fakeFetcher struct {
	images map[string]image.Image
	calls  []string
}

func (f *fakeFetcher) Fetch(_ context.Context, ref string) (image.Image, error) {
	f.calls = append(f.calls, ref)
	img, ok := f.images[ref]
	if !ok {
		return nil, errors.New("no such image")
	}
	return img, nil
}

func solid(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderFace_TemplateFillsCard(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{images: map[string]image.Image{
		"https://assets.test/templates/m1h/rub/m1h_v1_01_kule_7.png": solid(100, 160, color.RGBA{R: 200, A: 255}),
	}}
	c := NewCompositor(fetcher)

	card := deck.CardConfig{
		ID:            "card-1",
		Suit:          catalog.Diamonds,
		Rank:          catalog.Seven,
		IsLocked:      true,
		TemplateImage: "https://assets.test/templates/m1h/rub/m1h_v1_01_kule_7.png",
	}
	img, err := c.RenderFace(context.Background(), card, Options{Width: 200, Height: 320})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 320 {
		t.Fatalf("output bounds = %v", img.Bounds())
	}
	if len(fetcher.calls) != 1 {
		t.Fatalf("fetch calls = %v", fetcher.calls)
	}
}

func TestRenderFace_CustomComposition(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{images: map[string]image.Image{
		"upload-1": solid(80, 80, color.RGBA{G: 200, A: 255}),
	}}
	c := NewCompositor(fetcher)

	card := deck.CardConfig{
		ID:          "card-2",
		CustomImage: "upload-1",
		CustomText:  "Babička",
		ImageScale:  1.5,
		ImageX:      10,
		ImageY:      -10,
		BorderColor: "#FF0000",
	}
	img, err := c.RenderFace(context.Background(), card, Options{Width: 240, Height: 384})
	if err != nil {
		t.Fatalf("render: %v", err)
	}

	// Screen mode paints the border; the top-left corner carries the frame.
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 0xFF || g>>8 != 0x00 || b>>8 != 0x00 {
		t.Fatalf("border pixel = %d %d %d, want red frame", r>>8, g>>8, b>>8)
	}
}

func TestRenderFace_PrintModeOmitsFrame(t *testing.T) {
	t.Parallel()

	c := NewCompositor(&fakeFetcher{})
	card := deck.CardConfig{ID: "card-3", BorderColor: "#FF0000"}

	img, err := c.RenderFace(context.Background(), card, Options{Width: 100, Height: 160, PrintMode: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, g, b, _ := img.At(2, 2).RGBA()
	if r>>8 != 0xFF || g>>8 != 0xFF || b>>8 != 0xFF {
		t.Fatalf("print corner = %d %d %d, want white ground", r>>8, g>>8, b>>8)
	}
}

func TestRenderFace_FetchFailurePropagates(t *testing.T) {
	t.Parallel()

	c := NewCompositor(&fakeFetcher{})
	card := deck.CardConfig{ID: "card-4", CustomImage: "missing"}
	if _, err := c.RenderFace(context.Background(), card, Options{}); err == nil {
		t.Fatal("render succeeded with an unfetchable image")
	}
}

func TestRenderBack_BackgroundColor(t *testing.T) {
	t.Parallel()

	c := NewCompositor(&fakeFetcher{})
	back := deck.BackConfig{Color: "#0F1623", BorderColor: "#D4AF37"}

	img, err := c.RenderBack(context.Background(), back, Options{Width: 100, Height: 160, PrintMode: true})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, g, b, _ := img.At(50, 80).RGBA()
	if r>>8 != 0x0F || g>>8 != 0x16 || b>>8 != 0x23 {
		t.Fatalf("center = %d %d %d, want background color", r>>8, g>>8, b>>8)
	}
}

func TestRenderDefaults(t *testing.T) {
	t.Parallel()

	c := NewCompositor(&fakeFetcher{})
	img, err := c.RenderBack(context.Background(), deck.NewBackConfig(), Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if img.Bounds().Dx() != DefaultWidth || img.Bounds().Dy() != DefaultHeight {
		t.Fatalf("default bounds = %v", img.Bounds())
	}
}

func TestParseHexColor(t *testing.T) {
	t.Parallel()

	fallback := color.RGBA{R: 1, G: 2, B: 3, A: 0xFF}
	if got := parseHexColor("#D4AF37", fallback); got != (color.RGBA{R: 0xD4, G: 0xAF, B: 0x37, A: 0xFF}) {
		t.Fatalf("long form = %+v", got)
	}
	if got := parseHexColor("#f00", fallback); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Fatalf("short form = %+v", got)
	}
	for _, bad := range []string{"", "red", "#12345", "#GGGGGG"} {
		if got := parseHexColor(bad, fallback); got != fallback {
			t.Fatalf("%q parsed to %+v, want fallback", bad, got)
		}
	}
}

func TestDataURLFetch(t *testing.T) {
	t.Parallel()

	// A 1x1 PNG.
	png := []byte{
		0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
		0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
		0x08, 0x06, 0x00, 0x00, 0x00, 0x1F, 0x15, 0xC4, 0x89, 0x00, 0x00, 0x00,
		0x0A, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9C, 0x63, 0x00, 0x01, 0x00, 0x00,
		0x05, 0x00, 0x01, 0x0D, 0x0A, 0x2D, 0xB4, 0x00, 0x00, 0x00, 0x00, 0x49,
		0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
	}
	ref := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)

	f := NewHTTPFetcher(nil)
	img, err := f.Fetch(context.Background(), ref)
	if err != nil {
		t.Fatalf("fetch data URL: %v", err)
	}
	if img.Bounds().Dx() != 1 || img.Bounds().Dy() != 1 {
		t.Fatalf("bounds = %v", img.Bounds())
	}

	if _, err := f.Fetch(context.Background(), "data:image/png;base64,!!!"); err == nil {
		t.Fatal("broken data URL decoded")
	}
}
