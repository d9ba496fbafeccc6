// Package render rasterizes card faces and backs for print export. Rendering
// is synchronous: when a Render call returns without error the image is
// complete, which is the signal exporters wait on before archiving it.
package render

import (
	"context"
	"image"

	"github.com/mycardscz/mycards-server/internal/deck"
)

// Options control the output raster.
type Options struct {
	// Width and Height are the output size in pixels.
	Width  int
	Height int
	// PrintMode renders full-bleed output without the on-screen frame.
	PrintMode bool
}

// Renderer rasterizes one side of a card.
type Renderer interface {
	// RenderFace renders a single card face.
	RenderFace(ctx context.Context, card deck.CardConfig, opts Options) (image.Image, error)
	// RenderBack renders the shared back design.
	RenderBack(ctx context.Context, back deck.BackConfig, opts Options) (image.Image, error)
}

// Fetcher resolves an image reference (template URL or uploaded data URL)
// into a decoded image.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (image.Image, error)
}
