// Package export produces the print-shop ZIP for an order: the shared back
// followed by every card face, rendered and archived strictly one at a time.
package export

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"strings"
	"unicode"

	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/order"
	"github.com/mycardscz/mycards-server/internal/render"
)

// Exporter writes print archives for orders.
type Exporter struct {
	renderer render.Renderer
}

// NewExporter builds an exporter over a renderer.
func NewExporter(renderer render.Renderer) *Exporter {
	return &Exporter{renderer: renderer}
}

// ArchiveName is the print-shop naming convention for an order's ZIP.
func ArchiveName(o order.Order) string {
	num := strings.TrimPrefix(o.ID, "ORD-")
	short := "DECK"
	if catalog.IsKnown(o.GameType) {
		short = catalog.Variant(o.GameType).ShortCode
	}
	return fmt.Sprintf("MC%s_%s_%s_1ks.zip", num, sanitizeName(o.Customer.LastName), short)
}

// WriteZip renders the order's print assets into w. Cards are rendered and
// archived sequentially over a single render target. A card that fails to
// render is logged and skipped so one broken upload cannot sink the whole
// export; context cancellation stops the export before the next entry is
// written, leaving no partial entries.
func (e *Exporter) WriteZip(ctx context.Context, w io.Writer, o order.Order) error {
	zw := zip.NewWriter(w)

	opts := render.Options{PrintMode: true}

	if err := ctx.Err(); err != nil {
		return err
	}
	back, err := e.renderer.RenderBack(ctx, o.BackConfig, opts)
	if err != nil {
		// Without a back there is nothing to print.
		return fmt.Errorf("export: render back for %s: %w", o.ID, err)
	}
	if err := writeEntry(ctx, zw, "000_Back.png", back); err != nil {
		return err
	}

	skipped := 0
	for i, card := range o.Deck {
		if err := ctx.Err(); err != nil {
			return err
		}
		img, errRender := e.renderer.RenderFace(ctx, card, opts)
		if errRender != nil {
			skipped++
			log.WithError(errRender).Warnf("export %s: card %s failed to render, skipping", o.ID, card.ID)
			continue
		}
		name := fmt.Sprintf("%03d_%s_%s.png", i+1, card.Suit, strings.ToLower(string(card.Rank)))
		if err := writeEntry(ctx, zw, name, img); err != nil {
			return err
		}
	}

	if skipped > 0 {
		log.Warnf("export %s: %d of %d cards skipped", o.ID, skipped, len(o.Deck))
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("export: close archive for %s: %w", o.ID, err)
	}
	return nil
}

func writeEntry(ctx context.Context, zw *zip.Writer, name string, img image.Image) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry, err := zw.Create(name)
	if err != nil {
		return fmt.Errorf("export: create entry %s: %w", name, err)
	}
	if err := png.Encode(entry, img); err != nil {
		return fmt.Errorf("export: encode %s: %w", name, err)
	}
	return nil
}

// sanitizeName strips whitespace and diacritics-unsafe separators from a
// customer name so the archive name stays filesystem-friendly.
func sanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case r == '-' || r == '_':
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "zakaznik"
	}
	return b.String()
}
