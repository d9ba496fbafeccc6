package export

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"image"
	"testing"
	"time"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/order"
	"github.com/mycardscz/mycards-server/internal/render"
)

// stubRenderer renders flat rectangles and can fail selected cards.
type stubRenderer struct {
	failIDs  map[string]bool
	failBack bool
	rendered []string
}

func (r *stubRenderer) RenderFace(_ context.Context, card deck.CardConfig, _ render.Options) (image.Image, error) {
	if r.failIDs[card.ID] {
		return nil, errors.New("broken upload")
	}
	r.rendered = append(r.rendered, card.ID)
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func (r *stubRenderer) RenderBack(_ context.Context, _ deck.BackConfig, _ render.Options) (image.Image, error) {
	if r.failBack {
		return nil, errors.New("broken back")
	}
	r.rendered = append(r.rendered, "back")
	return image.NewRGBA(image.Rect(0, 0, 4, 4)), nil
}

func testExportOrder() order.Order {
	return order.Order{
		ID:       "ORD-000000500",
		Date:     time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
		GameType: catalog.MariasSingle,
		Customer: order.Customer{FirstName: "Jan", LastName: "Novák"},
		Deck: []deck.CardConfig{
			{ID: "card-1", Suit: catalog.Hearts, Rank: catalog.Seven},
			{ID: "card-2", Suit: catalog.Hearts, Rank: catalog.Eight},
			{ID: "card-3", Suit: catalog.Spades, Rank: catalog.King},
		},
		BackConfig: deck.NewBackConfig(),
	}
}

func zipNames(t *testing.T, buf *bytes.Buffer) []string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	names := make([]string, 0, len(zr.File))
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	return names
}

func TestWriteZip_NamesAndOrder(t *testing.T) {
	t.Parallel()

	r := &stubRenderer{}
	e := NewExporter(r)
	var buf bytes.Buffer

	if err := e.WriteZip(context.Background(), &buf, testExportOrder()); err != nil {
		t.Fatalf("export: %v", err)
	}

	names := zipNames(t, &buf)
	want := []string{"000_Back.png", "001_hearts_7.png", "002_hearts_8.png", "003_spades_k.png"}
	if len(names) != len(want) {
		t.Fatalf("entries = %v", names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("entry %d = %q, want %q", i, names[i], want[i])
		}
	}

	// Back renders first, then faces in deck order, strictly sequentially.
	if r.rendered[0] != "back" {
		t.Fatalf("render order = %v", r.rendered)
	}
}

func TestWriteZip_SkipsFailedCards(t *testing.T) {
	t.Parallel()

	r := &stubRenderer{failIDs: map[string]bool{"card-2": true}}
	e := NewExporter(r)
	var buf bytes.Buffer

	if err := e.WriteZip(context.Background(), &buf, testExportOrder()); err != nil {
		t.Fatalf("export: %v", err)
	}

	names := zipNames(t, &buf)
	for _, name := range names {
		if name == "002_hearts_8.png" {
			t.Fatal("failed card still archived")
		}
	}
	// The failure keeps original indexes for the surviving cards.
	if names[len(names)-1] != "003_spades_k.png" {
		t.Fatalf("entries = %v", names)
	}
}

func TestWriteZip_BackFailureAborts(t *testing.T) {
	t.Parallel()

	e := NewExporter(&stubRenderer{failBack: true})
	var buf bytes.Buffer
	if err := e.WriteZip(context.Background(), &buf, testExportOrder()); err == nil {
		t.Fatal("export succeeded without a back")
	}
}

func TestWriteZip_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := NewExporter(&stubRenderer{})
	var buf bytes.Buffer
	if err := e.WriteZip(ctx, &buf, testExportOrder()); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("cancelled export wrote %d bytes", buf.Len())
	}
}

func TestArchiveName(t *testing.T) {
	t.Parallel()

	o := testExportOrder()
	if got := ArchiveName(o); got != "MC000000500_Novák_M1H_1ks.zip" {
		t.Fatalf("archive name = %q", got)
	}

	o.Customer.LastName = "van der Berg!"
	if got := ArchiveName(o); got != "MC000000500_vanderBerg_M1H_1ks.zip" {
		t.Fatalf("sanitized name = %q", got)
	}

	o.Customer.LastName = "   "
	if got := ArchiveName(o); got != "MC000000500_zakaznik_M1H_1ks.zip" {
		t.Fatalf("empty name fallback = %q", got)
	}
}
