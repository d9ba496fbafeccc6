package order

import (
	"strings"
	"testing"
	"time"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
)

func TestTotalPrice(t *testing.T) {
	t.Parallel()

	if got := TotalPrice(DeliveryZasilkovna); got != 578 {
		t.Fatalf("zasilkovna total = %d, want 578", got)
	}
	if got := TotalPrice(DeliveryPPL); got != 598 {
		t.Fatalf("ppl total = %d, want 598", got)
	}
	// Anything that is not the pickup point prices as courier.
	if got := TotalPrice(""); got != 598 {
		t.Fatalf("unknown delivery total = %d, want 598", got)
	}
}

func TestAssemble_Snapshot(t *testing.T) {
	t.Parallel()

	cards := []deck.CardConfig{
		{ID: "card-1", Suit: catalog.Hearts, Rank: catalog.Seven, GameType: catalog.MariasSingle},
	}
	customer := Customer{FirstName: "Jana", LastName: "Novotná", DeliveryMethod: DeliveryZasilkovna}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	o := Assemble(cards, deck.NewBackConfig(), catalog.MariasSingle, catalog.BackOnly, customer, now)

	if !strings.HasPrefix(o.ID, "ORD-") {
		t.Fatalf("id %q missing ORD- prefix", o.ID)
	}
	if !o.Date.Equal(now) {
		t.Fatalf("date = %v, want %v", o.Date, now)
	}
	if o.Status != StatusNew {
		t.Fatalf("status = %q, want %q", o.Status, StatusNew)
	}
	if o.TotalPrice != 578 {
		t.Fatalf("total = %d, want 578", o.TotalPrice)
	}
	if o.DeletedAt != nil {
		t.Fatal("fresh order has a deletion timestamp")
	}

	// The deck is snapshotted, not aliased.
	cards[0].CustomText = "changed after assembly"
	if o.Deck[0].CustomText != "" {
		t.Fatal("order deck aliases the caller's slice")
	}
}

func TestNewID_ShapeAndSpread(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if len(id) != len("ORD-")+9 {
			t.Fatalf("id %q has unexpected length", id)
		}
		seen[id] = true
	}
	if len(seen) < 99 {
		t.Fatalf("ids barely vary: %d distinct of 100", len(seen))
	}
}

func TestPurgeCountdownDays(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	// Deleted three days ago: five days of the eight-day window remain.
	if got := PurgeCountdownDays(now.AddDate(0, 0, -3), now); got != 5 {
		t.Fatalf("countdown after 3 days = %d, want 5", got)
	}
	// Partial days round up.
	if got := PurgeCountdownDays(now.Add(-61*time.Hour), now); got != 6 {
		t.Fatalf("countdown after 61h = %d, want 6", got)
	}
	// Fully elapsed windows clamp at zero, never negative.
	if got := PurgeCountdownDays(now.AddDate(0, 0, -8), now); got != 0 {
		t.Fatalf("countdown after 8 days = %d, want 0", got)
	}
	if got := PurgeCountdownDays(now.AddDate(0, 0, -30), now); got != 0 {
		t.Fatalf("countdown after 30 days = %d, want 0", got)
	}
}

func TestIsKnownStatus(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusNew, StatusProcessing, StatusIssue, StatusDone, StatusCancelled, StatusDeleted} {
		if !IsKnownStatus(s) {
			t.Fatalf("status %q should be known", s)
		}
	}
	if IsKnownStatus("shipped") {
		t.Fatal("status shipped should be unknown")
	}
}
