// Package order assembles completed wizard sessions into immutable order
// records and owns the order status lifecycle.
package order

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math"
	"time"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
)

// Status is the admin-managed processing state of an order.
type Status string

// Order statuses.
const (
	StatusNew        Status = "new"
	StatusProcessing Status = "processing"
	StatusIssue      Status = "issue"
	StatusDone       Status = "done"
	StatusCancelled  Status = "cancelled"
	StatusDeleted    Status = "deleted"
)

// IsKnownStatus reports whether a status is one of the defined states.
func IsKnownStatus(s Status) bool {
	switch s {
	case StatusNew, StatusProcessing, StatusIssue, StatusDone, StatusCancelled, StatusDeleted:
		return true
	}
	return false
}

// Delivery methods and their surcharges in CZK.
const (
	DeliveryZasilkovna = "zasilkovna"
	DeliveryPPL        = "ppl"

	// BasePrice is the fixed price of one printed deck in CZK.
	BasePrice = 499

	zasilkovnaSurcharge = 79
	pplSurcharge        = 99
)

// PurgeWindowDays is the grace window before a soft-deleted order is meant
// to be purged. The purge itself is not implemented.
const PurgeWindowDays = 8

// Customer holds the checkout form snapshot.
type Customer struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Street         string `json:"street"`
	City           string `json:"city"`
	Zip            string `json:"zip"`
	DeliveryMethod string `json:"deliveryMethod"`
	PaymentMethod  string `json:"paymentMethod"`
	Note           string `json:"note"`
}

// Order is an immutable snapshot of a completed configuration. After
// creation only Status and DeletedAt are ever mutated, by the admin.
type Order struct {
	ID         string            `json:"id"`
	Date       time.Time         `json:"date"`
	Customer   Customer          `json:"customer"`
	GameType   catalog.GameType  `json:"gameType"`
	CardStyle  catalog.CardStyle `json:"cardStyle"`
	Deck       []deck.CardConfig `json:"deck"`
	BackConfig deck.BackConfig   `json:"backConfig"`
	TotalPrice int               `json:"totalPrice"`
	Status     Status            `json:"status"`
	DeletedAt  *time.Time        `json:"deletedAt,omitempty"`
}

// DeliverySurcharge returns the surcharge for a delivery method. Unknown
// methods price as the courier tier, matching the storefront's two-button
// choice where anything that is not the pickup-point option is the courier.
func DeliverySurcharge(method string) int {
	if method == DeliveryZasilkovna {
		return zasilkovnaSurcharge
	}
	return pplSurcharge
}

// TotalPrice computes the order total: fixed base price plus the delivery
// surcharge. Deck contents never affect the price.
func TotalPrice(deliveryMethod string) int {
	return BasePrice + DeliverySurcharge(deliveryMethod)
}

// NewID mints an order id with the legacy ORD- prefix. The number is drawn
// from crypto/rand; uniqueness is still enforced by the store's unique
// constraint rather than assumed here.
func NewID() string {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// time-derived number rather than returning an error to callers.
		return fmt.Sprintf("ORD-%09d", time.Now().UnixNano()%1_000_000_000)
	}
	n := binary.BigEndian.Uint64(buf[:]) % 1_000_000_000
	return fmt.Sprintf("ORD-%09d", n)
}

// Assemble snapshots a resolved deck, back design and checkout form into an
// order record. Persistence is the caller's concern; on persistence failure
// the wizard must not transition to its completed state.
func Assemble(cards []deck.CardConfig, back deck.BackConfig, gameType catalog.GameType, style catalog.CardStyle, customer Customer, now time.Time) Order {
	snapshot := make([]deck.CardConfig, len(cards))
	copy(snapshot, cards)
	return Order{
		ID:         NewID(),
		Date:       now.UTC(),
		Customer:   customer,
		GameType:   gameType,
		CardStyle:  style,
		Deck:       snapshot,
		BackConfig: back,
		TotalPrice: TotalPrice(customer.DeliveryMethod),
		Status:     StatusNew,
	}
}

// PurgeCountdownDays returns how many whole days remain of the soft-delete
// grace window, rounded up and never negative.
func PurgeCountdownDays(deletedAt time.Time, now time.Time) int {
	deadline := deletedAt.Add(PurgeWindowDays * 24 * time.Hour)
	remaining := deadline.Sub(now)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(remaining.Hours() / 24))
}
