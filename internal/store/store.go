// Package store persists assembled orders. The primary backend is the legacy
// remote order API; a local GORM database serves as fallback and as the system
// of record for admin mutations, which the legacy API does not support.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/mycardscz/mycards-server/internal/order"
)

// Sentinel errors shared by all store implementations.
var (
	// ErrNotFound is returned when an order id does not exist.
	ErrNotFound = errors.New("store: order not found")
	// ErrDuplicateID is returned when saving an order whose id already exists.
	ErrDuplicateID = errors.New("store: duplicate order id")
	// ErrRemoteRejected reports that the legacy API processed a request and
	// refused it, as opposed to a transport failure where delivery is unknown.
	ErrRemoteRejected = errors.New("store: remote rejected order")
)

// Store is the read/write surface used by checkout and the admin panel.
type Store interface {
	// Save persists a freshly assembled order.
	Save(ctx context.Context, o order.Order) error
	// List returns all orders, newest first.
	List(ctx context.Context) ([]order.Order, error)
	// Get returns a single order by id.
	Get(ctx context.Context, id string) (order.Order, error)
	// UpdateStatus transitions an order to a new status.
	UpdateStatus(ctx context.Context, id string, status order.Status) error
	// SoftDelete marks an order deleted at the given time.
	SoftDelete(ctx context.Context, id string, at time.Time) error
}
