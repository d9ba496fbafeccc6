// Package session keeps wizard progress server-side so a shopper can resume
// a half-built deck. Orders never live here; checkout moves them to the order
// store and clears the session.
package session

import (
	"context"
	"errors"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/deck"
	"github.com/mycardscz/mycards-server/internal/order"
)

// ErrNotFound is returned when a session id has no saved state.
var ErrNotFound = errors.New("session: not found")

// State is the full wizard snapshot for one shopper.
type State struct {
	Step         int               `json:"step"`
	GameType     catalog.GameType  `json:"gameType"`
	CardStyle    catalog.CardStyle `json:"cardStyle"`
	Deck         []deck.CardConfig `json:"deck"`
	BackConfig   deck.BackConfig   `json:"backConfig"`
	OrderDetails order.Customer    `json:"orderDetails"`
}

// Store saves and restores wizard state by session id.
type Store interface {
	// Load returns the saved state, or ErrNotFound.
	Load(ctx context.Context, id string) (State, error)
	// Save overwrites the state for a session.
	Save(ctx context.Context, id string, state State) error
	// Clear removes the session. Clearing an absent session is not an error.
	Clear(ctx context.Context, id string) error
}
