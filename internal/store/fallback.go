package store

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mycardscz/mycards-server/internal/order"
)

// ErrSavedLocally reports that an order could not reach the remote API and
// was captured locally instead. The order is safe; callers surface it as a
// warning, not a failure.
var ErrSavedLocally = errors.New("store: remote unavailable, order saved locally")

// FallbackStore fronts the remote API with the local database. Writes prefer
// remote and degrade to local; reads prefer remote and silently fall back;
// admin mutations go straight to the local store, which the legacy API cannot
// express.
type FallbackStore struct {
	remote *RemoteStore
	local  *LocalStore
}

// NewFallbackStore combines the remote client with the local database.
func NewFallbackStore(remote *RemoteStore, local *LocalStore) *FallbackStore {
	return &FallbackStore{remote: remote, local: local}
}

// Save pushes the order to the remote API and mirrors it locally so the admin
// panel can mutate it. If the remote call fails the order is stranded locally
// and ErrSavedLocally is returned.
func (s *FallbackStore) Save(ctx context.Context, o order.Order) error {
	if err := s.remote.Save(ctx, o); err != nil {
		log.WithError(err).Warnf("order %s: remote save failed, falling back to local", o.ID)
		if errLocal := s.local.SaveStranded(ctx, o); errLocal != nil {
			return errLocal
		}
		return ErrSavedLocally
	}
	if err := s.local.Save(ctx, o); err != nil && !errors.Is(err, ErrDuplicateID) {
		// Remote has the order; a local mirror failure must not fail checkout.
		log.WithError(err).Warnf("order %s: local mirror failed", o.ID)
	}
	return nil
}

// List reads from the remote API, falling back to local reads when the remote
// is unreachable. Remote rows are overlaid with local admin state (status,
// soft deletes) which the legacy API never sees.
func (s *FallbackStore) List(ctx context.Context) ([]order.Order, error) {
	remote, err := s.remote.List(ctx)
	if err != nil {
		log.WithError(err).Warn("remote list failed, serving local orders")
		return s.local.List(ctx)
	}

	local, errLocal := s.local.List(ctx)
	if errLocal != nil {
		log.WithError(errLocal).Warn("local overlay unavailable, serving remote orders as-is")
		return remote, nil
	}

	overlay := make(map[string]order.Order, len(local))
	for _, o := range local {
		overlay[o.ID] = o
	}

	merged := make([]order.Order, 0, len(remote)+len(local))
	seen := make(map[string]bool, len(remote))
	for _, o := range remote {
		if lo, ok := overlay[o.ID]; ok {
			o.Status = lo.Status
			o.DeletedAt = lo.DeletedAt
		}
		merged = append(merged, o)
		seen[o.ID] = true
	}
	// Stranded orders exist only locally until the flusher catches up.
	for _, o := range local {
		if !seen[o.ID] {
			merged = append(merged, o)
		}
	}
	return merged, nil
}

// Get reads a single order, preferring the local copy which carries admin
// state.
func (s *FallbackStore) Get(ctx context.Context, id string) (order.Order, error) {
	o, err := s.local.Get(ctx, id)
	if err == nil {
		return o, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return order.Order{}, err
	}

	remote, errRemote := s.remote.List(ctx)
	if errRemote != nil {
		return order.Order{}, ErrNotFound
	}
	for _, ro := range remote {
		if ro.ID == id {
			return ro, nil
		}
	}
	return order.Order{}, ErrNotFound
}

// UpdateStatus records the transition locally. If the order only exists
// remotely it is mirrored first.
func (s *FallbackStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	if err := s.ensureLocal(ctx, id); err != nil {
		return err
	}
	return s.local.UpdateStatus(ctx, id, status)
}

// SoftDelete records the deletion locally. If the order only exists remotely
// it is mirrored first.
func (s *FallbackStore) SoftDelete(ctx context.Context, id string, at time.Time) error {
	if err := s.ensureLocal(ctx, id); err != nil {
		return err
	}
	return s.local.SoftDelete(ctx, id, at)
}

func (s *FallbackStore) ensureLocal(ctx context.Context, id string) error {
	_, err := s.local.Get(ctx, id)
	if err == nil {
		return nil
	}
	if !errors.Is(err, ErrNotFound) {
		return err
	}

	remote, errRemote := s.remote.List(ctx)
	if errRemote != nil {
		return ErrNotFound
	}
	for _, ro := range remote {
		if ro.ID == id {
			return s.local.Upsert(ctx, ro)
		}
	}
	return ErrNotFound
}

var _ Store = (*FallbackStore)(nil)
var _ Store = (*LocalStore)(nil)
