package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mycardscz/mycards-server/internal/catalog"
	"github.com/mycardscz/mycards-server/internal/models"
	"github.com/mycardscz/mycards-server/internal/order"
)

// LocalStore persists orders in the service's own database. It backs the
// admin mutations and catches orders the remote API could not take.
type LocalStore struct {
	db *gorm.DB
}

// NewLocalStore wraps a GORM connection.
func NewLocalStore(db *gorm.DB) *LocalStore {
	return &LocalStore{db: db}
}

// Save inserts an order row. Duplicate ids surface as ErrDuplicateID.
func (s *LocalStore) Save(ctx context.Context, o order.Order) error {
	return s.save(ctx, o, false)
}

// SaveStranded inserts an order that failed to reach the remote API, marking
// it for the background flusher.
func (s *LocalStore) SaveStranded(ctx context.Context, o order.Order) error {
	return s.save(ctx, o, true)
}

func (s *LocalStore) save(ctx context.Context, o order.Order, localOnly bool) error {
	row, err := toRow(o)
	if err != nil {
		return err
	}
	row.LocalOnly = localOnly

	if errCreate := s.db.WithContext(ctx).Create(&row).Error; errCreate != nil {
		if errors.Is(errCreate, gorm.ErrDuplicatedKey) || isUniqueViolation(errCreate) {
			return ErrDuplicateID
		}
		return fmt.Errorf("store: local save: %w", errCreate)
	}
	return nil
}

// List returns all orders, newest first.
func (s *LocalStore) List(ctx context.Context) ([]order.Order, error) {
	var rows []models.Order
	if err := s.db.WithContext(ctx).Order("date DESC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: local list: %w", err)
	}
	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		o, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// Get returns a single order by id.
func (s *LocalStore) Get(ctx context.Context, id string) (order.Order, error) {
	var row models.Order
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return order.Order{}, ErrNotFound
		}
		return order.Order{}, fmt.Errorf("store: local get: %w", err)
	}
	return fromRow(&row)
}

// UpdateStatus transitions an order to a new status.
func (s *LocalStore) UpdateStatus(ctx context.Context, id string, status order.Status) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", string(status))
	if res.Error != nil {
		return fmt.Errorf("store: update status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete stamps the deletion time and flips the status to deleted. Already
// deleted orders keep their original timestamp.
func (s *LocalStore) SoftDelete(ctx context.Context, id string, at time.Time) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND deleted_at IS NULL", id).
		Updates(map[string]any{
			"status":     string(order.StatusDeleted),
			"deleted_at": at.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("store: soft delete: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return fmt.Errorf("store: soft delete: %w", err)
		}
		if count == 0 {
			return ErrNotFound
		}
	}
	return nil
}

// Stranded returns orders waiting to be flushed to the remote API.
func (s *LocalStore) Stranded(ctx context.Context, limit int) ([]order.Order, error) {
	var rows []models.Order
	q := s.db.WithContext(ctx).Where("local_only = ?", true).Order("date ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("store: list stranded: %w", err)
	}
	orders := make([]order.Order, 0, len(rows))
	for i := range rows {
		o, err := fromRow(&rows[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// MarkFlushed clears the local-only flag after a successful remote push.
func (s *LocalStore) MarkFlushed(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("local_only", false)
	if res.Error != nil {
		return fmt.Errorf("store: mark flushed: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts or refreshes a row from a remote read. Admin-owned columns
// (status, deleted_at) are left alone for rows that already exist.
func (s *LocalStore) Upsert(ctx context.Context, o order.Order) error {
	row, err := toRow(o)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"customer", "deck", "back_config", "total_price"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("store: upsert: %w", err)
	}
	return nil
}

func toRow(o order.Order) (models.Order, error) {
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return models.Order{}, fmt.Errorf("store: marshal customer: %w", err)
	}
	deckData, err := json.Marshal(o.Deck)
	if err != nil {
		return models.Order{}, fmt.Errorf("store: marshal deck: %w", err)
	}
	back, err := json.Marshal(o.BackConfig)
	if err != nil {
		return models.Order{}, fmt.Errorf("store: marshal back config: %w", err)
	}
	return models.Order{
		ID:         o.ID,
		Date:       o.Date.UTC(),
		GameType:   string(o.GameType),
		CardStyle:  string(o.CardStyle),
		Customer:   customer,
		Deck:       deckData,
		BackConfig: back,
		TotalPrice: o.TotalPrice,
		Status:     string(o.Status),
		DeletedAt:  o.DeletedAt,
	}, nil
}

func fromRow(row *models.Order) (order.Order, error) {
	o := order.Order{
		ID:         row.ID,
		Date:       row.Date.UTC(),
		GameType:   catalog.GameType(row.GameType),
		CardStyle:  catalog.CardStyle(row.CardStyle),
		TotalPrice: row.TotalPrice,
		Status:     order.Status(row.Status),
		DeletedAt:  row.DeletedAt,
	}
	if len(row.Customer) > 0 {
		if err := json.Unmarshal(row.Customer, &o.Customer); err != nil {
			return order.Order{}, fmt.Errorf("store: decode customer for %s: %w", row.ID, err)
		}
	}
	if len(row.Deck) > 0 {
		if err := json.Unmarshal(row.Deck, &o.Deck); err != nil {
			return order.Order{}, fmt.Errorf("store: decode deck for %s: %w", row.ID, err)
		}
	}
	if len(row.BackConfig) > 0 {
		if err := json.Unmarshal(row.BackConfig, &o.BackConfig); err != nil {
			return order.Order{}, fmt.Errorf("store: decode back config for %s: %w", row.ID, err)
		}
	}
	return o, nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate")
}
