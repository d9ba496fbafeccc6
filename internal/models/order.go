// Package models defines the GORM row types persisted by the local store.
package models

import (
	"time"

	"gorm.io/datatypes"
)

// Order is the persisted form of an assembled order.
type Order struct {
	ID string `gorm:"type:text;primaryKey"` // Legacy ORD-prefixed identifier.

	Date       time.Time      `gorm:"not null;index"`     // Checkout timestamp (UTC).
	GameType   string         `gorm:"type:text;not null"` // Game variant identifier.
	CardStyle  string         `gorm:"type:text;not null"` // Customization level identifier.
	Customer   datatypes.JSON `gorm:"not null"`           // Checkout form snapshot.
	Deck       datatypes.JSON `gorm:"not null"`           // Full per-card configuration array.
	BackConfig datatypes.JSON `gorm:"not null"`           // Shared back design.
	TotalPrice int            `gorm:"not null"`           // Order total in CZK.

	Status    string     `gorm:"type:text;not null;default:new;index"` // Admin-managed processing state.
	DeletedAt *time.Time `gorm:"index"`                                // Soft-delete timestamp, if deleted.

	LocalOnly bool `gorm:"not null;default:false"` // Saved locally after a remote failure; pending flush.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Row creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last mutation timestamp.
}
