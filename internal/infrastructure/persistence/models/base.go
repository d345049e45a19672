// Package models holds the gorm row types and their mapping to domain types.
package models

import (
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// BaseModel is embedded by every table keyed by an auto-increment id
type BaseModel struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func baseModel(e shared.BaseEntity) BaseModel {
	return BaseModel{ID: e.ID, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt}
}

// Entity returns the identity and timestamps as the domain sees them
func (m BaseModel) Entity() shared.BaseEntity {
	return shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt}
}

// All lists the models AutoMigrate creates, parents before children
func All() []any {
	return []any{
		&ItemModel{},
		&OrderModel{},
		&OrderLineModel{},
		&TrackingEventModel{},
		&NotificationModel{},
	}
}
