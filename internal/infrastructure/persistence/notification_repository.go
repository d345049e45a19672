package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/storefront/backend/internal/domain/notification"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormNotificationRepository implements notification.NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a new GormNotificationRepository
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// Create inserts the notification and assigns its ID
func (r *GormNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	m := models.NotificationModelFromDomain(n)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	n.ID = m.ID
	n.CreatedAt = m.CreatedAt
	return nil
}

// FindByID finds a notification by its ID
func (r *GormNotificationRepository) FindByID(ctx context.Context, id uint) (*notification.Notification, error) {
	var m models.NotificationModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notification.ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification %d: %w", id, err)
	}
	return m.ToDomain(), nil
}

// ListForEmail returns the newest notifications targeted at email
func (r *GormNotificationRepository) ListForEmail(ctx context.Context, email string, limit int) ([]notification.Notification, error) {
	if limit <= 0 || limit > notification.DefaultListLimit {
		limit = notification.DefaultListLimit
	}

	var rows []models.NotificationModel
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	result := make([]notification.Notification, len(rows))
	for i := range rows {
		result[i] = *rows[i].ToDomain()
	}
	return result, nil
}

// UpdateRead stores the read flag
func (r *GormNotificationRepository) UpdateRead(ctx context.Context, id uint, read bool) error {
	result := r.db.WithContext(ctx).Model(&models.NotificationModel{}).
		Where("id = ?", id).
		Update("read", read)
	if result.Error != nil {
		return fmt.Errorf("failed to update notification %d: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

var _ notification.NotificationRepository = (*GormNotificationRepository)(nil)
