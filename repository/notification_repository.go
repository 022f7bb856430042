package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kamaudevs/sokoapi/models"
)

// GormNotificationRepository implements NotificationRepository using GORM
type GormNotificationRepository struct {
	db *gorm.DB
}

func (r *GormNotificationRepository) CreateLog(ctx context.Context, log *models.NotificationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}
