package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/kamaudevs/sokoapi/models"
)

// GormOAuthClientRepository implements OAuthClientRepository using GORM
type GormOAuthClientRepository struct {
	db *gorm.DB
}

func (r *GormOAuthClientRepository) Create(ctx context.Context, client *models.OAuthClient) error {
	return r.db.WithContext(ctx).Create(client).Error
}

func (r *GormOAuthClientRepository) FindByClientID(ctx context.Context, clientID string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := r.db.WithContext(ctx).First(&client, "client_id = ?", clientID).Error; err != nil {
		return nil, err
	}
	return &client, nil
}
