package repository

import (
	"context"

	"gorm.io/gorm"
)

// GormStore implements Store using GORM
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new instance of GormStore
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Customers() CustomerRepository {
	return &GormCustomerRepository{db: s.db}
}

func (s *GormStore) Categories() CategoryRepository {
	return &GormCategoryRepository{db: s.db}
}

func (s *GormStore) Products() ProductRepository {
	return &GormProductRepository{db: s.db}
}

func (s *GormStore) Orders() OrderRepository {
	return &GormOrderRepository{db: s.db}
}

func (s *GormStore) OAuthClients() OAuthClientRepository {
	return &GormOAuthClientRepository{db: s.db}
}

func (s *GormStore) Notifications() NotificationRepository {
	return &GormNotificationRepository{db: s.db}
}

// Atomic runs fn inside a database transaction. Repositories obtained from
// the store passed to fn are bound to that transaction.
func (s *GormStore) Atomic(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
