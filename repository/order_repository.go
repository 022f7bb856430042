package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kamaudevs/sokoapi/models"
)

// GormOrderRepository implements OrderRepository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

func (r *GormOrderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Create(order).Error
}

func (r *GormOrderRepository) CreateItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *GormOrderRepository) Save(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(order).Error
}

func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		Preload("Customer").
		First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormOrderRepository) FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ? AND customer_id = ?", id, customerID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListByCustomerID pages newest-first through a customer's order history.
// It fetches limit+1 rows to learn whether older orders remain. Ordering is
// (created_at, id) descending so orders sharing a timestamp page correctly.
func (r *GormOrderRepository) ListByCustomerID(ctx context.Context, customerID uuid.UUID, before time.Time, beforeID uuid.UUID, limit int) ([]models.Order, bool, error) {
	var orders []models.Order

	query := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID)
	if !before.IsZero() {
		query = query.Where("created_at < ? OR (created_at = ? AND id < ?)", before, before, beforeID)
	}

	if err := query.
		Order("created_at DESC, id DESC").
		Limit(limit + 1).
		Find(&orders).Error; err != nil {
		return nil, false, err
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}
	return orders, hasMore, nil
}
