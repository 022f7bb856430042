package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kamaudevs/sokoapi/models"
)

// CustomerRepository defines data access for customers
type CustomerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
	FindByUsername(ctx context.Context, username string) (*models.Customer, error)
	Save(ctx context.Context, customer *models.Customer) error
}

// CategoryRepository defines data access for categories
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	List(ctx context.Context, offset, limit int) ([]models.Category, int64, error)
}

// ProductRepository defines data access for products
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	CreateBatch(ctx context.Context, products []*models.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindActiveForUpdate fetches an active product, taking a row lock when
	// the underlying store supports one. Must run inside Atomic.
	FindActiveForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	// FindForUpdate is the same row-locked fetch without the active filter;
	// restocking must reach products that were deactivated after sale.
	FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Save(ctx context.Context, product *models.Product) error
	List(ctx context.Context, offset, limit int) ([]models.Product, int64, error)
	ListActiveByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID, offset, limit int) ([]models.Product, int64, error)
	// AveragePriceByCategoryIDs aggregates AVG(price) and COUNT over active
	// products in any of the given categories. avg is zero when no products
	// match.
	AveragePriceByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) (avg decimal.Decimal, count int64, err error)
}

// OrderRepository defines data access for orders and their items
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	CreateItem(ctx context.Context, item *models.OrderItem) error
	Save(ctx context.Context, order *models.Order) error
	// FindByID loads the order with its items and customer
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	FindByIDAndCustomerID(ctx context.Context, id, customerID uuid.UUID) (*models.Order, error)
	// ListByCustomerID returns up to limit orders created strictly before
	// the cursor (all orders when before is zero), newest first, and whether
	// older orders remain. beforeID breaks ties among orders sharing the
	// cursor timestamp.
	ListByCustomerID(ctx context.Context, customerID uuid.UUID, before time.Time, beforeID uuid.UUID, limit int) (orders []models.Order, hasMore bool, err error)
}

// OAuthClientRepository defines data access for registered OAuth clients
type OAuthClientRepository interface {
	Create(ctx context.Context, client *models.OAuthClient) error
	FindByClientID(ctx context.Context, clientID string) (*models.OAuthClient, error)
}

// NotificationRepository records delivery attempts
type NotificationRepository interface {
	CreateLog(ctx context.Context, log *models.NotificationLog) error
}

// Store aggregates the repositories behind one transactional boundary.
// Atomic runs fn against a store bound to a single database transaction;
// any error from fn rolls the whole transaction back.
type Store interface {
	Customers() CustomerRepository
	Categories() CategoryRepository
	Products() ProductRepository
	Orders() OrderRepository
	OAuthClients() OAuthClientRepository
	Notifications() NotificationRepository
	Atomic(ctx context.Context, fn func(Store) error) error
}
