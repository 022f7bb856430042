package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/kamaudevs/sokoapi/models"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

func (r *GormProductRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *GormProductRepository) CreateBatch(ctx context.Context, products []*models.Product) error {
	return r.db.WithContext(ctx).Create(products).Error
}

func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Preload("Categories").First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindActiveForUpdate locks the product row for the duration of the enclosing
// transaction. Concurrent orders against the same product serialize here.
func (r *GormProductRepository) FindActiveForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ? AND is_active = ?", id, true).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) FindForUpdate(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormProductRepository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *GormProductRepository) List(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("Categories").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) ListActiveByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID, offset, limit int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Distinct("products.*").
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id IN ? AND products.is_active = ?", categoryIDs, true)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Order("products.created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

func (r *GormProductRepository) AveragePriceByCategoryIDs(ctx context.Context, categoryIDs []uuid.UUID) (decimal.Decimal, int64, error) {
	type aggregate struct {
		AvgPrice decimal.NullDecimal
		Total    int64
	}
	var agg aggregate

	matched := r.db.Model(&models.Product{}).
		Distinct("products.id, products.price").
		Joins("JOIN product_categories pc ON pc.product_id = products.id").
		Where("pc.category_id IN ? AND products.is_active = ?", categoryIDs, true)

	err := r.db.WithContext(ctx).
		Table("(?) AS matched", matched).
		Select("AVG(matched.price) AS avg_price, COUNT(*) AS total").
		Scan(&agg).Error
	if err != nil {
		return decimal.Zero, 0, err
	}

	if !agg.AvgPrice.Valid {
		return decimal.Zero, 0, nil
	}
	return agg.AvgPrice.Decimal, agg.Total, nil
}
