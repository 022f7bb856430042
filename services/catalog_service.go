package services

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
)

// ProductInput carries a product create request
type ProductInput struct {
	Name          string
	Description   string
	Price         decimal.Decimal
	SKU           string
	StockQuantity int
	CategoryIDs   []uuid.UUID
}

// CategoryPriceReport is the aggregate returned by AveragePrice
type CategoryPriceReport struct {
	Category      string          `json:"category"`
	CategoryPath  string          `json:"category_path"`
	AveragePrice  decimal.Decimal `json:"average_price"`
	TotalProducts int64           `json:"total_products"`
}

// CatalogService owns product and category management
type CatalogService struct {
	store repository.Store
}

func NewCatalogService(store repository.Store) *CatalogService {
	return &CatalogService{store: store}
}

func (s *CatalogService) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if !input.Price.IsPositive() {
		return nil, apperrors.New(http.StatusBadRequest, "Price must be greater than zero", nil)
	}
	if input.StockQuantity < 0 {
		return nil, apperrors.New(http.StatusBadRequest, "Stock quantity cannot be negative", nil)
	}

	categories, err := s.resolveCategories(ctx, input.CategoryIDs)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Price:         input.Price,
		SKU:           input.SKU,
		StockQuantity: input.StockQuantity,
		IsActive:      true,
		Categories:    categories,
	}
	if err := s.store.Products().Create(ctx, product); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(http.StatusBadRequest, "SKU already exists", nil)
		}
		return nil, err
	}
	return product, nil
}

// BulkCreateProducts validates every product before any row is written
func (s *CatalogService) BulkCreateProducts(ctx context.Context, inputs []ProductInput) ([]*models.Product, error) {
	products := make([]*models.Product, 0, len(inputs))
	for _, input := range inputs {
		if !input.Price.IsPositive() {
			return nil, apperrors.New(http.StatusBadRequest, "Price must be greater than zero", nil)
		}
		if input.StockQuantity < 0 {
			return nil, apperrors.New(http.StatusBadRequest, "Stock quantity cannot be negative", nil)
		}
		categories, err := s.resolveCategories(ctx, input.CategoryIDs)
		if err != nil {
			return nil, err
		}
		products = append(products, &models.Product{
			ID:            uuid.New(),
			Name:          input.Name,
			Description:   input.Description,
			Price:         input.Price,
			SKU:           input.SKU,
			StockQuantity: input.StockQuantity,
			IsActive:      true,
			Categories:    categories,
		})
	}

	if err := s.store.Products().CreateBatch(ctx, products); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.New(http.StatusBadRequest, "SKU already exists", nil)
		}
		return nil, err
	}
	return products, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) ([]models.Product, int64, error) {
	return s.store.Products().List(ctx, offset, limit)
}

func (s *CatalogService) CreateCategory(ctx context.Context, name string, parentID *uuid.UUID) (*models.Category, error) {
	if parentID != nil {
		if _, err := s.store.Categories().FindByID(ctx, *parentID); err != nil {
			return nil, apperrors.New(http.StatusBadRequest, "Parent category not found", nil)
		}
	}

	category := &models.Category{
		ID:       uuid.New(),
		Name:     name,
		ParentID: parentID,
	}
	if err := s.store.Categories().Create(ctx, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context, offset, limit int) ([]models.Category, int64, error) {
	return s.store.Categories().List(ctx, offset, limit)
}

// ProductsInCategory lists active products in the category and all of its
// descendants
func (s *CatalogService) ProductsInCategory(ctx context.Context, categoryID uuid.UUID, offset, limit int) ([]models.Product, int64, error) {
	ids, _, err := s.categorySubtree(ctx, categoryID)
	if err != nil {
		return nil, 0, err
	}
	return s.store.Products().ListActiveByCategoryIDs(ctx, ids, offset, limit)
}

// AveragePrice aggregates the price of active products over a category and
// all its descendants
func (s *CatalogService) AveragePrice(ctx context.Context, categoryID uuid.UUID) (*CategoryPriceReport, error) {
	ids, all, err := s.categorySubtree(ctx, categoryID)
	if err != nil {
		return nil, err
	}

	avg, count, err := s.store.Products().AveragePriceByCategoryIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	root := all[categoryID]
	return &CategoryPriceReport{
		Category:      root.Name,
		CategoryPath:  categoryPath(all, categoryID),
		AveragePrice:  avg.Round(2),
		TotalProducts: count,
	}, nil
}

// categorySubtree returns the ids of the category and all its descendants,
// plus a lookup of every category. The walk is iterative with a visited set:
// nothing in the data model prevents a parent cycle, so the traversal breaks
// one defensively instead of recursing forever.
func (s *CatalogService) categorySubtree(ctx context.Context, rootID uuid.UUID) ([]uuid.UUID, map[uuid.UUID]models.Category, error) {
	categories, err := s.store.Categories().FindAll(ctx)
	if err != nil {
		return nil, nil, err
	}

	all := make(map[uuid.UUID]models.Category, len(categories))
	children := make(map[uuid.UUID][]uuid.UUID)
	for _, c := range categories {
		all[c.ID] = c
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	if _, ok := all[rootID]; !ok {
		return nil, nil, apperrors.ErrCategoryNotFound
	}

	visited := map[uuid.UUID]bool{rootID: true}
	ids := []uuid.UUID{rootID}
	queue := []uuid.UUID{rootID}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, childID := range children[current] {
			if visited[childID] {
				continue
			}
			visited[childID] = true
			ids = append(ids, childID)
			queue = append(queue, childID)
		}
	}

	return ids, all, nil
}

// categoryPath renders the full path from the root ancestor down to the
// category, e.g. "All Products > Bakery > Bread". A visited set guards
// against parent cycles.
func categoryPath(all map[uuid.UUID]models.Category, id uuid.UUID) string {
	var parts []string
	visited := make(map[uuid.UUID]bool)

	current, ok := all[id]
	for ok && !visited[current.ID] {
		visited[current.ID] = true
		parts = append([]string{current.Name}, parts...)
		if current.ParentID == nil {
			break
		}
		current, ok = all[*current.ParentID]
	}

	return strings.Join(parts, " > ")
}

func (s *CatalogService) resolveCategories(ctx context.Context, ids []uuid.UUID) ([]models.Category, error) {
	categories := make([]models.Category, 0, len(ids))
	for _, id := range ids {
		category, err := s.store.Categories().FindByID(ctx, id)
		if err != nil {
			return nil, apperrors.New(http.StatusBadRequest, "Category not found", nil)
		}
		categories = append(categories, *category)
	}
	return categories, nil
}
