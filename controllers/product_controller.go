package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/common/pagination"
	"github.com/kamaudevs/sokoapi/services"
)

// ProductRequest is the product create body
type ProductRequest struct {
	Name          string          `json:"name" binding:"required"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price" binding:"required"`
	SKU           string          `json:"sku" binding:"required"`
	StockQuantity int             `json:"stock_quantity"`
	CategoryIDs   []uuid.UUID     `json:"category_ids"`
}

func (r ProductRequest) toInput() services.ProductInput {
	return services.ProductInput{
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		SKU:           r.SKU,
		StockQuantity: r.StockQuantity,
		CategoryIDs:   r.CategoryIDs,
	}
}

type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// ListProducts returns active products, page-number paginated
func (ctl *ProductController) ListProducts(c *gin.Context) {
	page := pagination.FromQuery(c)
	products, total, err := ctl.catalog.ListProducts(c, page.Offset(), page.Size)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(c, page, total, products))
}

// CreateProduct registers a new product
func (ctl *ProductController) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	product, err := ctl.catalog.CreateProduct(c, req.toInput())
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

// BulkCreateProducts registers a batch of products in one request
func (ctl *ProductController) BulkCreateProducts(c *gin.Context) {
	var reqs []ProductRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		bindError(c, err)
		return
	}
	if len(reqs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expected a list of products"})
		return
	}

	inputs := make([]services.ProductInput, 0, len(reqs))
	for _, req := range reqs {
		inputs = append(inputs, req.toInput())
	}

	products, err := ctl.catalog.BulkCreateProducts(c, inputs)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, products)
}
