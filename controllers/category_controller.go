package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/common/pagination"
	"github.com/kamaudevs/sokoapi/services"
)

// CategoryRequest is the category create body
type CategoryRequest struct {
	Name     string     `json:"name" binding:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
}

type CategoryController struct {
	catalog *services.CatalogService
}

func NewCategoryController(catalog *services.CatalogService) *CategoryController {
	return &CategoryController{catalog: catalog}
}

// ListCategories returns categories, page-number paginated
func (ctl *CategoryController) ListCategories(c *gin.Context) {
	page := pagination.FromQuery(c)
	categories, total, err := ctl.catalog.ListCategories(c, page.Offset(), page.Size)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(c, page, total, categories))
}

// CreateCategory registers a new category, optionally under a parent
func (ctl *CategoryController) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	category, err := ctl.catalog.CreateCategory(c, req.Name, req.ParentID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// ProductsInCategory lists products in the category and all its descendants
func (ctl *CategoryController) ProductsInCategory(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}

	page := pagination.FromQuery(c)
	products, total, err := ctl.catalog.ProductsInCategory(c, categoryID, page.Offset(), page.Size)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, pagination.NewEnvelope(c, page, total, products))
}

// AveragePrice aggregates product prices over the category subtree
func (ctl *CategoryController) AveragePrice(c *gin.Context) {
	categoryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID format"})
		return
	}

	report, err := ctl.catalog.AveragePrice(c, categoryID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
