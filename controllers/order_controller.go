package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/common/pagination"
	"github.com/kamaudevs/sokoapi/middleware"
	"github.com/kamaudevs/sokoapi/services"
)

// CreateOrderRequest is the order placement body
type CreateOrderRequest struct {
	Notes string `json:"notes"`
	Items []struct {
		ProductID uuid.UUID `json:"product_id" binding:"required"`
		Quantity  int       `json:"quantity" binding:"required,min=1"`
	} `json:"items" binding:"required,min=1,dive"`
}

type OrderController struct {
	orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{orders: orders}
}

// CreateOrder places a new order for the authenticated customer
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	items := make([]services.OrderItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, services.OrderItemInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}

	order, err := ctl.orders.CreateOrder(c, customerID, req.Notes, items)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// CancelOrder cancels one of the customer's orders and restocks its items
func (ctl *OrderController) CancelOrder(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	order, err := ctl.orders.CancelOrder(c, customerID, orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"order":   order,
	})
}

// GetOrders pages through the customer's order history, newest first
func (ctl *OrderController) GetOrders(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	cursor := pagination.CursorFromQuery(c)
	orders, hasMore, err := ctl.orders.GetOrders(c, customerID, cursor.Before, cursor.BeforeID, cursor.Size)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	var oldest time.Time
	var oldestID uuid.UUID
	if len(orders) > 0 {
		last := orders[len(orders)-1]
		oldest = last.CreatedAt
		oldestID = last.ID
	}
	c.JSON(http.StatusOK, pagination.NewCursorEnvelope(c, cursor, oldest, oldestID, hasMore, orders))
}

// GetOrderByID fetches one of the customer's orders
func (ctl *OrderController) GetOrderByID(c *gin.Context) {
	customerID, err := middleware.CustomerID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID format"})
		return
	}

	order, err := ctl.orders.GetOrder(c, customerID, orderID)
	if err != nil {
		apperrors.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
