package services

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/common/logger"
	"github.com/kamaudevs/sokoapi/models"
	"github.com/kamaudevs/sokoapi/repository"
)

// Enqueuer hands an order event to the notification queue. Enqueue failures
// are the caller's to log; they never fail the surrounding request.
type Enqueuer interface {
	Enqueue(ctx context.Context, eventType string, orderID uuid.UUID) error
}

// OrderItemInput is one requested line of a new order
type OrderItemInput struct {
	ProductID uuid.UUID
	Quantity  int
}

// OrderService owns the order placement and cancellation workflow
type OrderService struct {
	store repository.Store
	queue Enqueuer
}

func NewOrderService(store repository.Store, queue Enqueuer) *OrderService {
	return &OrderService{store: store, queue: queue}
}

// CreateOrder validates the requested items and persists the order, its items
// and the stock decrements in one all-or-nothing transaction. On success the
// notification event is enqueued best-effort: a queue failure is logged and
// does not roll back the committed order.
func (s *OrderService) CreateOrder(ctx context.Context, customerID uuid.UUID, notes string, items []OrderItemInput) (*models.Order, error) {
	if len(items) == 0 {
		return nil, apperrors.New(http.StatusBadRequest, "At least one item is required", nil)
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.New(http.StatusBadRequest, "Item quantity must be greater than zero", nil)
		}
	}

	var order *models.Order
	create := func(st repository.Store) error {
		o := &models.Order{
			ID:          uuid.New(),
			OrderNumber: newOrderNumber(),
			CustomerID:  customerID,
			Status:      models.OrderStatusPending,
			Notes:       notes,
		}
		if err := st.Orders().Create(ctx, o); err != nil {
			return err
		}

		// Items are processed in input order; the first shortfall aborts
		// the whole transaction.
		for _, in := range items {
			product, err := st.Products().FindActiveForUpdate(ctx, in.ProductID)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrProductNotFound
			}
			if err != nil {
				return err
			}

			if product.StockQuantity < in.Quantity {
				return &apperrors.InsufficientStockError{
					ProductName: product.Name,
					Available:   product.StockQuantity,
				}
			}

			item := models.OrderItem{
				ID:        uuid.New(),
				OrderID:   o.ID,
				ProductID: product.ID,
				Quantity:  in.Quantity,
				UnitPrice: product.Price,
			}
			if err := st.Orders().CreateItem(ctx, &item); err != nil {
				return err
			}

			product.StockQuantity -= in.Quantity
			if err := st.Products().Save(ctx, product); err != nil {
				return err
			}

			o.Items = append(o.Items, item)
		}

		o.TotalAmount = o.CalculateTotal()
		if err := st.Orders().Save(ctx, o); err != nil {
			return err
		}

		order = o
		return nil
	}

	err := s.store.Atomic(ctx, create)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Random order-number collision. Retry once with fresh entropy; a
		// second collision is not credible.
		err = s.store.Atomic(ctx, create)
	}
	if err != nil {
		return nil, err
	}

	if err := s.queue.Enqueue(ctx, models.EventOrderCreated, order.ID); err != nil {
		logger.Warn(ctx, "Failed to queue order notification",
			zap.String("order_id", order.ID.String()),
			zap.Error(err),
		)
	} else {
		logger.Info(ctx, "Notification queued",
			zap.String("order_id", order.ID.String()),
			zap.String("order_number", order.OrderNumber),
		)
	}

	return order, nil
}

// CancelOrder sets the order to cancelled and restocks every item, using the
// same per-item sequential update discipline as creation. The recorded total
// is left untouched as a historical record.
func (s *OrderService) CancelOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	var cancelled *models.Order

	err := s.store.Atomic(ctx, func(st repository.Store) error {
		order, err := st.Orders().FindByIDAndCustomerID(ctx, orderID, customerID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrOrderNotFound
		}
		if err != nil {
			return err
		}

		if !order.Cancellable() {
			return apperrors.ErrInvalidStateTransition
		}

		order.Status = models.OrderStatusCancelled
		if err := st.Orders().Save(ctx, order); err != nil {
			return err
		}

		for i := range order.Items {
			item := &order.Items[i]
			product, err := st.Products().FindForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			product.StockQuantity += item.Quantity
			if err := st.Products().Save(ctx, product); err != nil {
				return err
			}
		}

		cancelled = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return cancelled, nil
}

// GetOrders pages through the customer's order history, newest first
func (s *OrderService) GetOrders(ctx context.Context, customerID uuid.UUID, before time.Time, beforeID uuid.UUID, limit int) ([]models.Order, bool, error) {
	return s.store.Orders().ListByCustomerID(ctx, customerID, before, beforeID, limit)
}

// GetOrder fetches one of the customer's orders
func (s *OrderService) GetOrder(ctx context.Context, customerID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.store.Orders().FindByIDAndCustomerID(ctx, orderID, customerID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return order, nil
}

// newOrderNumber generates a human-referenceable order number: a fixed prefix
// plus 8 uppercase hex characters. Uniqueness is backed by the database
// constraint; CreateOrder retries once on a collision.
func newOrderNumber() string {
	u := uuid.New()
	return "ORD-" + strings.ToUpper(hex.EncodeToString(u[:4]))
}
