package services

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apperrors "github.com/kamaudevs/sokoapi/common/errors"
	"github.com/kamaudevs/sokoapi/models"
)

type recordingEnqueuer struct {
	events []uuid.UUID
	err    error
}

func (e *recordingEnqueuer) Enqueue(_ context.Context, _ string, orderID uuid.UUID) error {
	if e.err != nil {
		return e.err
	}
	e.events = append(e.events, orderID)
	return nil
}

func seedProduct(f *fakeStore, name, sku string, price string, stock int) *models.Product {
	p := &models.Product{
		ID:            uuid.New(),
		Name:          name,
		SKU:           sku,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
		IsActive:      true,
	}
	f.products[p.ID] = p
	return p
}

func seedCustomer(f *fakeStore, username string) *models.Customer {
	c := &models.Customer{
		ID:       uuid.New(),
		Username: username,
		Email:    username + "@example.com",
	}
	f.customers[c.ID] = c
	return c
}

func TestCreateOrder_DecrementsStockAndComputesTotal(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "10.99", 100)

	queue := &recordingEnqueuer{}
	svc := NewOrderService(store, queue)

	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 2},
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.True(t, order.TotalAmount.Equal(decimal.RequireFromString("21.98")),
		"total %s", order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.True(t, order.Items[0].UnitPrice.Equal(product.Price))

	assert.Equal(t, 98, store.products[product.ID].StockQuantity)
	assert.Equal(t, []uuid.UUID{order.ID}, queue.events)
}

func TestCreateOrder_OrderNumberFormat(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "10.99", 10)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^ORD-[0-9A-F]{8}$`), order.OrderNumber)
}

func TestCreateOrder_InsufficientStockRollsBackEverything(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	plenty := seedProduct(store, "Bread", "BRD-001", "5.00", 100)
	scarce := seedProduct(store, "Milk", "MLK-001", "3.00", 1)

	queue := &recordingEnqueuer{}
	svc := NewOrderService(store, queue)

	_, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: plenty.ID, Quantity: 10},
		{ProductID: scarce.ID, Quantity: 5},
	})
	require.Error(t, err)

	var stockErr *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Milk", stockErr.ProductName)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, "Insufficient stock for Milk. Available: 1", stockErr.Error())

	// nothing committed: stock untouched, no order rows, nothing queued
	assert.Equal(t, 100, store.products[plenty.ID].StockQuantity)
	assert.Equal(t, 1, store.products[scarce.ID].StockQuantity)
	assert.Empty(t, store.orders)
	assert.Empty(t, store.orderItems)
	assert.Empty(t, queue.events)
}

func TestCreateOrder_UnknownProduct(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")

	svc := NewOrderService(store, &recordingEnqueuer{})
	_, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: uuid.New(), Quantity: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestCreateOrder_InactiveProductRejected(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 10)
	product.IsActive = false

	svc := NewOrderService(store, &recordingEnqueuer{})
	_, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	assert.ErrorIs(t, err, apperrors.ErrProductNotFound)
}

func TestCreateOrder_ValidatesItems(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 10)

	svc := NewOrderService(store, &recordingEnqueuer{})

	_, err := svc.CreateOrder(context.Background(), customer.ID, "", nil)
	require.Error(t, err)

	_, err = svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 0},
	})
	require.Error(t, err)
	assert.Equal(t, 10, store.products[product.ID].StockQuantity)
}

func TestCreateOrder_RetriesOnceOnOrderNumberCollision(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 10)
	store.queueOrderCreateErrs(gorm.ErrDuplicatedKey)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.NotNil(t, store.orders[order.ID])
	assert.Equal(t, 9, store.products[product.ID].StockQuantity)
}

func TestCreateOrder_SecondCollisionFails(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 10)
	store.queueOrderCreateErrs(gorm.ErrDuplicatedKey, gorm.ErrDuplicatedKey)

	svc := NewOrderService(store, &recordingEnqueuer{})
	_, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	assert.Equal(t, 10, store.products[product.ID].StockQuantity)
}

func TestCreateOrder_EnqueueFailureDoesNotFailOrder(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 10)

	svc := NewOrderService(store, &recordingEnqueuer{err: errors.New("broker down")})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)
	assert.NotNil(t, store.orders[order.ID])
	assert.Equal(t, 9, store.products[product.ID].StockQuantity)
}

func TestCancelOrder_RestocksEveryItem(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 5},
	})
	require.NoError(t, err)
	require.Equal(t, 95, store.products[product.ID].StockQuantity)

	total := order.TotalAmount

	cancelled, err := svc.CancelOrder(context.Background(), customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, 100, store.products[product.ID].StockQuantity)
	assert.True(t, cancelled.TotalAmount.Equal(total), "total is a historical record")
}

func TestCancelOrder_RestocksDeactivatedProduct(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 5},
	})
	require.NoError(t, err)

	store.products[product.ID].IsActive = false

	_, err = svc.CancelOrder(context.Background(), customer.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, store.products[product.ID].StockQuantity)
}

func TestCancelOrder_RejectedAfterShipping(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 5},
	})
	require.NoError(t, err)

	store.orders[order.ID].Status = models.OrderStatusShipped

	_, err = svc.CancelOrder(context.Background(), customer.ID, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrInvalidStateTransition)
	assert.Equal(t, 95, store.products[product.ID].StockQuantity, "no restock on rejected cancel")
}

func TestCancelOrder_OtherCustomersOrderIsInvisible(t *testing.T) {
	store := newFakeStore()
	owner := seedCustomer(store, "alice")
	intruder := seedCustomer(store, "mallory")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	order, err := svc.CreateOrder(context.Background(), owner.ID, "", []OrderItemInput{
		{ProductID: product.ID, Quantity: 1},
	})
	require.NoError(t, err)

	_, err = svc.CancelOrder(context.Background(), intruder.ID, order.ID)
	assert.ErrorIs(t, err, apperrors.ErrOrderNotFound)
}

func TestGetOrders_NewestFirstWithCursor(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	base := time.Now()
	for i := 0; i < 3; i++ {
		order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
			{ProductID: product.ID, Quantity: 1},
		})
		require.NoError(t, err)
		store.orders[order.ID].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}

	first, hasMore, err := svc.GetOrders(context.Background(), customer.ID, time.Time{}, uuid.Nil, 2)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.True(t, hasMore)
	assert.True(t, !first[0].CreatedAt.Before(first[1].CreatedAt), "newest first")

	rest, hasMore, err := svc.GetOrders(context.Background(), customer.ID, first[1].CreatedAt, first[1].ID, 2)
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.False(t, hasMore)
	assert.True(t, rest[0].CreatedAt.Before(first[1].CreatedAt))
}

func TestGetOrders_SameTimestampOrdersAllPaged(t *testing.T) {
	store := newFakeStore()
	customer := seedCustomer(store, "alice")
	product := seedProduct(store, "Bread", "BRD-001", "5.00", 100)

	svc := NewOrderService(store, &recordingEnqueuer{})
	stamp := time.Now().Truncate(time.Second)
	for i := 0; i < 4; i++ {
		order, err := svc.CreateOrder(context.Background(), customer.ID, "", []OrderItemInput{
			{ProductID: product.ID, Quantity: 1},
		})
		require.NoError(t, err)
		store.orders[order.ID].CreatedAt = stamp
	}

	seen := make(map[uuid.UUID]bool)
	before, beforeID := time.Time{}, uuid.Nil
	for {
		page, hasMore, err := svc.GetOrders(context.Background(), customer.ID, before, beforeID, 2)
		require.NoError(t, err)
		for _, o := range page {
			assert.False(t, seen[o.ID], "order returned twice")
			seen[o.ID] = true
		}
		if !hasMore {
			break
		}
		require.NotEmpty(t, page)
		last := page[len(page)-1]
		before, beforeID = last.CreatedAt, last.ID
	}
	assert.Len(t, seen, 4)
}
