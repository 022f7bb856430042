package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

type Order struct {
	ID          uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber string          `json:"order_number" gorm:"uniqueIndex;not null"`
	CustomerID  uuid.UUID       `json:"customer_id" gorm:"type:uuid;not null;index"`
	Customer    *Customer       `json:"-" gorm:"foreignKey:CustomerID"`
	Status      string          `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount decimal.Decimal `json:"total_amount" gorm:"type:numeric(10,2);not null;default:0"`
	Notes       string          `json:"notes"`
	Items       []OrderItem     `json:"items" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time       `json:"created_at" gorm:"autoCreateTime;index"`
	UpdatedAt   time.Time       `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt   gorm.DeletedAt  `json:"-" gorm:"index"`
}

// Cancellable reports whether the order may transition to cancelled
func (o *Order) Cancellable() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}

// CalculateTotal sums item subtotals. The total is always derived, never
// edited independently.
func (o *Order) CalculateTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range o.Items {
		total = total.Add(o.Items[i].Subtotal())
	}
	return total
}

// OrderItem snapshots the product's price at purchase time; UnitPrice is
// immutable after creation and decoupled from later Product.Price drift.
type OrderItem struct {
	ID        uuid.UUID       `json:"id" gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID       `json:"-" gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `json:"product_id" gorm:"type:uuid;not null"`
	Product   *Product        `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity  int             `json:"quantity" gorm:"not null"`
	UnitPrice decimal.Decimal `json:"unit_price" gorm:"type:numeric(10,2);not null"`
}

// Subtotal is computed, not stored
func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
