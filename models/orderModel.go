package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is one of the known order statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPreparing, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Order is one placed cart line. A checkout creates one Order per line item.
type Order struct {
	ID          string                          `json:"id" gorm:"primaryKey;size:36"`
	UserID      string                          `json:"userId" gorm:"index"`
	ItemID      string                          `json:"itemId" gorm:"size:36;index"`
	Quantity    int                             `json:"quantity"`
	Ingredients datatypes.JSONSlice[Ingredient] `json:"ingredients"`
	Price       decimal.Decimal                 `json:"price" gorm:"type:decimal(10,2)"`
	TotalPrice  decimal.Decimal                 `json:"totalPrice" gorm:"type:decimal(10,2)"`
	Status      OrderStatus                     `json:"status" gorm:"size:20;index"`
	CreatedAt   time.Time                       `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                       `json:"updatedAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.Status == "" {
		o.Status = OrderStatusPending
	}
	return nil
}

func (o *Order) GetID() string { return o.ID }
