package models

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrMissingName      = errors.New("name is required")
	ErrMissingType      = errors.New("item type is required")
	ErrNegativePrice    = errors.New("price must not be negative")
	ErrNegativeQuantity = errors.New("quantity must not be negative")
)

// Ingredient describes one ingredient of a menu item and how much of it is available.
type Ingredient struct {
	Name     string `json:"name" yaml:"name"`
	Quantity string `json:"quantity" yaml:"quantity"`
}

type Item struct {
	ID          string                          `json:"id" gorm:"primaryKey;size:36"`
	Name        string                          `json:"name" gorm:"not null"`
	Type        string                          `json:"type" gorm:"size:36;index"`
	Price       decimal.Decimal                 `json:"price" gorm:"type:decimal(10,2);not null"`
	ImgURL      string                          `json:"imgUrl"`
	Quantity    int                             `json:"quantity" gorm:"not null;default:0"`
	Ingredients datatypes.JSONSlice[Ingredient] `json:"ingredients"`
	Description string                          `json:"description"`
	CreatedAt   time.Time                       `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                       `json:"updatedAt"`
}

func (i *Item) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (i *Item) GetID() string { return i.ID }

// InStock reports whether the item can still be added to a cart.
func (i *Item) InStock() bool { return i.Quantity > 0 }

// Validate checks the fields an admin must provide when creating an item.
func (i *Item) Validate() error {
	if strings.TrimSpace(i.Name) == "" {
		return ErrMissingName
	}
	if strings.TrimSpace(i.Type) == "" {
		return ErrMissingType
	}
	if i.Price.IsNegative() {
		return ErrNegativePrice
	}
	if i.Quantity < 0 {
		return ErrNegativeQuantity
	}
	return nil
}

// FindIngredient returns the ingredient descriptor with the given name.
func (i *Item) FindIngredient(name string) (Ingredient, bool) {
	for _, ing := range i.Ingredients {
		if ing.Name == name {
			return ing, true
		}
	}
	return Ingredient{}, false
}
