package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Cart struct {
	ID        string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"userId"` // Enforces ONE cart per user
	Items     []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func (c *Cart) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// CartItem is unique per (cart, product): adding the same product again
// grows Quantity instead of inserting a second row.
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CartID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product" json:"cartId"`
	ProductID string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_product" json:"productId"`
	Product   *Product  `gorm:"constraint:OnDelete:CASCADE" json:"product,omitempty"`
	Quantity  int       `gorm:"not null;check:chk_cart_items_quantity,quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (i *CartItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}
