package models

import "time"

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Order and OrderItem are part of the schema but no endpoint reads or
// writes them yet. The seed utility clears them when resetting the catalog.
type Order struct {
	ID            string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID        string        `gorm:"type:varchar(36);not null;index" json:"userId"`
	Items         []OrderItem   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	TotalAmount   float64       `gorm:"type:decimal(10,2)" json:"totalAmount"`
	Status        OrderStatus   `gorm:"type:varchar(20);default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending'" json:"paymentStatus"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

type OrderItem struct {
	ID        string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	OrderID   string  `gorm:"type:varchar(36);not null;index" json:"orderId"`
	ProductID string  `gorm:"type:varchar(36);not null" json:"productId"`
	Price     float64 `gorm:"type:decimal(10,2)" json:"price"`
	Quantity  int     `json:"quantity"`
}
