package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Product struct {
	ID           string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title        string         `gorm:"not null" json:"title"`
	Description  string         `json:"description"`
	Price        float64        `gorm:"type:decimal(10,2);not null" json:"price"`
	Stock        int            `gorm:"not null;default:0;check:chk_products_stock,stock >= 0" json:"stock"`
	Published    bool           `gorm:"not null;default:false;index" json:"published"`
	Image        string         `json:"image"`
	Features     pq.StringArray `gorm:"type:text[]" json:"features"` // order matters
	CategoryID   *string        `gorm:"type:varchar(36);index" json:"categoryId"`
	Category     *Category      `gorm:"constraint:OnDelete:SET NULL" json:"-"`
	CategoryName string         `json:"categoryName"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Features == nil {
		p.Features = pq.StringArray{}
	}
	return nil
}
