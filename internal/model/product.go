package model

import (
	"time"

	"gorm.io/gorm"
)

// Product 商城商品：名称、slug、售价（派萨）、是否上架
type Product struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name        string `gorm:"size:128;not null" json:"name"`
	Slug        string `gorm:"size:128;uniqueIndex;not null" json:"slug"`
	Description string `gorm:"size:2048" json:"description"`
	// Price 单位：派萨（INR 最小货币单位），与网关口径一致，避免浮点。
	Price     int64 `gorm:"not null" json:"price"`
	Published bool  `gorm:"not null;default:false;index" json:"published"`
}

func (Product) TableName() string { return "products" }
