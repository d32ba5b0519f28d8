package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DiscountType 优惠方式：固定金额或按比例。
type DiscountType string

const (
	DiscountFixed      DiscountType = "fixed"
	DiscountPercentage DiscountType = "percentage"
)

// Coupon 优惠码。Code 统一大写存储，查询前先归一化。
type Coupon struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Code         string       `gorm:"size:64;uniqueIndex;not null" json:"code"`
	Name         string       `gorm:"size:128" json:"name"`
	DiscountType DiscountType `gorm:"size:16;not null" json:"discount_type"`
	// DiscountValue：fixed 时为派萨金额，percentage 时为 0–100 的百分比。
	DiscountValue decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	// MinOrderAmount / MaxDiscountAmount 单位派萨，0 表示未设置。
	MinOrderAmount    int64     `gorm:"not null;default:0" json:"min_order_amount"`
	MaxDiscountAmount int64     `gorm:"not null;default:0" json:"max_discount_amount"`
	IsActive          bool      `gorm:"not null;default:true" json:"is_active"`
	ValidFrom         time.Time `gorm:"not null" json:"valid_from"`
	ValidUntil        time.Time `gorm:"not null" json:"valid_until"`
	// UsageLimit 0 表示不限次。UsageCount 只增不减，由支付成功路径原子递增。
	UsageLimit int `gorm:"not null;default:0" json:"usage_limit"`
	UsageCount int `gorm:"not null;default:0" json:"usage_count"`
}

func (Coupon) TableName() string { return "coupons" }
