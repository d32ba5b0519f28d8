package model

import (
	"time"

	"gorm.io/gorm"
)

// OrderStatus 订单状态机：created → paid / failed，两个终态不再流转。
type OrderStatus string

const (
	OrderCreated OrderStatus = "created"
	OrderPaid    OrderStatus = "paid"
	OrderFailed  OrderStatus = "failed"
)

// Order 本地订单，与网关侧订单通过 RazorpayOrderID 关联。
// 不变量：Amount = max(0, BaseAmount - DiscountAmount)，金额单位派萨。
type Order struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ProductID   uint   `gorm:"not null;index" json:"product_id"`
	ProductName string `gorm:"size:128;not null" json:"product_name"`
	Quantity    int    `gorm:"not null;default:1" json:"quantity"`

	BaseAmount     int64  `gorm:"not null" json:"base_amount"`
	DiscountAmount int64  `gorm:"not null;default:0" json:"discount_amount"`
	Amount         int64  `gorm:"not null" json:"amount"`
	CouponCode     string `gorm:"size:64" json:"coupon_code,omitempty"`
	Currency       string `gorm:"size:8;not null;default:'INR'" json:"currency"`

	Status OrderStatus `gorm:"size:16;not null;default:'created';index" json:"status"`

	// Receipt 是发给网关的人类可读回执号，同时充当幂等回放句柄。
	Receipt           string `gorm:"size:64;uniqueIndex;not null" json:"receipt"`
	RazorpayOrderID   string `gorm:"size:64;index" json:"razorpay_order_id"`
	RazorpayPaymentID string `gorm:"size:64" json:"razorpay_payment_id,omitempty"`
	RazorpaySignature string `gorm:"size:128" json:"-"`

	UserEmail       string `gorm:"size:128" json:"user_email,omitempty"`
	UserName        string `gorm:"size:128" json:"user_name,omitempty"`
	UserPhone       string `gorm:"size:32" json:"user_phone,omitempty"`
	ShippingAddress string `gorm:"size:512" json:"shipping_address,omitempty"`
}

func (Order) TableName() string { return "orders" }

// Customer 下单/支付时随请求带上的联系方式，非持久化结构。
type Customer struct {
	Email           string `json:"email"`
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	ShippingAddress string `json:"shipping_address"`
}
