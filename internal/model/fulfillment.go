package model

import "time"

// Fulfillment 发货工单：消费者收到 payment_success 事件后物化一行，
// OrderID 唯一索引保证事件重投不会产生重复工单。
type Fulfillment struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID         uint   `gorm:"uniqueIndex;not null" json:"order_id"`
	ProductName     string `gorm:"size:128;not null" json:"product_name"`
	Quantity        int    `gorm:"not null;default:1" json:"quantity"`
	ShippingAddress string `gorm:"size:512" json:"shipping_address"`
	Status          string `gorm:"size:16;not null;default:'pending'" json:"status"`
}

func (Fulfillment) TableName() string { return "fulfillments" }
