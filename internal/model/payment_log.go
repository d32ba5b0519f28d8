package model

import "time"

// 支付审计事件类型。
const (
	EventPaymentSuccess   = "payment_success"
	EventPaymentFailed    = "payment_failed"
	EventPaymentCancelled = "payment_cancelled"
)

// PaymentLog 支付审计流水，只追加不更新，本服务从不回读。
type PaymentLog struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`

	OrderID      uint   `gorm:"not null;index" json:"order_id"`
	EventType    string `gorm:"size:32;not null" json:"event_type"`
	ErrorMessage string `gorm:"size:512" json:"error_message,omitempty"`
	// EventData 序列化后的 JSON（网关单号、签名、失败原因等），便于事后取证。
	EventData string `gorm:"type:text" json:"event_data,omitempty"`
}

func (PaymentLog) TableName() string { return "payment_logs" }
