package queue

import (
	"fmt"

	"airstore/internal/model"
)

// PaymentEvent 是写入 outbox / Kafka 的支付结果事件。
// EventID 全链路唯一，作为消息 key 与消费端幂等标识。
type PaymentEvent struct {
	EventID           string `json:"event_id"`
	OrderID           uint   `json:"order_id"`
	EventType         string `json:"event_type"`
	Amount            int64  `json:"amount"` // 派萨
	Quantity          int    `json:"quantity"`
	ProductName       string `json:"product_name"`
	CouponCode        string `json:"coupon_code,omitempty"`
	RazorpayOrderID   string `json:"razorpay_order_id,omitempty"`
	RazorpayPaymentID string `json:"razorpay_payment_id,omitempty"`
	ShippingAddress   string `json:"shipping_address,omitempty"`
	Reason            string `json:"reason,omitempty"`
}

// Validate 做最小字段校验，防止消费者处理脏消息。
func (e PaymentEvent) Validate() error {
	if e.EventID == "" {
		return fmt.Errorf("event_id is required")
	}
	if e.OrderID == 0 {
		return fmt.Errorf("order_id is required")
	}
	switch e.EventType {
	case model.EventPaymentSuccess, model.EventPaymentFailed, model.EventPaymentCancelled:
	default:
		return fmt.Errorf("unknown event_type %q", e.EventType)
	}
	return nil
}
