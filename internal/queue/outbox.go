package queue

import (
	"context"
	"strconv"

	rd "github.com/redis/go-redis/v9"
)

// Outbox 支付事件先落 Redis Stream，再由 Relay 异步转 Kafka。
// handler 同步路径只付一次 XADD 的代价，Kafka 抖动不拖慢结算请求。
type Outbox struct {
	rdb    *rd.Client
	stream string
}

func NewOutbox(rdb *rd.Client, stream string) *Outbox {
	return &Outbox{rdb: rdb, stream: stream}
}

// Append 追加一条支付事件。调用方对错误只记日志不回滚：
// 事件流是事后扇出，订单与审计流水才是支付事实的权威记录。
func (o *Outbox) Append(ctx context.Context, ev PaymentEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	return o.rdb.XAdd(ctx, &rd.XAddArgs{
		Stream: o.stream,
		Values: map[string]interface{}{
			"event_id":            ev.EventID,
			"order_id":            strconv.FormatUint(uint64(ev.OrderID), 10),
			"event_type":          ev.EventType,
			"amount":              strconv.FormatInt(ev.Amount, 10),
			"quantity":            strconv.Itoa(ev.Quantity),
			"product_name":        ev.ProductName,
			"coupon_code":         ev.CouponCode,
			"razorpay_order_id":   ev.RazorpayOrderID,
			"razorpay_payment_id": ev.RazorpayPaymentID,
			"shipping_address":    ev.ShippingAddress,
			"reason":              ev.Reason,
		},
	}).Err()
}
