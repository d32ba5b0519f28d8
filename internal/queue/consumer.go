package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/segmentio/kafka-go"
	"gorm.io/gorm"

	"airstore/internal/model"
	"airstore/internal/store"
)

// Consumer 消费支付事件：payment_success 物化为发货工单，其余类型忽略。
type Consumer struct {
	r            *kafka.Reader
	fulfillments *store.FulfillmentStore
}

func NewConsumer(brokers []string, topic, groupID string, db *gorm.DB) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:  brokers,
			Topic:    topic,
			GroupID:  groupID,
			MinBytes: 1e3,
			MaxBytes: 1e6,
		}),
		fulfillments: store.NewFulfillmentStore(db),
	}
}

func (c *Consumer) Close() error { return c.r.Close() }

func (c *Consumer) Run(ctx context.Context) {
	for {
		m, err := c.r.ReadMessage(ctx)
		if err != nil {
			return // ctx cancel / 连接断开等
		}

		var ev PaymentEvent
		if err := json.Unmarshal(m.Value, &ev); err != nil {
			log.Printf("consumer unmarshal: %v", err)
			continue
		}

		if err := c.Apply(ctx, ev); err != nil {
			log.Printf("consumer apply event=%s: %v", ev.EventID, err)
			continue
		}
	}
}

// Apply 处理单条事件。重投由 CreateOnce 的唯一约束吸收，无需去重表。
func (c *Consumer) Apply(ctx context.Context, ev PaymentEvent) error {
	if err := ev.Validate(); err != nil {
		return err
	}
	if ev.EventType != model.EventPaymentSuccess {
		// 失败/取消事件不产生发货动作，留给下游告警系统消费。
		return nil
	}

	created, err := c.fulfillments.CreateOnce(ctx, &model.Fulfillment{
		OrderID:         ev.OrderID,
		ProductName:     ev.ProductName,
		Quantity:        ev.Quantity,
		ShippingAddress: ev.ShippingAddress,
		Status:          "pending",
	})
	if err != nil {
		return err
	}
	if !created {
		log.Printf("consumer duplicate event order_id=%d, fulfillment exists", ev.OrderID)
	}
	return nil
}
