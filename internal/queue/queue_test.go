package queue

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"airstore/internal/model"
	"airstore/internal/store"
)

func newTestConsumer(t *testing.T) (*Consumer, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(&model.Fulfillment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return &Consumer{fulfillments: store.NewFulfillmentStore(db)}, db
}

func successEvent(orderID uint) PaymentEvent {
	return PaymentEvent{
		EventID:           fmt.Sprintf("evt_%d", orderID),
		OrderID:           orderID,
		EventType:         model.EventPaymentSuccess,
		Amount:            225000,
		Quantity:          2,
		ProductName:       "AirPure 300",
		RazorpayOrderID:   "order_rzp_1",
		RazorpayPaymentID: "pay_1",
		ShippingAddress:   "12 MG Road, Pune",
	}
}

func TestApplyCreatesFulfillment(t *testing.T) {
	c, db := newTestConsumer(t)
	ctx := context.Background()

	if err := c.Apply(ctx, successEvent(7)); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	var f model.Fulfillment
	if err := db.Where("order_id = ?", 7).First(&f).Error; err != nil {
		t.Fatalf("load fulfillment: %v", err)
	}
	if f.ProductName != "AirPure 300" || f.Quantity != 2 || f.Status != "pending" {
		t.Fatalf("fulfillment = %+v", f)
	}
	if f.ShippingAddress != "12 MG Road, Pune" {
		t.Fatalf("shipping_address = %q", f.ShippingAddress)
	}
}

func TestApplyDuplicateEventIsIdempotent(t *testing.T) {
	c, db := newTestConsumer(t)
	ctx := context.Background()

	ev := successEvent(8)
	if err := c.Apply(ctx, ev); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	// Kafka at-least-once：重投必须被唯一约束吸收
	if err := c.Apply(ctx, ev); err != nil {
		t.Fatalf("duplicate apply: %v", err)
	}

	var count int64
	db.Model(&model.Fulfillment{}).Where("order_id = ?", 8).Count(&count)
	if count != 1 {
		t.Fatalf("fulfillment rows = %d, want 1", count)
	}
}

func TestApplyIgnoresNonSuccessEvents(t *testing.T) {
	c, db := newTestConsumer(t)
	ctx := context.Background()

	for _, typ := range []string{model.EventPaymentFailed, model.EventPaymentCancelled} {
		ev := successEvent(9)
		ev.EventType = typ
		if err := c.Apply(ctx, ev); err != nil {
			t.Fatalf("apply %s: %v", typ, err)
		}
	}

	var count int64
	db.Model(&model.Fulfillment{}).Count(&count)
	if count != 0 {
		t.Fatalf("fulfillment rows = %d, failed/cancelled must not ship", count)
	}
}

func TestApplyRejectsInvalidEvent(t *testing.T) {
	c, _ := newTestConsumer(t)
	ev := successEvent(10)
	ev.EventID = ""
	if err := c.Apply(context.Background(), ev); err == nil {
		t.Fatal("expected validation error for missing event_id")
	}
}

func TestOutboxAppendRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := rd.NewClient(&rd.Options{Addr: mr.Addr()})
	defer rdb.Close()
	ctx := context.Background()

	out := NewOutbox(rdb, "airstore:payment_events")
	want := successEvent(42)
	want.CouponCode = "SAVE10"
	if err := out.Append(ctx, want); err != nil {
		t.Fatalf("Append: %v", err)
	}

	msgs, err := rdb.XRange(ctx, "airstore:payment_events", "-", "+").Result()
	if err != nil {
		t.Fatalf("XRange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("stream entries = %d, want 1", len(msgs))
	}

	// 写进流的字段必须能被 relay 侧原样解析回来
	got, err := parsePaymentEvent(msgs[0].Values)
	if err != nil {
		t.Fatalf("parse appended entry: %v", err)
	}
	if got != want {
		t.Fatalf("round trip:\n got  %+v\n want %+v", got, want)
	}
}

func TestOutboxAppendRejectsInvalidEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := rd.NewClient(&rd.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ev := successEvent(43)
	ev.EventType = "refund_issued"
	if err := NewOutbox(rdb, "airstore:payment_events").Append(context.Background(), ev); err == nil {
		t.Fatal("invalid event must not reach the stream")
	}
	if n, _ := rdb.XLen(context.Background(), "airstore:payment_events").Result(); n != 0 {
		t.Fatalf("stream entries = %d, want 0", n)
	}
}

func TestParsePaymentEventRoundTrip(t *testing.T) {
	values := map[string]interface{}{
		"event_id":            "evt_abc",
		"order_id":            "42",
		"event_type":          model.EventPaymentSuccess,
		"amount":              "225000",
		"quantity":            "2",
		"product_name":        "AirPure 300",
		"coupon_code":         "SAVE10",
		"razorpay_order_id":   "order_rzp_1",
		"razorpay_payment_id": "pay_1",
		"shipping_address":    "12 MG Road, Pune",
		"reason":              "",
	}

	ev, err := parsePaymentEvent(values)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ev.OrderID != 42 || ev.Amount != 225000 || ev.Quantity != 2 {
		t.Fatalf("event = %+v", ev)
	}
	if ev.CouponCode != "SAVE10" || ev.ShippingAddress != "12 MG Road, Pune" {
		t.Fatalf("event = %+v", ev)
	}
}

func TestParsePaymentEventMissingField(t *testing.T) {
	_, err := parsePaymentEvent(map[string]interface{}{
		"event_id": "evt_abc",
		"order_id": "42",
		// event_type 缺失
		"amount": "100",
	})
	if err == nil {
		t.Fatal("expected error for missing event_type")
	}
}

func TestParsePaymentEventBadOrderID(t *testing.T) {
	_, err := parsePaymentEvent(map[string]interface{}{
		"event_id":   "evt_abc",
		"order_id":   "not-a-number",
		"event_type": model.EventPaymentSuccess,
		"amount":     "100",
	})
	if err == nil {
		t.Fatal("expected error for non-numeric order_id")
	}
}

func TestPaymentEventValidate(t *testing.T) {
	ev := successEvent(1)
	if err := ev.Validate(); err != nil {
		t.Fatalf("valid event rejected: %v", err)
	}

	bad := ev
	bad.EventType = "refund_issued"
	if err := bad.Validate(); err == nil {
		t.Fatal("unknown event_type accepted")
	}

	bad = ev
	bad.OrderID = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("zero order_id accepted")
	}
}
