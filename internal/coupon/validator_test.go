package coupon

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"airstore/internal/model"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func percentCoupon(value float64) *model.Coupon {
	return &model.Coupon{
		Code:          "SAVE10",
		DiscountType:  model.DiscountPercentage,
		DiscountValue: decimal.NewFromFloat(value),
		IsActive:      true,
		ValidFrom:     now.Add(-24 * time.Hour),
		ValidUntil:    now.Add(24 * time.Hour),
		UsageLimit:    100,
		UsageCount:    0,
	}
}

func TestValidatePercentage(t *testing.T) {
	res := Validate(percentCoupon(10), 2000, now)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	if res.Discount != 200 {
		t.Fatalf("discount = %d, want 200", res.Discount)
	}
}

func TestValidatePercentageCapped(t *testing.T) {
	c := percentCoupon(10)
	c.MaxDiscountAmount = 150
	res := Validate(c, 2000, now)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	if res.Discount != 150 {
		t.Fatalf("discount = %d, want 150 (capped)", res.Discount)
	}
}

func TestValidatePercentageRounding(t *testing.T) {
	// 12.5% of 999 = 124.875 → 125
	c := percentCoupon(12.5)
	res := Validate(c, 999, now)
	if !res.Valid || res.Discount != 125 {
		t.Fatalf("got valid=%v discount=%d, want 125", res.Valid, res.Discount)
	}
}

func TestValidateFixedClampedToOrderAmount(t *testing.T) {
	c := percentCoupon(0)
	c.DiscountType = model.DiscountFixed
	c.DiscountValue = decimal.NewFromInt(500)

	res := Validate(c, 300, now)
	if !res.Valid || res.Discount != 300 {
		t.Fatalf("got valid=%v discount=%d, want discount clamped to 300", res.Valid, res.Discount)
	}

	res = Validate(c, 2000, now)
	if !res.Valid || res.Discount != 500 {
		t.Fatalf("got valid=%v discount=%d, want 500", res.Valid, res.Discount)
	}
}

func TestValidateExpired(t *testing.T) {
	c := percentCoupon(10)
	c.ValidUntil = now.Add(-time.Hour)
	res := Validate(c, 2000, now)
	if res.Valid {
		t.Fatal("expected invalid for expired coupon")
	}
	if !strings.Contains(res.Message, "expired") {
		t.Fatalf("message = %q, want expiration hint", res.Message)
	}
}

func TestValidateNotYetValid(t *testing.T) {
	c := percentCoupon(10)
	c.ValidFrom = now.Add(time.Hour)
	if res := Validate(c, 2000, now); res.Valid {
		t.Fatal("expected invalid before valid_from")
	}
}

func TestValidateWindowInclusive(t *testing.T) {
	c := percentCoupon(10)
	c.ValidFrom = now
	c.ValidUntil = now
	if res := Validate(c, 2000, now); !res.Valid {
		t.Fatalf("window boundaries are inclusive, got %q", res.Message)
	}
}

func TestValidateInactive(t *testing.T) {
	c := percentCoupon(10)
	c.IsActive = false
	if res := Validate(c, 2000, now); res.Valid {
		t.Fatal("expected invalid for inactive coupon")
	}
}

func TestValidateNil(t *testing.T) {
	res := Validate(nil, 2000, now)
	if res.Valid {
		t.Fatal("expected invalid for nil coupon")
	}
	if !strings.Contains(res.Message, "not found") {
		t.Fatalf("message = %q, want not found", res.Message)
	}
}

func TestValidateMinOrderAmount(t *testing.T) {
	c := percentCoupon(10)
	c.MinOrderAmount = 1000
	res := Validate(c, 500, now)
	if res.Valid {
		t.Fatal("expected invalid below min order amount")
	}
	if !strings.Contains(res.Message, "1000") {
		t.Fatalf("message = %q, want it to name the minimum", res.Message)
	}
	if res = Validate(c, 1000, now); !res.Valid {
		t.Fatalf("exact minimum should pass, got %q", res.Message)
	}
}

func TestValidateUsageLimit(t *testing.T) {
	c := percentCoupon(10)
	c.UsageLimit = 3
	c.UsageCount = 3
	res := Validate(c, 2000, now)
	if res.Valid {
		t.Fatal("expected invalid once usage_count >= usage_limit")
	}
	if !strings.Contains(res.Message, "limit") {
		t.Fatalf("message = %q, want usage limit hint", res.Message)
	}

	c.UsageCount = 2
	if res = Validate(c, 2000, now); !res.Valid {
		t.Fatalf("one use left should pass, got %q", res.Message)
	}
}

func TestValidateUnknownDiscountType(t *testing.T) {
	// 类型字段脏数据时不得把面值当固定金额放出去
	c := percentCoupon(0)
	c.DiscountType = "cashback"
	c.DiscountValue = decimal.NewFromInt(500)
	res := Validate(c, 2000, now)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	if res.Discount != 0 {
		t.Fatalf("discount = %d, unknown type must grant nothing", res.Discount)
	}
}

func TestValidateDiscountNeverExceedsOrder(t *testing.T) {
	// 200% 的配置错误也不能把实付款打成负数
	c := percentCoupon(200)
	res := Validate(c, 1000, now)
	if !res.Valid {
		t.Fatalf("expected valid, got %q", res.Message)
	}
	if res.Discount != 1000 {
		t.Fatalf("discount = %d, want clamped to 1000", res.Discount)
	}
}
