// Package coupon 实现优惠码折扣的纯校验逻辑，不做任何 I/O；
// 持久化（用量递增等）由调用方在校验通过后自行处理。
package coupon

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"airstore/internal/model"
)

// Result 校验结果。Valid 为 false 时 Message 给出面向用户的原因。
type Result struct {
	Valid    bool
	Discount int64 // 派萨，已做上限裁剪
	Message  string
}

var oneHundred = decimal.NewFromInt(100)

// Validate 按固定顺序逐项校验，任一失败立即短路：
// 存在性 → 启用 → 生效时间 → 过期时间 → 最低订单金额 → 用量上限。
// 时间窗两端均为闭区间。
func Validate(c *model.Coupon, orderAmount int64, now time.Time) Result {
	if c == nil {
		return Result{Message: "coupon not found"}
	}
	if !c.IsActive {
		return Result{Message: "coupon is not active"}
	}
	if now.Before(c.ValidFrom) {
		return Result{Message: "coupon is not valid yet"}
	}
	if now.After(c.ValidUntil) {
		return Result{Message: "coupon has expired"}
	}
	if c.MinOrderAmount > 0 && orderAmount < c.MinOrderAmount {
		return Result{Message: fmt.Sprintf("minimum order amount is %d", c.MinOrderAmount)}
	}
	if c.UsageLimit > 0 && c.UsageCount >= c.UsageLimit {
		return Result{Message: "coupon usage limit reached"}
	}

	return Result{Valid: true, Discount: computeDiscount(c, orderAmount)}
}

// computeDiscount 计算折扣金额（派萨）：
// fixed 直接取面值；percentage 按比例计算后四舍五入，再受 MaxDiscountAmount 封顶。
// 未知类型视为脏数据，折扣为 0，不把面值当固定金额放出去。
// 最终折扣不超过订单金额，保证实付款不为负。
func computeDiscount(c *model.Coupon, orderAmount int64) int64 {
	var discount int64
	switch c.DiscountType {
	case model.DiscountPercentage:
		discount = decimal.NewFromInt(orderAmount).
			Mul(c.DiscountValue).
			Div(oneHundred).
			Round(0).
			IntPart()
		if c.MaxDiscountAmount > 0 && discount > c.MaxDiscountAmount {
			discount = c.MaxDiscountAmount
		}
	case model.DiscountFixed:
		discount = c.DiscountValue.Round(0).IntPart()
	default:
		return 0
	}

	if discount > orderAmount {
		discount = orderAmount
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}
