package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"airstore/internal/coupon"
	"airstore/internal/store"
)

// validateCoupon 只读校验：查码 → 纯函数判定 → 返回折扣。
// 用量递增在支付成功时才发生，这里重复调用不会消耗次数。
// "码不存在"与"码已失效"对外同为 400，不向试探者区分两种情况。
func validateCoupon(coupons *store.CouponStore, deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CouponCode  string `json:"coupon_code" binding:"required"`
			OrderAmount int64  `json:"order_amount" binding:"required,min=1"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "coupon_code and a positive order_amount are required"})
			return
		}

		cp, err := coupons.FindByCode(c.Request.Context(), req.CouponCode)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		res := coupon.Validate(cp, req.OrderAmount, deps.now())
		if !res.Valid {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": res.Message})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data": gin.H{
				"discount_amount": res.Discount,
				"coupon": gin.H{
					"id":             cp.ID,
					"code":           cp.Code,
					"name":           cp.Name,
					"discount_type":  cp.DiscountType,
					"discount_value": cp.DiscountValue,
				},
			},
		})
	}
}
