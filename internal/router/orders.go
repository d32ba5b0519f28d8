package router

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"airstore/internal/store"
)

// getOrder 按本地订单号查询状态，供支付完成页轮询。
func getOrder(orders *store.OrderStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.Param("id")
		id, err := strconv.ParseUint(idStr, 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"code": 400, "msg": "invalid order id"})
			return
		}

		o, err := orders.GetByID(c.Request.Context(), uint(id))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"code": 500, "msg": err.Error()})
			return
		}
		if o == nil {
			c.JSON(http.StatusNotFound, gin.H{"code": 404, "msg": "order not found"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
			"order_id":        o.ID,
			"status":          o.Status,
			"product_name":    o.ProductName,
			"quantity":        o.Quantity,
			"base_amount":     o.BaseAmount,
			"discount_amount": o.DiscountAmount,
			"amount":          o.Amount,
			"currency":        o.Currency,
			"coupon_code":     o.CouponCode,
			"created_at":      o.CreatedAt,
		}})
	}
}
