// Package router 注册全部 HTTP 路由，handler 以闭包形式挂在各自文件中。
package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"airstore/internal/config"
	"airstore/internal/gateway"
	"airstore/internal/middleware"
	"airstore/internal/queue"
	"airstore/internal/store"
)

// Deps 汇总 handler 依赖，避免 Setup 形参无限膨胀。
type Deps struct {
	DB      *gorm.DB
	RDB     *rd.Client
	Gateway *gateway.Client
	Outbox  *queue.Outbox
	Cfg     config.AppConfig

	// Now 可注入的时钟，测试里固定时间用；为空时取 time.Now。
	Now func() time.Time
}

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// Setup 注册全部 HTTP 路由。
func Setup(r *gin.Engine, deps Deps) {
	products := store.NewProductStore(deps.DB)
	coupons := store.NewCouponStore(deps.DB)
	orders := store.NewOrderStore(deps.DB)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "ok"})
	})

	// 商品
	r.GET("/api/products", listProducts(products))
	r.GET("/api/products/:slug", getProduct(products))
	r.POST("/api/admin/products", createProduct(products, deps.Cfg.AdminToken))

	// 优惠码校验（只读，不消耗用量）
	r.POST("/api/coupons/validate", validateCoupon(coupons, &deps))

	// 结算：下单 → 网关支付（站外）→ 验签 / 失败上报
	rateLimit := middleware.RedisRateLimit(deps.RDB, deps.Cfg.CheckoutRateLimit, deps.Cfg.CheckoutRateWindow)
	r.POST("/api/checkout/create-order", rateLimit, createOrder(products, coupons, orders, &deps))
	r.POST("/api/checkout/verify-payment", rateLimit, verifyPayment(coupons, orders, &deps))
	r.POST("/api/checkout/payment-failed", paymentFailed(orders, &deps))

	// 订单状态查询（支付完成页轮询用）
	r.GET("/api/orders/:id", getOrder(orders))
}
