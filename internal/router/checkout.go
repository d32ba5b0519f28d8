package router

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"airstore/internal/coupon"
	"airstore/internal/gateway"
	"airstore/internal/model"
	"airstore/internal/queue"
	"airstore/internal/store"
	rediskey "airstore/pkg/redis"
)

// createOrder 是结算入口。
// 关键流程：
// 1. 参数校验，商品必须已上架
// 2. 服务端重新校验优惠码并计算折扣（不信任客户端带来的折扣数字）
// 3. 幂等键占位（尽力而为，Redis 故障时降级为直接下单）
// 4. 网关创建远端订单
// 5. 落本地订单（status=created），返回网关订单句柄
func createOrder(products *store.ProductStore, coupons *store.CouponStore, orders *store.OrderStore, deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			ProductID      uint           `json:"product_id" binding:"required,min=1"`
			Quantity       int            `json:"quantity" binding:"omitempty,min=1"`
			CouponCode     string         `json:"coupon_code"`
			Customer       model.Customer `json:"customer"`
			IdempotencyKey string         `json:"idempotency_key"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if req.Quantity <= 0 {
			req.Quantity = 1
		}

		ctx := c.Request.Context()

		prod, err := products.GetPublishedByID(ctx, req.ProductID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if prod == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "product not found"})
			return
		}

		baseAmount := prod.Price * int64(req.Quantity)

		// 2. 优惠码按当前库里的状态重算，结果不落任何副作用
		var discount int64
		couponCode := ""
		if strings.TrimSpace(req.CouponCode) != "" {
			cp, err := coupons.FindByCode(ctx, req.CouponCode)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
			res := coupon.Validate(cp, baseAmount, deps.now())
			if !res.Valid {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": res.Message})
				return
			}
			discount = res.Discount
			couponCode = cp.Code
		}

		finalAmount := baseAmount - discount
		if finalAmount < 0 {
			finalAmount = 0
		}

		// 回执号既给网关做人类可读对账，也充当幂等回放句柄
		receipt := "rcpt_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:12]

		// 3. 幂等键占位。占位已存在则按回执号回放首单。
		if req.IdempotencyKey != "" {
			reserved, ok, rerr := rediskey.ReserveReceipt(ctx, deps.RDB, req.IdempotencyKey, receipt, deps.Cfg.IdempotencyTTL)
			switch {
			case rerr != nil:
				// Redis 故障降级：放弃幂等保护，照常下单
				log.Printf("idempotency reserve degraded: %v", rerr)
			case !ok:
				existing, gerr := orders.GetByReceipt(ctx, reserved)
				if gerr != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": gerr.Error()})
					return
				}
				if existing != nil {
					c.JSON(http.StatusOK, gin.H{
						"success":        true,
						"razorpay_order": razorpayOrderView(existing),
						"order_id":       existing.ID,
						"replayed":       true,
					})
					return
				}
				// 占位存在但订单不在库（首请求仍在途或已失败），降级为新单
			}
		}

		// 4. 网关下单。金额即派萨，无需再乘 100。
		gwOrder, err := deps.Gateway.CreateOrder(ctx, gateway.OrderRequest{
			Amount:   finalAmount,
			Currency: "INR",
			Receipt:  receipt,
			Notes: map[string]string{
				"product_id":      strconv.FormatUint(uint64(prod.ID), 10),
				"product_name":    prod.Name,
				"quantity":        strconv.Itoa(req.Quantity),
				"base_amount":     strconv.FormatInt(baseAmount, 10),
				"discount_amount": strconv.FormatInt(discount, 10),
				"coupon_code":     couponCode,
			},
		})
		if err != nil {
			log.Printf("gateway create order: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "payment gateway error"})
			return
		}

		// 5. 落本地订单。这一步失败会留下一个孤儿网关订单，不做补偿回滚。
		order := &model.Order{
			ProductID:       prod.ID,
			ProductName:     prod.Name,
			Quantity:        req.Quantity,
			BaseAmount:      baseAmount,
			DiscountAmount:  discount,
			Amount:          finalAmount,
			CouponCode:      couponCode,
			Currency:        "INR",
			Status:          model.OrderCreated,
			Receipt:         receipt,
			RazorpayOrderID: gwOrder.ID,
			UserEmail:       req.Customer.Email,
			UserName:        req.Customer.Name,
			UserPhone:       req.Customer.Phone,
			ShippingAddress: req.Customer.ShippingAddress,
		}
		if err := orders.Create(ctx, order); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success":        true,
			"razorpay_order": razorpayOrderView(order),
			"order_id":       order.ID,
		})
	}
}

// verifyPayment 校验网关回传的支付签名并迁移订单状态。
// 验签失败与成功都是终态，两条路径都落审计流水并发事件。
func verifyPayment(coupons *store.CouponStore, orders *store.OrderStore, deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			RazorpayOrderID   string         `json:"razorpay_order_id" binding:"required"`
			RazorpayPaymentID string         `json:"razorpay_payment_id" binding:"required"`
			RazorpaySignature string         `json:"razorpay_signature" binding:"required"`
			OrderID           uint           `json:"order_id" binding:"required,min=1"`
			Customer          model.Customer `json:"customer"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		ctx := c.Request.Context()

		order, err := orders.GetByID(ctx, req.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
			return
		}

		if !deps.Gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			// 签名不符：终态 failed，期望值与提供值都进流水，便于取证比对
			changed, err := orders.MarkFailed(ctx, order.ID, req.RazorpayPaymentID, req.RazorpaySignature)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
				return
			}
			// 订单已处终态时只拒绝，不再追加流水：防止同一订单被反复
			// 打坏签名刷出无限审计行
			if changed {
				logErr := orders.AppendLog(ctx, order.ID, model.EventPaymentFailed, "signature verification failed", gin.H{
					"razorpay_order_id":   req.RazorpayOrderID,
					"razorpay_payment_id": req.RazorpayPaymentID,
					"expected_signature":  deps.Gateway.ExpectedSignature(req.RazorpayOrderID, req.RazorpayPaymentID),
					"provided_signature":  req.RazorpaySignature,
				})
				if logErr != nil {
					c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": logErr.Error()})
					return
				}
				publishEvent(ctx, deps, order, model.EventPaymentFailed, req.RazorpayPaymentID, "signature mismatch")
			}
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "verified": false, "message": "signature verification failed"})
			return
		}

		changed, err := orders.MarkPaid(ctx, order.ID, req.RazorpayPaymentID, req.RazorpaySignature, req.Customer)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if !changed {
			// 终态重入：同一笔已支付的订单重复验签视为幂等成功，其余冲突拒绝
			current, gerr := orders.GetByID(ctx, order.ID)
			if gerr != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": gerr.Error()})
				return
			}
			if current != nil && current.Status == model.OrderPaid && current.RazorpayPaymentID == req.RazorpayPaymentID {
				c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})
				return
			}
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "order is not awaiting payment"})
			return
		}

		// 用量递增只发生在支付成功这一刻，一次结算恰好消耗一次
		if order.CouponCode != "" {
			consumed, ierr := coupons.IncrementUsage(ctx, order.CouponCode)
			if ierr != nil {
				log.Printf("coupon usage increment: %v", ierr)
			} else if !consumed {
				log.Printf("coupon %s usage limit hit after payment, order_id=%d", order.CouponCode, order.ID)
			}
		}

		if err := orders.AppendLog(ctx, order.ID, model.EventPaymentSuccess, "", gin.H{
			"razorpay_order_id":   req.RazorpayOrderID,
			"razorpay_payment_id": req.RazorpayPaymentID,
			"razorpay_signature":  req.RazorpaySignature,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}

		shipping := req.Customer.ShippingAddress
		if shipping == "" {
			shipping = order.ShippingAddress
		}
		publishEvent(ctx, deps, order, model.EventPaymentSuccess, req.RazorpayPaymentID, shipping)

		c.JSON(http.StatusOK, gin.H{"success": true, "verified": true})
	}
}

// paymentFailed 客户端主动上报的取消/失败，不走签名校验。
// 订单已处终态时拒绝覆盖（paid 订单不会被改写成 failed）。
func paymentFailed(orders *store.OrderStore, deps *Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			OrderID         uint   `json:"order_id" binding:"required,min=1"`
			RazorpayOrderID string `json:"razorpay_order_id"`
			Reason          string `json:"reason"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			reason = "cancelled by user"
		}

		ctx := c.Request.Context()

		order, err := orders.GetByID(ctx, req.OrderID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "order not found"})
			return
		}

		changed, err := orders.MarkFailed(ctx, order.ID, "", "")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		if !changed {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"message": "order is already " + string(order.Status),
			})
			return
		}

		if err := orders.AppendLog(ctx, order.ID, model.EventPaymentCancelled, reason, gin.H{
			"razorpay_order_id": req.RazorpayOrderID,
			"reason":            reason,
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
			return
		}
		publishEvent(ctx, deps, order, model.EventPaymentCancelled, "", reason)

		c.JSON(http.StatusOK, gin.H{"success": true, "message": "payment marked as failed"})
	}
}

// publishEvent 把支付结果写入 outbox。事件流是事后扇出，
// 失败只记日志，不影响已写入数据库的支付事实。
func publishEvent(ctx context.Context, deps *Deps, order *model.Order, eventType, paymentID, detail string) {
	ev := queue.PaymentEvent{
		EventID:           uuid.New().String(),
		OrderID:           order.ID,
		EventType:         eventType,
		Amount:            order.Amount,
		Quantity:          order.Quantity,
		ProductName:       order.ProductName,
		CouponCode:        order.CouponCode,
		RazorpayOrderID:   order.RazorpayOrderID,
		RazorpayPaymentID: paymentID,
	}
	if eventType == model.EventPaymentSuccess {
		ev.ShippingAddress = detail
	} else {
		ev.Reason = detail
	}
	if err := deps.Outbox.Append(ctx, ev); err != nil {
		log.Printf("outbox append order_id=%d: %v", order.ID, err)
	}
}

func razorpayOrderView(o *model.Order) gin.H {
	return gin.H{
		"id":       o.RazorpayOrderID,
		"amount":   o.Amount,
		"currency": o.Currency,
		"receipt":  o.Receipt,
	}
}
