package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// ExpectedSignature 计算 Razorpay 回调签名的期望值：
// hex(HMAC-SHA256(keySecret, "<gateway_order_id>|<gateway_payment_id>"))。
// 审计日志里会同时记录期望值与客户端提供值，便于事后比对。
func (c *Client) ExpectedSignature(gatewayOrderID, gatewayPaymentID string) string {
	mac := hmac.New(sha256.New, []byte(c.keySecret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature 常数时间比较签名，防止计时侧信道泄露。
// 纯函数：相同输入必然得到相同结果。
func (c *Client) VerifySignature(gatewayOrderID, gatewayPaymentID, provided string) bool {
	expected := c.ExpectedSignature(gatewayOrderID, gatewayPaymentID)
	return hmac.Equal([]byte(expected), []byte(provided))
}
