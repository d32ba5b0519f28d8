package redis

import "fmt"

// IdempotencyKey 将客户端幂等键映射到订单回执号。
func IdempotencyKey(idemKey string) string {
	return fmt.Sprintf("airstore:checkout:idem:%s", idemKey)
}

// RateLimitIPKey 结算接口按来源 IP 的限流键。
func RateLimitIPKey(ip string) string {
	return fmt.Sprintf("airstore:rate_limit:checkout:ip:%s", ip)
}
