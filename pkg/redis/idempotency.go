package redis

import (
	"context"
	"time"

	rd "github.com/redis/go-redis/v9"
)

// luaReserveReceipt：SETNX 语义的"取或占"原子操作。
// 键不存在则写入候选回执号并设置 TTL，返回 {1, candidate}；
// 已存在则返回 {0, 现值}，调用方按现值回放首次下单结果。
const luaReserveReceipt = `
local key = KEYS[1]
local candidate = ARGV[1]
local ttlSec = tonumber(ARGV[2])

local existing = redis.call('GET', key)
if existing then
  return {0, existing}
end
redis.call('SET', key, candidate, 'EX', ttlSec)
return {1, candidate}
`

// ReserveReceipt 为幂等键占位一个回执号。
// reserved=true 表示本次请求是该幂等键的首次占位；
// 否则 receipt 为先前占位的回执号。
// 幂等保护是尽力而为：Redis 故障时由调用方降级为直接下单。
func ReserveReceipt(ctx context.Context, rdb *rd.Client, idemKey, candidate string, ttl time.Duration) (receipt string, reserved bool, err error) {
	res, err := rdb.Eval(ctx, luaReserveReceipt, []string{IdempotencyKey(idemKey)}, candidate, int64(ttl.Seconds())).Slice()
	if err != nil {
		return "", false, err
	}
	if len(res) != 2 {
		return candidate, true, nil
	}
	flag, _ := res[0].(int64)
	val, _ := res[1].(string)
	if val == "" {
		val = candidate
	}
	return val, flag == 1, nil
}
