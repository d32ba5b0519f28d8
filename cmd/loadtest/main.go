package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Result 记录单次请求的 HTTP 结果，便于聚合统计。
type Result struct {
	Status  int
	OrderID uint
	Err     error
}

func main() {
	baseURL := flag.String("base", "http://localhost:8080", "server base url")
	productID := flag.Uint("product", 1, "product id")
	couponCode := flag.String("coupon", "", "optional coupon code")

	// 幂等测试参数：N 个并发请求共用同一个 idempotency_key，期望只产生 1 个订单
	requests := flag.Int("n", 50, "concurrent create-order requests")
	concurrency := flag.Int("c", 50, "max concurrency")
	flag.Parse()

	client := &http.Client{Timeout: 5 * time.Second}

	// 1) 幂等测试：同一个 idempotency_key 并发下单
	idemKey := uuid.New().String()
	fmt.Printf("start idempotency test: product=%d n=%d concurrency=%d key=%s\n",
		*productID, *requests, *concurrency, idemKey)
	results := runCreateOrder(client, *baseURL, *productID, *couponCode, idemKey, *requests, *concurrency)
	printSummary("idempotency", results)
	fmt.Printf("distinct order ids: %d (expect 1 when redis is up)\n", distinctOrders(results))

	// 2) 限流测试：不带幂等键的独立请求，同一来源 IP 连续打
	// 注意：默认限流是 60/min，很难触发。建议临时把 CHECKOUT_RATE_LIMIT 调成 5 再测。
	fmt.Printf("\nstart rate limit test: %d requests, concurrency %d\n", *requests, *concurrency)
	results2 := runCreateOrder(client, *baseURL, *productID, *couponCode, "", *requests, *concurrency)
	printSummary("rate_limit", results2)
}

func runCreateOrder(client *http.Client, baseURL string, productID uint, couponCode, idemKey string, total, concurrency int) []Result {
	type Req struct {
		ProductID      uint   `json:"product_id"`
		Quantity       int    `json:"quantity"`
		CouponCode     string `json:"coupon_code,omitempty"`
		IdempotencyKey string `json:"idempotency_key,omitempty"`
	}

	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	results := make([]Result, total)

	for i := 0; i < total; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			req := Req{ProductID: productID, Quantity: 1, CouponCode: couponCode, IdempotencyKey: idemKey}
			results[idx] = createOnce(client, baseURL, req)
		}(i)
	}

	wg.Wait()
	return results
}

func createOnce(client *http.Client, baseURL string, req any) Result {
	b, _ := json.Marshal(req)
	url := fmt.Sprintf("%s/api/checkout/create-order", baseURL)
	httpReq, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(httpReq)
	if err != nil {
		return Result{Err: err}
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	var out struct {
		OrderID uint `json:"order_id"`
	}
	_ = json.Unmarshal(body, &out)
	return Result{Status: resp.StatusCode, OrderID: out.OrderID}
}

// printSummary 聚合输出不同状态码分布。
func printSummary(name string, results []Result) {
	count := map[int]int{}
	errCount := 0
	for _, r := range results {
		if r.Err != nil {
			errCount++
			continue
		}
		count[r.Status]++
	}
	fmt.Printf("[%s] http status summary:\n", name)
	for _, code := range []int{200, 400, 404, 429, 500} {
		if count[code] > 0 {
			fmt.Printf("  %d -> %d\n", code, count[code])
		}
	}
	if errCount > 0 {
		fmt.Printf("  errors -> %d\n", errCount)
	}
}

// distinctOrders 统计返回过的不同订单号数量，用于验证幂等回放。
func distinctOrders(results []Result) int {
	seen := map[uint]bool{}
	for _, r := range results {
		if r.Err == nil && r.Status == http.StatusOK && r.OrderID != 0 {
			seen[r.OrderID] = true
		}
	}
	return len(seen)
}
