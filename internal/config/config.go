package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig 聚合运行时配置，尽量通过环境变量注入，避免硬编码。
type AppConfig struct {
	HTTPAddr string
	DBPath   string

	RedisAddr string
	RedisDB   int

	// Kafka 集群地址（逗号分隔）、Topic、消费者组
	KafkaBrokers []string
	KafkaTopic   string
	KafkaGroupID string

	// Redis Stream outbox（handler 写流，Relay 异步转 Kafka）
	PaymentEventStream   string
	PaymentEventGroup    string
	PaymentEventConsumer string

	// Razorpay 网关凭据。KeySecret 同时用于支付签名校验，绝不下发给客户端。
	RazorpayKeyID     string
	RazorpayKeySecret string
	RazorpayBaseURL   string

	// 结算接口限流与幂等键保留时长
	CheckoutRateLimit  int
	CheckoutRateWindow time.Duration
	IdempotencyTTL     time.Duration

	// 商品管理接口的简单管理员令牌（demo 级别保护）
	AdminToken string
}

// Load 读取并校验配置，缺失时使用默认值。
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:             getEnv("HTTP_ADDR", ":8080"),
		DBPath:               getEnv("DB_PATH", "airstore.db"),
		RedisAddr:            getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:              0,
		KafkaBrokers:         splitCSV(getEnv("KAFKA_BROKERS", "localhost:9092")),
		KafkaTopic:           getEnv("KAFKA_TOPIC", "airstore-payment-events"),
		KafkaGroupID:         getEnv("KAFKA_GROUP_ID", "airstore-fulfillment-consumer"),
		PaymentEventStream:   getEnv("PAYMENT_EVENT_STREAM", "airstore:payment_events"),
		PaymentEventGroup:    getEnv("PAYMENT_EVENT_GROUP", "airstore-relay-group"),
		PaymentEventConsumer: getEnv("PAYMENT_EVENT_CONSUMER", "airstore-relay-1"),
		RazorpayKeyID:        getEnv("RAZORPAY_KEY_ID", ""),
		RazorpayKeySecret:    getEnv("RAZORPAY_KEY_SECRET", ""),
		RazorpayBaseURL:      getEnv("RAZORPAY_BASE_URL", "https://api.razorpay.com/v1"),
		CheckoutRateLimit:    60,
		CheckoutRateWindow:   time.Minute,
		IdempotencyTTL:       24 * time.Hour,
		AdminToken:           getEnv("ADMIN_TOKEN", "dev-admin-token"),
	}

	redisDB, err := getEnvInt("REDIS_DB", cfg.RedisDB)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	rateLimit, err := getEnvInt("CHECKOUT_RATE_LIMIT", cfg.CheckoutRateLimit)
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_LIMIT: %w", err)
	}
	if rateLimit <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_LIMIT must be > 0")
	}
	cfg.CheckoutRateLimit = rateLimit

	rateWindowSec, err := getEnvInt("CHECKOUT_RATE_WINDOW_SEC", int(cfg.CheckoutRateWindow.Seconds()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid CHECKOUT_RATE_WINDOW_SEC: %w", err)
	}
	if rateWindowSec <= 0 {
		return AppConfig{}, fmt.Errorf("CHECKOUT_RATE_WINDOW_SEC must be > 0")
	}
	cfg.CheckoutRateWindow = time.Duration(rateWindowSec) * time.Second

	idemTTLHour, err := getEnvInt("IDEMPOTENCY_TTL_HOUR", int(cfg.IdempotencyTTL.Hours()))
	if err != nil {
		return AppConfig{}, fmt.Errorf("invalid IDEMPOTENCY_TTL_HOUR: %w", err)
	}
	if idemTTLHour <= 0 {
		return AppConfig{}, fmt.Errorf("IDEMPOTENCY_TTL_HOUR must be > 0")
	}
	cfg.IdempotencyTTL = time.Duration(idemTTLHour) * time.Hour

	if cfg.RazorpayKeyID == "" {
		return AppConfig{}, fmt.Errorf("RAZORPAY_KEY_ID must not be empty")
	}
	if cfg.RazorpayKeySecret == "" {
		return AppConfig{}, fmt.Errorf("RAZORPAY_KEY_SECRET must not be empty")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return AppConfig{}, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}
	if cfg.KafkaTopic == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_TOPIC must not be empty")
	}
	if cfg.KafkaGroupID == "" {
		return AppConfig{}, fmt.Errorf("KAFKA_GROUP_ID must not be empty")
	}
	if cfg.PaymentEventStream == "" {
		return AppConfig{}, fmt.Errorf("PAYMENT_EVENT_STREAM must not be empty")
	}
	if cfg.PaymentEventGroup == "" {
		return AppConfig{}, fmt.Errorf("PAYMENT_EVENT_GROUP must not be empty")
	}
	if cfg.PaymentEventConsumer == "" {
		return AppConfig{}, fmt.Errorf("PAYMENT_EVENT_CONSUMER must not be empty")
	}

	return cfg, nil
}

// getEnv 读取字符串环境变量，若为空则返回默认值。
func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

// getEnvInt 读取整数环境变量，若为空则返回默认值。
func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

// splitCSV 将逗号分隔字符串解析为字符串切片。
func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
