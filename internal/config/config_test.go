package config

import (
	"testing"
	"time"
)

// setRequired 填上没有默认值的必填项，其余走默认。
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("RAZORPAY_KEY_ID", "rzp_test_key")
	t.Setenv("RAZORPAY_KEY_SECRET", "rzp_test_secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.HTTPAddr != ":8080" || cfg.DBPath != "airstore.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.CheckoutRateLimit != 60 || cfg.CheckoutRateWindow != time.Minute {
		t.Fatalf("rate limit defaults: %d / %s", cfg.CheckoutRateLimit, cfg.CheckoutRateWindow)
	}
	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Fatalf("idempotency ttl = %s", cfg.IdempotencyTTL)
	}
	if len(cfg.KafkaBrokers) != 1 || cfg.KafkaBrokers[0] != "localhost:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
}

func TestLoadMissingGatewayCredentials(t *testing.T) {
	t.Setenv("RAZORPAY_KEY_ID", "")
	t.Setenv("RAZORPAY_KEY_SECRET", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without gateway credentials")
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092")
	t.Setenv("CHECKOUT_RATE_LIMIT", "10")
	t.Setenv("CHECKOUT_RATE_WINDOW_SEC", "30")
	t.Setenv("REDIS_DB", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.KafkaBrokers) != 2 || cfg.KafkaBrokers[1] != "k2:9092" {
		t.Fatalf("brokers = %v", cfg.KafkaBrokers)
	}
	if cfg.CheckoutRateLimit != 10 || cfg.CheckoutRateWindow != 30*time.Second {
		t.Fatalf("rate limit = %d / %s", cfg.CheckoutRateLimit, cfg.CheckoutRateWindow)
	}
	if cfg.RedisDB != 3 {
		t.Fatalf("redis db = %d", cfg.RedisDB)
	}
}

func TestLoadRejectsBadNumbers(t *testing.T) {
	setRequired(t)
	t.Setenv("CHECKOUT_RATE_LIMIT", "ten")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for non-numeric CHECKOUT_RATE_LIMIT")
	}

	t.Setenv("CHECKOUT_RATE_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for zero CHECKOUT_RATE_LIMIT")
	}
}
