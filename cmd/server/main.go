package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	rd "github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"airstore/internal/config"
	"airstore/internal/gateway"
	"airstore/internal/model"
	"airstore/internal/queue"
	"airstore/internal/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// 1. 连接 SQLite，自动建表
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		log.Fatalf("db open: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Coupon{},
		&model.Order{},
		&model.PaymentLog{},
		&model.Fulfillment{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	rdb := rd.NewClient(&rd.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	gw := gateway.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret, cfg.RazorpayBaseURL)

	// outbox → relay → Kafka → consumer（发货工单）
	producer := queue.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer producer.Close()
	outbox := queue.NewOutbox(rdb, cfg.PaymentEventStream)
	relay := queue.NewRelay(rdb, producer, cfg.PaymentEventStream, cfg.PaymentEventGroup, cfg.PaymentEventConsumer)
	consumer := queue.NewConsumer(cfg.KafkaBrokers, cfg.KafkaTopic, cfg.KafkaGroupID, db)
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go relay.Run(ctx)
	go consumer.Run(ctx)

	r := gin.Default()
	// 前端是独立托管的 SPA，结算接口开放跨域
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "X-Admin-Token"}
	r.Use(cors.New(corsCfg))

	router.Setup(r, router.Deps{
		DB:      db,
		RDB:     rdb,
		Gateway: gw,
		Outbox:  outbox,
		Cfg:     cfg,
	})

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		log.Printf("starting airstore server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()

	// graceful shutdown：先停 HTTP，再让 relay/consumer 随 ctx 退出
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	log.Println("server stopped")
}
