package store

import (
	"fmt"
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"airstore/internal/model"
)

// newTestDB 每个测试一个独立的内存库；cache=shared 让 gorm 连接池
// 里的多条连接看到同一份数据。
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&model.Product{},
		&model.Coupon{},
		&model.Order{},
		&model.PaymentLog{},
		&model.Fulfillment{},
	); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	return db
}
