package store

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"airstore/internal/model"
)

type FulfillmentStore struct {
	db *gorm.DB
}

func NewFulfillmentStore(db *gorm.DB) *FulfillmentStore {
	return &FulfillmentStore{db: db}
}

// CreateOnce 幂等插入发货工单：OrderID 唯一索引冲突视为"已存在"，
// 返回 false 且不报错，事件重投因此天然安全。
func (s *FulfillmentStore) CreateOnce(ctx context.Context, f *model.Fulfillment) (bool, error) {
	err := s.db.WithContext(ctx).Create(f).Error
	if err != nil {
		if errorsLikeUnique(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *FulfillmentStore) GetByOrderID(ctx context.Context, orderID uint) (*model.Fulfillment, error) {
	var f model.Fulfillment
	err := s.db.WithContext(ctx).Where("order_id = ?", orderID).First(&f).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &f, nil
}

func errorsLikeUnique(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "UNIQUE") || strings.Contains(s, "unique")
}
