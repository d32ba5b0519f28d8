package store

import (
	"context"
	"encoding/json"
	"errors"

	"gorm.io/gorm"

	"airstore/internal/model"
)

type OrderStore struct {
	db *gorm.DB
}

func NewOrderStore(db *gorm.DB) *OrderStore {
	return &OrderStore{db: db}
}

func (s *OrderStore) Create(ctx context.Context, o *model.Order) error {
	return s.db.WithContext(ctx).Create(o).Error
}

// GetByID 未找到返回 (nil, nil)。
func (s *OrderStore) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).First(&o, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// GetByReceipt 按回执号查单，幂等回放时使用。
func (s *OrderStore) GetByReceipt(ctx context.Context, receipt string) (*model.Order, error) {
	var o model.Order
	err := s.db.WithContext(ctx).Where("receipt = ?", receipt).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &o, nil
}

// MarkPaid created → paid 的条件迁移，附带支付凭据与客户信息。
// 返回 false 表示订单不处于 created（终态不可再迁移），一行未改。
func (s *OrderStore) MarkPaid(ctx context.Context, id uint, paymentID, signature string, cust model.Customer) (bool, error) {
	updates := map[string]any{
		"status":              model.OrderPaid,
		"razorpay_payment_id": paymentID,
		"razorpay_signature":  signature,
	}
	applyCustomer(updates, cust)

	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderCreated).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkFailed created → failed 的条件迁移。验签失败时仍记录客户端提供的
// 支付号与签名，供审计比对。
func (s *OrderStore) MarkFailed(ctx context.Context, id uint, paymentID, signature string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ? AND status = ?", id, model.OrderCreated).
		Updates(map[string]any{
			"status":              model.OrderFailed,
			"razorpay_payment_id": paymentID,
			"razorpay_signature":  signature,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// AppendLog 追加一条支付审计流水。EventData 为任意可序列化结构。
func (s *OrderStore) AppendLog(ctx context.Context, orderID uint, eventType, errorMessage string, eventData any) error {
	data := ""
	if eventData != nil {
		b, err := json.Marshal(eventData)
		if err != nil {
			return err
		}
		data = string(b)
	}
	return s.db.WithContext(ctx).Create(&model.PaymentLog{
		OrderID:      orderID,
		EventType:    eventType,
		ErrorMessage: errorMessage,
		EventData:    data,
	}).Error
}

func applyCustomer(updates map[string]any, cust model.Customer) {
	if cust.Email != "" {
		updates["user_email"] = cust.Email
	}
	if cust.Name != "" {
		updates["user_name"] = cust.Name
	}
	if cust.Phone != "" {
		updates["user_phone"] = cust.Phone
	}
	if cust.ShippingAddress != "" {
		updates["shipping_address"] = cust.ShippingAddress
	}
}
