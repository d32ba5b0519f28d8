package store

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"airstore/internal/model"
)

type CouponStore struct {
	db *gorm.DB
}

func NewCouponStore(db *gorm.DB) *CouponStore {
	return &CouponStore{db: db}
}

// NormalizeCode 优惠码归一化：去空白并大写，与存储口径一致。
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindByCode 按归一化后的码精确查找。未找到返回 (nil, nil)。
func (s *CouponStore) FindByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var c model.Coupon
	err := s.db.WithContext(ctx).Where("code = ?", NormalizeCode(code)).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (s *CouponStore) Create(ctx context.Context, c *model.Coupon) error {
	c.Code = NormalizeCode(c.Code)
	return s.db.WithContext(ctx).Create(c).Error
}

// IncrementUsage 单条条件 UPDATE 原子递增用量：
// usage_count = usage_count + 1，且仅在未达上限时生效（usage_limit = 0 视为不限）。
// 返回 false 表示用量已到上限或优惠码不存在，计数未变。
// 读改写竞态由数据库侧的条件更新关死，应用层不再加锁。
func (s *CouponStore) IncrementUsage(ctx context.Context, code string) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Coupon{}).
		Where("code = ? AND (usage_limit = 0 OR usage_count < usage_limit)", NormalizeCode(code)).
		UpdateColumn("usage_count", gorm.Expr("usage_count + 1"))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
