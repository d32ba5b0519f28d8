// Package store 提供基于 gorm 的行级存取适配层。
// 约定："未找到"返回 (nil, nil)，与后端故障（非 nil error）严格区分。
package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"airstore/internal/model"
)

type ProductStore struct {
	db *gorm.DB
}

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db}
}

// ListPublished 只返回已上架商品，供前台商品列表使用。
func (s *ProductStore) ListPublished(ctx context.Context) ([]model.Product, error) {
	var list []model.Product
	if err := s.db.WithContext(ctx).Where("published = ?", true).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// GetPublishedByID 查找已上架商品；下架或不存在都视为"未找到"。
func (s *ProductStore) GetPublishedByID(ctx context.Context, id uint) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Where("id = ? AND published = ?", id, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	var p model.Product
	err := s.db.WithContext(ctx).Where("slug = ? AND published = ?", slug, true).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (s *ProductStore) Create(ctx context.Context, p *model.Product) error {
	return s.db.WithContext(ctx).Create(p).Error
}
