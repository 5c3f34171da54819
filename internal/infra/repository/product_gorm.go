package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 新着順の一覧。カテゴリ絞り込みとlimitに対応。
func (r *ProductGormRepository) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	query := r.db.WithContext(ctx).Model(&model.Product{})

	if q.CategoryID != nil {
		query = query.Where("category_id = ?", *q.CategoryID)
	}

	query = query.Order("created_at desc")
	if q.Limit > 0 {
		query = query.Limit(q.Limit)
	}

	var items []model.Product
	if err := query.Find(&items).Error; err != nil {
		return []model.Product{}, err
	}
	return items, nil
}

func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return p, nil
}

// 出品者の商品一覧
func (r *ProductGormRepository) ListByMaster(ctx context.Context, masterID int64) ([]model.Product, error) {
	var items []model.Product
	err := r.db.WithContext(ctx).
		Where("master_id = ?", masterID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Product{}, err
	}
	return items, nil
}

func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	if err := r.db.WithContext(ctx).Create(&p).Error; err != nil {
		return model.Product{}, err
	}
	return p, nil
}

func (r *ProductGormRepository) Update(ctx context.Context, p model.Product) error {
	res := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{
			"category_id": p.CategoryID,
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"old_price":   p.OldPrice,
			"stock":       p.Stock,
			"sizes":       p.Sizes,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 商品と画像を削除する。注文明細の参照外しは呼び出し側（Tx内）で行う。
func (r *ProductGormRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&model.ProductImage{}).Error; err != nil {
			return err
		}

		res := tx.Delete(&model.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repo.ErrNotFound
		}
		return nil
	})
}

func (r *ProductGormRepository) AddImage(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	if err := r.db.WithContext(ctx).Create(&img).Error; err != nil {
		return model.ProductImage{}, err
	}
	return img, nil
}

func (r *ProductGormRepository) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	var imgs []model.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id asc").
		Find(&imgs).Error
	if err != nil {
		return []model.ProductImage{}, err
	}
	return imgs, nil
}
