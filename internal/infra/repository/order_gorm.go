package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("buyer_id = ?", buyerID).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// ゲスト照会。保存済みの正規化電話番号との完全一致。
func (r *OrderGormRepository) ListByPhone(ctx context.Context, phone string) ([]model.Order, error) {
	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("created_at desc").
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
