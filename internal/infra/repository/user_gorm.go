package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

type userGormRepository struct {
	db *gorm.DB
}

// DI
// main.goでこれをnewしてusecaseに注入します。
func NewUserGormRepository(db *gorm.DB) *userGormRepository {
	return &userGormRepository{db: db}
}

// Create はユーザーを新規作成
func (r *userGormRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// IDでユーザーを1件取得
func (r *userGormRepository) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ユーザー名で1件取得
func (r *userGormRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// 正規化済み電話番号で1件取得。ゲスト決済の照合に使う。
func (r *userGormRepository) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	var u model.User

	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		Order("id asc").
		First(&u).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// ユーザーを更新。
func (r *userGormRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
