package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

type SessionGormRepository struct {
	db *gorm.DB
}

func NewSessionGormRepository(db *gorm.DB) *SessionGormRepository {
	return &SessionGormRepository{db: db}
}

func (r *SessionGormRepository) Create(ctx context.Context, s model.Session) error {
	return r.db.WithContext(ctx).Create(&s).Error
}

func (r *SessionGormRepository) FindByToken(ctx context.Context, token string) (model.Session, error) {
	var s model.Session
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Session{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// 有効期限を延ばす
func (r *SessionGormRepository) Touch(ctx context.Context, token string, expiresAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.Session{}).
		Where("token = ?", token).
		Update("expires_at", expiresAt)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
