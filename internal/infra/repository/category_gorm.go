package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"

	"gorm.io/gorm"
)

type CategoryGormRepository struct {
	db *gorm.DB
}

func NewCategoryGormRepository(db *gorm.DB) *CategoryGormRepository {
	return &CategoryGormRepository{db: db}
}

func (r *CategoryGormRepository) List(ctx context.Context) ([]model.Category, error) {
	var items []model.Category
	if err := r.db.WithContext(ctx).Order("id asc").Find(&items).Error; err != nil {
		return []model.Category{}, err
	}
	return items, nil
}

func (r *CategoryGormRepository) FindByID(ctx context.Context, id int64) (model.Category, error) {
	var c model.Category
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Category{}, err
	}
	return c, nil
}

// 同名があればそれを返す。無ければ作る。シードから呼ばれる。
func (r *CategoryGormRepository) GetOrCreateByName(ctx context.Context, name string) (model.Category, error) {
	var c model.Category

	err := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Category{}, err
	}

	c = model.Category{Name: name}
	if createErr := r.db.WithContext(ctx).Create(&c).Error; createErr != nil {
		//同時に同名が入った場合はもう一回探す
		retryErr := r.db.WithContext(ctx).Where("name = ?", name).First(&c).Error
		if retryErr == nil {
			return c, nil
		}
		return model.Category{}, createErr
	}
	return c, nil
}
