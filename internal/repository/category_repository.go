package repository

import (
	"app/internal/domain/model"
	"context"
)

type CategoryRepository interface {
	List(ctx context.Context) ([]model.Category, error)
	FindByID(ctx context.Context, id int64) (model.Category, error)
	//同名があればそれを返す。起動時シードが使う。
	GetOrCreateByName(ctx context.Context, name string) (model.Category, error)
}
