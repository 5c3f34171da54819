package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// 商品一覧の検索条件
type ProductListQuery struct {
	CategoryID *int64
	Limit      int
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//新着順の公開一覧。カテゴリ絞り込みとlimitに対応。
	List(ctx context.Context, q ProductListQuery) ([]model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	ListByMaster(ctx context.Context, masterID int64) ([]model.Product, error)

	Create(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) error
	//削除。注文明細側はproduct_idをNULLにして行を残す。
	Delete(ctx context.Context, id int64) error

	AddImage(ctx context.Context, img model.ProductImage) (model.ProductImage, error)
	ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error)
}
