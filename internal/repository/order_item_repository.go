package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderItemRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error)
	//商品削除時に明細から参照だけ外す（行は残す）
	DetachProduct(ctx context.Context, productID int64) error
}
