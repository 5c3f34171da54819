package repository

import (
	"context"

	"app/internal/domain/model"
)

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	//新しい順
	ListByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error)
	//ゲスト照会用。保存済みの正規化電話番号と完全一致で絞る。
	ListByPhone(ctx context.Context, phone string) ([]model.Order, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error
}
