package repository

import (
	"app/internal/domain/model"
	"context"
)

// 在庫の設定と調整履歴。
// 注文確定では在庫を減らさない（既知のギャップをそのまま残す）。
type InventoryRepository interface {
	SetStock(ctx context.Context, productID int64, newStock int64) error
	CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error
}
