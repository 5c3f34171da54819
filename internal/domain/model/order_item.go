package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 注文の明細。
// Priceは注文時点の単価スナップショット。カタログの価格が変わっても動かない。
// 商品が消えてもProductIDをNULLにして行は残す。
type OrderItem struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   int64  `gorm:"not null;index" json:"order_id"`
	ProductID *int64 `gorm:"index" json:"product_id,omitempty"`

	//注文時点の商品名も残す（商品削除後の表示用）
	ProductName string `gorm:"type:varchar(255);not null" json:"product_name"`
	Size        string `gorm:"type:varchar(10)" json:"size"`

	Quantity int64           `gorm:"not null" json:"quantity"`
	Price    decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}

// 明細の小計。
func (it OrderItem) Subtotal() decimal.Decimal {
	return it.Price.Mul(decimal.NewFromInt(it.Quantity))
}
