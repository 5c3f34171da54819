package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusNew        OrderStatus = "new"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusDelivered  OrderStatus = "delivered"
)

// 前進のみ。戻す遷移は定義しない。
var orderStatusRank = map[OrderStatus]int{
	OrderStatusNew:        0,
	OrderStatusProcessing: 1,
	OrderStatusDelivered:  2,
}

func IsValidOrderStatus(s OrderStatus) bool {
	_, ok := orderStatusRank[s]
	return ok
}

// fromからtoへ進めるか。1段ずつしか進めない。
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	cur, ok1 := orderStatusRank[s]
	nxt, ok2 := orderStatusRank[next]
	if !ok1 || !ok2 {
		return false
	}
	return nxt == cur+1
}

// 確定した注文。status以外は作成後に変更しない。
type Order struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID int64 `gorm:"not null;index" json:"buyer_id"`

	DeliveryAddress string `gorm:"type:text;not null" json:"delivery_address"`
	//正規化済み（数字のみ）。ゲストの注文照会はこの値の完全一致。
	Phone string `gorm:"type:varchar(30);not null;index" json:"phone"`

	Status OrderStatus `gorm:"type:varchar(20);not null;default:'new';index" json:"status"`

	//作成時点の明細合計。後から再計算しない。
	TotalAmount decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"total_amount"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
