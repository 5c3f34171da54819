package model

import "time"

// カート行の持ち主。ログイン済みなら BuyerID、匿名なら SessionKey。
// どちらか一方は必ず入っている状態でリポジトリに渡す。
type OwnerKey struct {
	BuyerID    *int64
	SessionKey string
}

func BuyerOwner(buyerID int64) OwnerKey {
	return OwnerKey{BuyerID: &buyerID}
}

func SessionOwner(key string) OwnerKey {
	return OwnerKey{SessionKey: key}
}

func (k OwnerKey) Valid() bool {
	return (k.BuyerID != nil && *k.BuyerID > 0) || k.SessionKey != ""
}

func (k OwnerKey) Authenticated() bool {
	return k.BuyerID != nil && *k.BuyerID > 0
}

// カートの明細。(持ち主, 商品, サイズ) につき1行。
// 同じ組み合わせの追加は数量加算になる。
type CartItem struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//どちらか一方だけが入る
	BuyerID    *int64  `gorm:"index" json:"buyer_id,omitempty"`
	SessionKey *string `gorm:"type:varchar(64);index" json:"-"`

	ProductID int64  `gorm:"not null;index" json:"product_id"`
	Size      string `gorm:"type:varchar(10)" json:"size"`
	Quantity  int64  `gorm:"not null" json:"quantity"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
