package model

import "time"

// 商品画像。保存先はstorage側が決め、URLだけ持つ。
type ProductImage struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64     `gorm:"not null;index" json:"product_id"`
	URL        string    `gorm:"type:varchar(512);not null" json:"url"`
	UploadedAt time.Time `gorm:"not null;autoCreateTime" json:"uploaded_at"`
}
