package model

import "time"

type Role string

const (
	//購入者
	RoleBuyer Role = "BUYER"
	//出品者（職人アカウント）
	RoleMaster Role = "MASTER"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	//数字だけに正規化した電話番号
	Phone     string    `gorm:"type:varchar(30);index" json:"phone"`
	Role      Role      `gorm:"type:varchar(20);not null;default:'BUYER'" json:"role"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// hasattrのようなロール判定はしない。型付きで判定する。
func (u *User) IsMaster() bool {
	return u != nil && u.Role == RoleMaster
}
