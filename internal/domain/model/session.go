package model

import "time"

// 匿名カートの持ち主となるセッション。
// ログイン前のカート行はこのトークンに紐づく。
type Session struct {
	Token     string    `gorm:"type:varchar(64);primaryKey" json:"token"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
}

func (s Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
