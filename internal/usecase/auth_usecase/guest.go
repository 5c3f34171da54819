package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
)

// ゲスト決済で新規アカウントに付けるユーザー名。
// "buyer_" + ランダム16進。衝突したら呼び出し側で引き直す。
func GenerateGuestUsername() string {
	return "buyer_" + randomHex(6)
}

// ゲスト用の初期パスワード（平文）。ハッシュ化して保存する。
func GenerateGuestPassword() string {
	b := make([]byte, 18)
	if _, err := rand.Read(b); err != nil {
		return randomHex(18)
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "fallback"
	}
	return hex.EncodeToString(b)
}
