package validator

import (
	"errors"
	"strings"
)

var (
	// 配送先住所が空
	ErrAddressRequired = errors.New("delivery address required")

	// 電話番号の桁が足りない
	ErrPhoneTooShort = errors.New("phone too short")
)

// 正規化後の電話番号に必要な最低桁数
const minPhoneDigits = 10

// NormalizePhone は数字以外を全部落とす。
// "+7 (900) 123-45-67" → "79001234567"
func NormalizePhone(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateCheckout はチェックアウト入力を検証して正規化済み電話番号を返す。
// 失敗時は何も作らせない。
func ValidateCheckout(deliveryAddress string, phone string) (string, error) {
	if strings.TrimSpace(deliveryAddress) == "" {
		return "", ErrAddressRequired
	}

	normalized := NormalizePhone(phone)
	if len(normalized) < minPhoneDigits {
		return "", ErrPhoneTooShort
	}

	return normalized, nil
}
