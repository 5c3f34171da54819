package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// 商品が選べるサイズコード。
var SizeCodes = []string{"XS", "S", "M", "L", "XL", "XXL", "3XL"}

func IsValidSizeCode(code string) bool {
	for _, s := range SizeCodes {
		if s == code {
			return true
		}
	}
	return false
}

type Product struct {
	ID         int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	MasterID   int64  `gorm:"not null;index" json:"master_id"`
	CategoryID *int64 `gorm:"index" json:"category_id,omitempty"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	Price decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	//セール前の価格。priceより大きい場合のみ意味を持つ。
	OldPrice *decimal.Decimal `gorm:"type:decimal(10,2)" json:"old_price,omitempty"`

	Stock int64 `gorm:"not null;default:1" json:"stock"`

	//カンマ区切りのサイズコード（例: "S,M,L"）。空なら size 指定なし。
	Sizes string `gorm:"type:varchar(100)" json:"sizes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// サイズ指定ありの商品か。
func (p *Product) HasSizes() bool {
	return len(p.SizeList()) > 0
}

// Sizesを分解して重複を除いたリストを返す。順序は保持する。
func (p *Product) SizeList() []string {
	return ParseSizes(p.Sizes)
}

// 宣言済みサイズに含まれるか。サイズ指定なしの商品は空だけ許す。
func (p *Product) AllowsSize(size string) bool {
	list := p.SizeList()
	if len(list) == 0 {
		return size == ""
	}
	for _, s := range list {
		if s == size {
			return true
		}
	}
	return false
}

// 割引率（%）。old_price > price のときだけ値を返す。
func (p *Product) DiscountPercent() (int64, bool) {
	if p.OldPrice == nil || !p.OldPrice.GreaterThan(p.Price) {
		return 0, false
	}
	hundred := decimal.NewFromInt(100)
	pct := p.OldPrice.Sub(p.Price).Div(*p.OldPrice).Mul(hundred).Round(0)
	return pct.IntPart(), true
}

// カンマ区切りのサイズ文字列を分解する。
// 空要素は捨て、重複は先勝ちで除く。
func ParseSizes(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	seen := make(map[string]struct{}, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
