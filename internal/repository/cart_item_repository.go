package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
)

// 持ち主未指定のカート行は作らせない
var ErrNoOwner = errors.New("cart line has no owner")

type CartItemRepository interface {
	ListByOwner(ctx context.Context, owner model.OwnerKey) ([]model.CartItem, error)
	//持ち主スコープで1件取得。他人の行はErrNotFound。
	FindByIDForOwner(ctx context.Context, cartItemID int64, owner model.OwnerKey) (model.CartItem, error)
	// 同一(持ち主, 商品, サイズ)は数量加算
	UpsertLine(ctx context.Context, owner model.OwnerKey, productID int64, size string, addQty int64) error
	UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error
	DeleteByID(ctx context.Context, cartItemID int64) error
	//セッションの行をまとめて買い手に付け替える（buyerをセット、session_keyをクリア）
	ReassignSession(ctx context.Context, sessionKey string, buyerID int64) error
	DeleteByOwner(ctx context.Context, owner model.OwnerKey) error
	//商品削除時に全カートから消す
	DeleteByProduct(ctx context.Context, productID int64) error
}
