package repository

import (
	"app/internal/domain/model"
	repo "app/internal/repository"
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartItemGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// 持ち主でクエリを絞る。買い手キーとセッションキーは排他。
func scopeOwner(q *gorm.DB, owner model.OwnerKey) *gorm.DB {
	if owner.Authenticated() {
		return q.Where("buyer_id = ?", *owner.BuyerID)
	}
	return q.Where("session_key = ? AND buyer_id IS NULL", owner.SessionKey)
}

// 持ち主のカート行を一覧取得
func (r *CartItemGormRepository) ListByOwner(ctx context.Context, owner model.OwnerKey) ([]model.CartItem, error) {
	if !owner.Valid() {
		return []model.CartItem{}, repo.ErrNoOwner
	}

	var items []model.CartItem
	if err := scopeOwner(r.db.WithContext(ctx), owner).
		Order("id asc").
		Find(&items).Error; err != nil {
		return []model.CartItem{}, err
	}
	return items, nil
}

// 持ち主スコープで1件取得。他人の行は存在しない扱い。
func (r *CartItemGormRepository) FindByIDForOwner(ctx context.Context, cartItemID int64, owner model.OwnerKey) (model.CartItem, error) {
	if !owner.Valid() {
		return model.CartItem{}, repo.ErrNoOwner
	}

	var item model.CartItem
	err := scopeOwner(r.db.WithContext(ctx), owner).
		Where("id = ?", cartItemID).
		First(&item).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartItem{}, err
	}
	return item, nil
}

// 同一(持ち主, 商品, サイズ)は数量加算。
// lookup→incrementのlost updateを避けるため行ロックで1つのトランザクションにする。
func (r *CartItemGormRepository) UpsertLine(ctx context.Context, owner model.OwnerKey, productID int64, size string, addQty int64) error {
	if !owner.Valid() {
		return repo.ErrNoOwner
	}
	if addQty <= 0 {
		return errors.New("invalid quantity")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item model.CartItem

		err := scopeOwner(tx.Clauses(clause.Locking{Strength: "UPDATE"}), owner).
			Where("product_id = ? AND size = ?", productID, size).
			First(&item).Error

		if err == nil {
			// 既存ありだったら数量を増やす
			res := tx.Model(&model.CartItem{}).
				Where("id = ?", item.ID).
				Update("quantity", item.Quantity+addQty)

			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return repo.ErrNotFound
			}
			return nil
		}

		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		//無い場合は新規作成
		now := time.Now()
		newItem := model.CartItem{
			BuyerID:   owner.BuyerID,
			ProductID: productID,
			Size:      size,
			Quantity:  addQty,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if !owner.Authenticated() {
			key := owner.SessionKey
			newItem.SessionKey = &key
		}

		return tx.Create(&newItem).Error
	})
}

// 明細の数量を更新
func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ?", cartItemID).
		Update("quantity", qty)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 明細を削除
func (r *CartItemGormRepository) DeleteByID(ctx context.Context, cartItemID int64) error {
	res := r.db.WithContext(ctx).Delete(&model.CartItem{}, cartItemID)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// セッションの行をまとめて買い手に付け替える。
// 決済前のマイグレーションで使う。0件でもエラーにしない。
func (r *CartItemGormRepository) ReassignSession(ctx context.Context, sessionKey string, buyerID int64) error {
	if sessionKey == "" {
		return repo.ErrNoOwner
	}

	return r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("session_key = ? AND buyer_id IS NULL", sessionKey).
		Updates(map[string]interface{}{
			"buyer_id":    buyerID,
			"session_key": nil,
		}).Error
}

// 持ち主の行を全削除（チェックアウト後のクリア）
func (r *CartItemGormRepository) DeleteByOwner(ctx context.Context, owner model.OwnerKey) error {
	if !owner.Valid() {
		return repo.ErrNoOwner
	}

	return scopeOwner(r.db.WithContext(ctx), owner).
		Delete(&model.CartItem{}).Error
}

// 商品削除時に全カートから消す
func (r *CartItemGormRepository) DeleteByProduct(ctx context.Context, productID int64) error {
	return r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Delete(&model.CartItem{}).Error
}
