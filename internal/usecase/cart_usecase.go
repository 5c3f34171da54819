package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// カート数量操作の向き
const (
	AdjustIncrease = "increase"
	AdjustDecrease = "decrease"
)

// CartUsecase は /cart の業務ロジックです。
// 持ち主（ログインユーザーまたは匿名セッション）はendpointで解決して明示的に渡す。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	productRepo  repo.ProductRepository
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	productRepo repo.ProductRepository,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		productRepo:  productRepo,
	}
}

type CartLineResponse struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size,omitempty"`
	//現在のカタログ価格。注文確定までは変動する。
	Price    decimal.Decimal `json:"price"`
	Quantity int64           `json:"quantity"`
}

type CartResponse struct {
	Items []CartLineResponse `json:"items"`
	Total decimal.Decimal    `json:"total"`
}

type AddCartInput struct {
	ProductID int64
	Size      string
	Quantity  int64
}

// GetCart はカート取得。
func (u *CartUsecase) GetCart(ctx context.Context, owner model.OwnerKey) (CartResponse, error) {
	if !owner.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "no cart owner")
	}
	return u.buildCartResponse(ctx, owner)
}

// AddToCart はカートに追加（同一の商品・サイズは数量加算）。
// 在庫チェックはしない。
func (u *CartUsecase) AddToCart(ctx context.Context, owner model.OwnerKey, in AddCartInput) (CartResponse, error) {
	if !owner.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "no cart owner")
	}
	if in.ProductID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid product_id")
	}
	if in.Quantity < 1 {
		in.Quantity = 1
	}

	p, err := u.productRepo.FindByID(ctx, in.ProductID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	//サイズ指定ありの商品は宣言済みサイズしか受け付けない
	if !p.AllowsSize(in.Size) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid size selection")
	}

	if err := u.cartItemRepo.UpsertLine(ctx, owner, in.ProductID, in.Size, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, owner)
}

// 明細削除。他人の行はNotFound扱いで何も消さない。
func (u *CartUsecase) RemoveLine(ctx context.Context, owner model.OwnerKey, cartItemID int64) (CartResponse, error) {
	if !owner.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "no cart owner")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.cartItemRepo.FindByIDForOwner(ctx, cartItemID, owner); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if err == repo.ErrNotFound {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.buildCartResponse(ctx, owner)
}

// 数量変更。increaseは常に+1、decreaseは1を下回らない範囲で-1。
// 0にはならない。消すときはRemoveLineを使う。
func (u *CartUsecase) AdjustQuantity(ctx context.Context, owner model.OwnerKey, cartItemID int64, direction string) (CartResponse, error) {
	if !owner.Valid() {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "no cart owner")
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if direction != AdjustIncrease && direction != AdjustDecrease {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid action")
	}

	item, err := u.cartItemRepo.FindByIDForOwner(ctx, cartItemID, owner)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	newQty := item.Quantity
	switch direction {
	case AdjustIncrease:
		newQty++
	case AdjustDecrease:
		if item.Quantity > 1 {
			newQty--
		}
	}

	if newQty != item.Quantity {
		if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, newQty); err != nil {
			if err == repo.ErrNotFound {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return u.buildCartResponse(ctx, owner)
}

// 持ち主の明細をまとめてCartResponseを作る。
// 合計は毎回ライブのカタログ価格で計算する。
func (u *CartUsecase) buildCartResponse(ctx context.Context, owner model.OwnerKey) (CartResponse, error) {
	items, err := u.cartItemRepo.ListByOwner(ctx, owner)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	respItems := make([]CartLineResponse, 0, len(items))
	total := decimal.Zero

	for _, it := range items {
		p, err := u.productRepo.FindByID(ctx, it.ProductID)
		if err != nil {
			continue
		}

		respItems = append(respItems, CartLineResponse{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      p.Name,
			Size:      it.Size,
			Price:     p.Price,
			Quantity:  it.Quantity,
		})

		total = total.Add(p.Price.Mul(decimal.NewFromInt(it.Quantity)))
	}

	return CartResponse{Items: respItems, Total: total}, nil
}
