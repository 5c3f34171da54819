package usecase

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/shopspring/decimal"
)

// 公開カタログと出品者の商品管理。
type ProductUsecase struct {
	tx           repo.TransactionManager
	productRepo  repo.ProductRepository
	categoryRepo repo.CategoryRepository
}

func NewProductUsecase(
	tx repo.TransactionManager,
	productRepo repo.ProductRepository,
	categoryRepo repo.CategoryRepository,
) *ProductUsecase {
	return &ProductUsecase{
		tx:           tx,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
	}
}

type ProductOutput struct {
	ID          int64            `json:"id"`
	MasterID    int64            `json:"master_id"`
	CategoryID  *int64           `json:"category_id,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       decimal.Decimal  `json:"price"`
	OldPrice    *decimal.Decimal `json:"old_price,omitempty"`
	//old_price > price のときだけ入る
	DiscountPercent *int64    `json:"discount_percent,omitempty"`
	Stock           int64     `json:"stock"`
	Sizes           []string  `json:"sizes"`
	Images          []string  `json:"images,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type ListProductsInput struct {
	CategoryID *int64
	Limit      int
}

type SaveProductInput struct {
	CategoryID  *int64
	Name        string
	Description string
	Price       decimal.Decimal
	OldPrice    *decimal.Decimal
	Stock       int64
	//カンマ区切りのサイズコード
	Sizes string
}

// 公開一覧。カテゴリ絞り込み対応。サイズは重複除去済みで返す。
func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	products, err := u.productRepo.List(ctx, repo.ProductListQuery{
		CategoryID: in.CategoryID,
		Limit:      in.Limit,
	})
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p, nil))
	}
	return outs, nil
}

// トップ用の新着8件。
func (u *ProductUsecase) Latest(ctx context.Context) ([]ProductOutput, error) {
	return u.List(ctx, ListProductsInput{Limit: 8})
}

func (u *ProductUsecase) Detail(ctx context.Context, productID int64) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	images, err := u.productRepo.ListImages(ctx, productID)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toProductOutput(p, images), nil
}

func (u *ProductUsecase) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := u.categoryRepo.List(ctx)
	if err != nil {
		return []model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return cats, nil
}

// 出品者の自分の商品一覧。
func (u *ProductUsecase) ListMine(ctx context.Context, masterID int64) ([]ProductOutput, error) {
	if masterID <= 0 {
		return []ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	products, err := u.productRepo.ListByMaster(ctx, masterID)
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(products))
	for _, p := range products {
		outs = append(outs, toProductOutput(p, nil))
	}
	return outs, nil
}

// 商品作成（出品者のみ）。
func (u *ProductUsecase) Create(ctx context.Context, masterID int64, in SaveProductInput) (ProductOutput, error) {
	if masterID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	p, err := u.buildProduct(ctx, in)
	if err != nil {
		return ProductOutput{}, err
	}
	p.MasterID = masterID

	created, err := u.productRepo.Create(ctx, p)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductOutput(created, nil), nil
}

// 商品更新。他人の商品は存在しない扱い。
func (u *ProductUsecase) Update(ctx context.Context, masterID int64, productID int64, in SaveProductInput) (ProductOutput, error) {
	existing, err := u.findOwned(ctx, masterID, productID)
	if err != nil {
		return ProductOutput{}, err
	}

	p, err := u.buildProduct(ctx, in)
	if err != nil {
		return ProductOutput{}, err
	}
	p.ID = existing.ID
	p.MasterID = existing.MasterID

	if err := u.productRepo.Update(ctx, p); err != nil {
		if err == repo.ErrNotFound {
			return ProductOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	updated, err := u.productRepo.FindByID(ctx, productID)
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductOutput(updated, nil), nil
}

// 商品削除。
// 注文明細は参照だけ外して行を残す。カート行は消す。
func (u *ProductUsecase) Delete(ctx context.Context, masterID int64, productID int64) error {
	if _, err := u.findOwned(ctx, masterID, productID); err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.OrderItems().DetachProduct(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.CartItems().DeleteByProduct(ctx, productID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Products().Delete(ctx, productID); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
}

// 画像URLを商品に追加。
func (u *ProductUsecase) AddImage(ctx context.Context, masterID int64, productID int64, url string) (model.ProductImage, error) {
	if _, err := u.findOwned(ctx, masterID, productID); err != nil {
		return model.ProductImage{}, err
	}
	if strings.TrimSpace(url) == "" {
		return model.ProductImage{}, NewHTTPError(http.StatusBadRequest, "invalid image")
	}

	img, err := u.productRepo.AddImage(ctx, model.ProductImage{
		ProductID:  productID,
		URL:        url,
		UploadedAt: time.Now(),
	})
	if err != nil {
		return model.ProductImage{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return img, nil
}

// 在庫を設定。調整履歴と監査ログを同じTxで残す。
func (u *ProductUsecase) SetStock(ctx context.Context, masterID int64, productID int64, newStock int64, reason string) error {
	if newStock < 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	existing, err := u.findOwned(ctx, masterID, productID)
	if err != nil {
		return err
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if err := r.Inventory().SetStock(ctx, productID, newStock); err != nil {
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		if err := r.Inventory().CreateAdjustment(ctx, model.InventoryAdjustment{
			ProductID:    productID,
			MasterUserID: masterID,
			Delta:        newStock - existing.Stock,
			Reason:       strings.TrimSpace(reason),
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		beforeJSON := `{"stock":` + strconv.FormatInt(existing.Stock, 10) + `}`
		afterJSON := `{"stock":` + strconv.FormatInt(newStock, 10) + `}`
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  masterID,
			Action:       model.AuditActionUpdateStock,
			ResourceType: model.AuditResourceProduct,
			ResourceID:   productID,
			BeforeJSON:   beforeJSON,
			AfterJSON:    afterJSON,
			CreatedAt:    now,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		return nil
	})
}

// 自分の商品だけ触らせる。他人のはNotFound。
func (u *ProductUsecase) findOwned(ctx context.Context, masterID int64, productID int64) (model.Product, error) {
	if masterID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if productID <= 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	p, err := u.productRepo.FindByID(ctx, productID)
	if err == repo.ErrNotFound {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if p.MasterID != masterID {
		return model.Product{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return p, nil
}

// 入力を検証してProductを組み立てる。
func (u *ProductUsecase) buildProduct(ctx context.Context, in SaveProductInput) (model.Product, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "name required")
	}
	if !in.Price.IsPositive() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	if in.OldPrice != nil && !in.OldPrice.IsPositive() {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid old_price")
	}
	if in.Stock < 0 {
		return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid stock")
	}

	//サイズコードを正規化（重複除去）して検証
	sizes := model.ParseSizes(in.Sizes)
	for _, s := range sizes {
		if !model.IsValidSizeCode(s) {
			return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid size code")
		}
	}

	//カテゴリの存在確認
	if in.CategoryID != nil {
		if _, err := u.categoryRepo.FindByID(ctx, *in.CategoryID); err != nil {
			if err == repo.ErrNotFound {
				return model.Product{}, NewHTTPError(http.StatusBadRequest, "invalid category")
			}
			return model.Product{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	return model.Product{
		CategoryID:  in.CategoryID,
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		OldPrice:    in.OldPrice,
		Stock:       in.Stock,
		Sizes:       strings.Join(sizes, ","),
	}, nil
}

func toProductOutput(p model.Product, images []model.ProductImage) ProductOutput {
	out := ProductOutput{
		ID:          p.ID,
		MasterID:    p.MasterID,
		CategoryID:  p.CategoryID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		OldPrice:    p.OldPrice,
		Stock:       p.Stock,
		Sizes:       p.SizeList(),
		CreatedAt:   p.CreatedAt,
	}

	if pct, ok := p.DiscountPercent(); ok {
		out.DiscountPercent = &pct
	}

	if len(images) > 0 {
		urls := make([]string, 0, len(images))
		for _, img := range images {
			urls = append(urls, img.URL)
		}
		out.Images = urls
	}

	return out
}
