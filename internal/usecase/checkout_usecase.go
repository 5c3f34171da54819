package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
	auth "app/internal/usecase/auth_usecase"
	"app/internal/validator"

	"github.com/shopspring/decimal"
)

// 本人確認の経路。確認メッセージの出し分けに使う。
const (
	IdentityAuthenticated  = "authenticated"
	IdentityReturningGuest = "returning_guest"
	IdentityNewAccount     = "new_account"
)

// リクエスト時点の呼び出し主。
// SessionKeyはログインでセッションが変わる前に取った値を渡すこと。
// マイグレーション対象の行はこのキーで探す。
type CheckoutActor struct {
	BuyerID    int64 // 0なら匿名
	SessionKey string
}

type CheckoutInput struct {
	DeliveryAddress string
	Phone           string
}

type CheckoutOutput struct {
	Order    OrderOutput `json:"order"`
	Identity string      `json:"identity"`
	Message  string      `json:"message"`
	//ゲスト経路で解決したアカウントのログイン用トークン
	AccessToken string `json:"access_token,omitempty"`
	ExpiresIn   int    `json:"expires_in,omitempty"`
}

// CheckoutUsecase はカートから注文を確定する。
// 本人解決・価格スナップショット・注文作成・カートクリアを1つのTxで行う。
type CheckoutUsecase struct {
	tx     repo.TransactionManager
	hasher auth.PasswordHasher
	issuer auth.AccessTokenIssuer
	clock  auth.Clock
}

func NewCheckoutUsecase(
	tx repo.TransactionManager,
	hasher auth.PasswordHasher,
	issuer auth.AccessTokenIssuer,
	clock auth.Clock,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		tx:     tx,
		hasher: hasher,
		issuer: issuer,
		clock:  clock,
	}
}

func (u *CheckoutUsecase) Checkout(ctx context.Context, actor CheckoutActor, in CheckoutInput) (CheckoutOutput, error) {
	var out CheckoutOutput

	ownerKey := actorOwnerKey(actor)
	if !ownerKey.Valid() {
		return out, NewHTTPError(http.StatusBadRequest, "no cart owner")
	}

	//入力検証。失敗なら何も書かない。
	phone, err := validator.ValidateCheckout(in.DeliveryAddress, in.Phone)
	if err != nil {
		return out, NewHTTPError(http.StatusBadRequest, err.Error())
	}
	address := strings.TrimSpace(in.DeliveryAddress)

	var resolvedUser model.User

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得。空なら注文は作らない。
		lines, err := r.CartItems().ListByOwner(ctx, ownerKey)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(lines) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//本人解決
		buyer, identity, err := u.resolveBuyer(ctx, r, actor, phone)
		if err != nil {
			return err
		}

		buyerKey := model.BuyerOwner(buyer.ID)

		//匿名カートは価格計算の前に買い手へ付け替える。
		//元のセッションキーで探す。
		if !ownerKey.Authenticated() {
			if err := u.migrateSessionCart(ctx, r, actor.SessionKey, lines, buyer.ID); err != nil {
				return err
			}
			lines, err = r.CartItems().ListByOwner(ctx, buyerKey)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if len(lines) == 0 {
				return NewHTTPError(http.StatusBadRequest, "cart empty")
			}
		}

		//今この瞬間の単価でスナップショット
		now := u.clock.Now()
		total := decimal.Zero
		orderItems := make([]model.OrderItem, 0, len(lines))

		for _, line := range lines {
			p, err := r.Products().FindByID(ctx, line.ProductID)
			if err == repo.ErrNotFound {
				//商品が消えた行は注文に含めない
				continue
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}

			productID := p.ID
			orderItems = append(orderItems, model.OrderItem{
				ProductID:   &productID,
				ProductName: p.Name,
				Size:        line.Size,
				Quantity:    line.Quantity,
				Price:       p.Price,
				CreatedAt:   now,
			})
			total = total.Add(p.Price.Mul(decimal.NewFromInt(line.Quantity)))
		}

		if len(orderItems) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//注文作成
		orderID, err := r.Orders().Create(ctx, model.Order{
			BuyerID:         buyer.ID,
			DeliveryAddress: address,
			Phone:           phone,
			Status:          model.OrderStatusNew,
			TotalAmount:     total,
			CreatedAt:       now,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if err := r.OrderItems().CreateBulk(ctx, orderID, orderItems); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートをクリア。注文作成と同じTxなのでどちらかだけ残ることはない。
		if err := r.CartItems().DeleteByOwner(ctx, buyerKey); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		resolvedUser = buyer
		out.Identity = identity
		out.Order = toOrderOutput(model.Order{
			ID:              orderID,
			BuyerID:         buyer.ID,
			DeliveryAddress: address,
			Phone:           phone,
			Status:          model.OrderStatusNew,
			TotalAmount:     total,
			CreatedAt:       now,
		}, orderItems)
		return nil
	})

	if err != nil {
		return CheckoutOutput{}, err
	}

	//ゲスト経路は解決したアカウントでそのままログインさせる
	if out.Identity != IdentityAuthenticated {
		now := u.clock.Now()
		token, expiresAt, err := u.issuer.Issue(resolvedUser.ID, resolvedUser.Role, now)
		if err != nil {
			return CheckoutOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
		}
		out.AccessToken = token
		out.ExpiresIn = int(expiresAt.Sub(now).Seconds())
	}

	out.Message = checkoutMessage(out.Identity, out.Order.ID)
	return out, nil
}

// セッションカートを買い手へ付け替える。
// 買い手が同じ(商品, サイズ)の行を既に持っている場合はそちらへ数量を合算し、
// セッション側の行は消す。1持ち主に同じ行を2本残さないため。
// 残った行はまとめて付け替える。
func (u *CheckoutUsecase) migrateSessionCart(ctx context.Context, r repo.TxRepos, sessionKey string, sessionLines []model.CartItem, buyerID int64) error {
	buyerKey := model.BuyerOwner(buyerID)

	buyerLines, err := r.CartItems().ListByOwner(ctx, buyerKey)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	type lineKey struct {
		productID int64
		size      string
	}
	held := make(map[lineKey]bool, len(buyerLines))
	for _, line := range buyerLines {
		held[lineKey{line.ProductID, line.Size}] = true
	}

	for _, line := range sessionLines {
		if !held[lineKey{line.ProductID, line.Size}] {
			continue
		}
		if err := r.CartItems().UpsertLine(ctx, buyerKey, line.ProductID, line.Size, line.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.CartItems().DeleteByID(ctx, line.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
	}

	if err := r.CartItems().ReassignSession(ctx, sessionKey, buyerID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// 呼び出し主から持ち主キーを作る。
func actorOwnerKey(actor CheckoutActor) model.OwnerKey {
	if actor.BuyerID > 0 {
		return model.BuyerOwner(actor.BuyerID)
	}
	return model.SessionOwner(actor.SessionKey)
}

// 本人解決。
// ログイン済みならその本人。匿名なら電話番号でアカウントを探し、無ければ作る。
func (u *CheckoutUsecase) resolveBuyer(ctx context.Context, r repo.TxRepos, actor CheckoutActor, phone string) (model.User, string, error) {
	if actor.BuyerID > 0 {
		user, err := r.Users().FindByID(ctx, actor.BuyerID)
		if err != nil {
			return model.User{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if user == nil {
			return model.User{}, "", NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return *user, IdentityAuthenticated, nil
	}

	//電話番号で既存アカウントを探す
	existing, err := r.Users().FindByPhone(ctx, phone)
	if err != nil {
		return model.User{}, "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return *existing, IdentityReturningGuest, nil
	}

	//新規アカウントを作る
	user, err := u.createGuestAccount(ctx, r, phone)
	if err != nil {
		return model.User{}, "", err
	}
	return user, IdentityNewAccount, nil
}

// 生成ユーザー名＋生成パスワードで購入者アカウントを作成。
func (u *CheckoutUsecase) createGuestAccount(ctx context.Context, r repo.TxRepos, phone string) (model.User, error) {
	username := ""
	for i := 0; i < 5; i++ {
		candidate := auth.GenerateGuestUsername()
		existing, err := r.Users().FindByUsername(ctx, candidate)
		if err != nil {
			return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if existing == nil {
			username = candidate
			break
		}
	}
	if username == "" {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	hashed, err := u.hasher.Hash(auth.GenerateGuestPassword())
	if err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := model.User{
		Username:     username,
		PasswordHash: hashed,
		Phone:        phone,
		Role:         model.RoleBuyer,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.Users().Create(ctx, &user); err != nil {
		return model.User{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return user, nil
}

// 経路ごとの確認メッセージ。文面の違いだけで、以降の処理は同じ。
func checkoutMessage(identity string, orderID int64) string {
	switch identity {
	case IdentityReturningGuest:
		return fmt.Sprintf("Order #%d placed. We matched your phone number to an existing account and signed you in.", orderID)
	case IdentityNewAccount:
		return fmt.Sprintf("Order #%d placed. An account was created for you from this phone number.", orderID)
	default:
		return fmt.Sprintf("Order #%d placed.", orderID)
	}
}
