package usecase_test

import (
	"context"
	"testing"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newCheckoutUsecase(repos *txReposStub) *usecase.CheckoutUsecase {
	return usecase.NewCheckoutUsecase(
		&txManagerStub{repos: repos},
		&plainHasher{},
		&staticIssuer{token: "issued-token", ttl: 15 * time.Minute},
		&fixedClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	)
}

// =====================
// 入力検証
// =====================

func TestCheckout_EmptyAddress_CreatesNothing(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "   ",
		Phone:           "+7 (900) 123-45-67",
	})
	assertHTTPStatus(t, err, 400)

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_ShortPhone_CreatesNothing(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	//数字9桁しかない
	_, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+1 (23) 456-78-9",
	})
	assertHTTPStatus(t, err, 400)

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	repos.cartItems.AssertNotCalled(t, "DeleteByOwner", mock.Anything, mock.Anything)
}

func TestCheckout_EmptyCart_NoOrder(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	owner := model.BuyerOwner(1)
	repos.cartItems.On("ListByOwner", mock.Anything, owner).Return([]model.CartItem{}, nil)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+7 (900) 123-45-67",
	})
	assertHTTPStatus(t, err, 400)

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// ログイン済みの確定
// =====================

func TestCheckout_Authenticated_SnapshotsPriceAndClearsCart(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	owner := model.BuyerOwner(1)
	buyer := &model.User{ID: 1, Username: "aida", Role: model.RoleBuyer}

	repos.cartItems.On("ListByOwner", mock.Anything, owner).Return([]model.CartItem{
		{ID: 5, ProductID: 10, Size: "M", Quantity: 2},
	}, nil)
	repos.users.On("FindByID", mock.Anything, int64(1)).Return(buyer, nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Chapan", Price: decimal.NewFromInt(100),
	}, nil)

	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.BuyerID == 1 &&
			o.Phone == "79001234567" &&
			o.Status == model.OrderStatusNew &&
			o.TotalAmount.Equal(decimal.NewFromInt(200))
	})).Return(int64(77), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 &&
			items[0].ProductName == "Chapan" &&
			items[0].Quantity == 2 &&
			items[0].Price.Equal(decimal.NewFromInt(100))
	})).Return(nil)
	repos.cartItems.On("DeleteByOwner", mock.Anything, owner).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+7 (900) 123-45-67",
	})
	assert.NoError(t, err)
	assert.Equal(t, usecase.IdentityAuthenticated, out.Identity)
	assert.Equal(t, int64(77), out.Order.ID)
	assert.True(t, decimal.NewFromInt(200).Equal(out.Order.TotalAmount))
	//ログイン済みにはトークンを返さない
	assert.Empty(t, out.AccessToken)

	repos.cartItems.AssertExpectations(t)
	repos.orders.AssertExpectations(t)
	repos.orderItems.AssertExpectations(t)
	//匿名行の付け替えは走らない
	repos.cartItems.AssertNotCalled(t, "ReassignSession", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckout_SkipsDeletedProducts(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	owner := model.BuyerOwner(1)
	buyer := &model.User{ID: 1, Role: model.RoleBuyer}

	repos.cartItems.On("ListByOwner", mock.Anything, owner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
		{ID: 2, ProductID: 11, Quantity: 1},
	}, nil)
	repos.users.On("FindByID", mock.Anything, int64(1)).Return(buyer, nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, repo.ErrNotFound)
	repos.products.On("FindByID", mock.Anything, int64(11)).Return(model.Product{
		ID: 11, Name: "Belt", Price: decimal.NewFromInt(30),
	}, nil)

	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.TotalAmount.Equal(decimal.NewFromInt(30))
	})).Return(int64(78), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(78), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].ProductName == "Belt"
	})).Return(nil)
	repos.cartItems.On("DeleteByOwner", mock.Anything, owner).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "79001234567",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Order.Items))
}

func TestCheckout_AllProductsDeleted_NoOrder(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	owner := model.BuyerOwner(1)
	repos.cartItems.On("ListByOwner", mock.Anything, owner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
	}, nil)
	repos.users.On("FindByID", mock.Anything, int64(1)).Return(&model.User{ID: 1}, nil)
	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{}, repo.ErrNotFound)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutActor{BuyerID: 1}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "79001234567",
	})
	assertHTTPStatus(t, err, 400)

	repos.orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// =====================
// ゲストの確定
// =====================

func TestCheckout_AnonymousNewAccount_MigratesCartAndIssuesToken(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	sessionOwner := model.SessionOwner("sess-1")
	buyerOwner := model.BuyerOwner(42)

	repos.cartItems.On("ListByOwner", mock.Anything, sessionOwner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
	}, nil).Once()

	//電話番号では見つからない → アカウント新規作成
	repos.users.On("FindByPhone", mock.Anything, "79001234567").Return(nil, nil)
	repos.users.On("FindByUsername", mock.Anything, mock.Anything).Return(nil, nil)
	repos.users.On("Create", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		u := args.Get(1).(*model.User)
		u.ID = 42
	}).Return(nil)

	//付け替え前は買い手のカートは空
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{}, nil).Once()
	//付け替えてから買い手キーで読み直す
	repos.cartItems.On("ReassignSession", mock.Anything, "sess-1", int64(42)).Return(nil)
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
	}, nil).Once()

	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Chapan", Price: decimal.NewFromInt(100),
	}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.BuyerID == 42 && o.TotalAmount.Equal(decimal.NewFromInt(100))
	})).Return(int64(80), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(80), mock.Anything).Return(nil)
	repos.cartItems.On("DeleteByOwner", mock.Anything, buyerOwner).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutActor{SessionKey: "sess-1"}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+7 (900) 123-45-67",
	})
	assert.NoError(t, err)
	assert.Equal(t, usecase.IdentityNewAccount, out.Identity)
	assert.Equal(t, int64(42), out.Order.BuyerID)
	assert.Equal(t, "issued-token", out.AccessToken)
	assert.Equal(t, int(15*time.Minute/time.Second), out.ExpiresIn)

	repos.cartItems.AssertExpectations(t)
	repos.users.AssertExpectations(t)
	repos.orders.AssertExpectations(t)
}

func TestCheckout_AnonymousReturningGuest_AttachesToExistingAccount(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	sessionOwner := model.SessionOwner("sess-2")
	existing := &model.User{ID: 7, Username: "buyer_ab12cd", Phone: "79001234567", Role: model.RoleBuyer}
	buyerOwner := model.BuyerOwner(7)

	repos.cartItems.On("ListByOwner", mock.Anything, sessionOwner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
	}, nil).Once()
	repos.users.On("FindByPhone", mock.Anything, "79001234567").Return(existing, nil)
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{}, nil).Once()
	repos.cartItems.On("ReassignSession", mock.Anything, "sess-2", int64(7)).Return(nil)
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Quantity: 1},
	}, nil).Once()
	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Chapan", Price: decimal.NewFromInt(100),
	}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.BuyerID == 7
	})).Return(int64(81), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(81), mock.Anything).Return(nil)
	repos.cartItems.On("DeleteByOwner", mock.Anything, buyerOwner).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutActor{SessionKey: "sess-2"}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+7 (900) 123-45-67",
	})
	assert.NoError(t, err)
	assert.Equal(t, usecase.IdentityReturningGuest, out.Identity)
	assert.Equal(t, "issued-token", out.AccessToken)

	//新規アカウントは作っていない
	repos.users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCheckout_ReturningGuest_MergesDuplicateCartLine(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	sessionOwner := model.SessionOwner("sess-3")
	existing := &model.User{ID: 7, Username: "buyer_ab12cd", Phone: "79001234567", Role: model.RoleBuyer}
	buyerOwner := model.BuyerOwner(7)

	//セッション側とログイン側が同じ(商品, サイズ)を持っている
	repos.cartItems.On("ListByOwner", mock.Anything, sessionOwner).Return([]model.CartItem{
		{ID: 1, ProductID: 10, Size: "M", Quantity: 2},
	}, nil).Once()
	repos.users.On("FindByPhone", mock.Anything, "79001234567").Return(existing, nil)
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{
		{ID: 9, ProductID: 10, Size: "M", Quantity: 1},
	}, nil).Once()

	//重複行は買い手の行へ合算してセッション側を消す
	repos.cartItems.On("UpsertLine", mock.Anything, buyerOwner, int64(10), "M", int64(2)).Return(nil)
	repos.cartItems.On("DeleteByID", mock.Anything, int64(1)).Return(nil)
	repos.cartItems.On("ReassignSession", mock.Anything, "sess-3", int64(7)).Return(nil)

	//読み直すと1本に合流している
	repos.cartItems.On("ListByOwner", mock.Anything, buyerOwner).Return([]model.CartItem{
		{ID: 9, ProductID: 10, Size: "M", Quantity: 3},
	}, nil).Once()
	repos.products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{
		ID: 10, Name: "Chapan", Price: decimal.NewFromInt(100),
	}, nil)
	repos.orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		return o.BuyerID == 7 && o.TotalAmount.Equal(decimal.NewFromInt(300))
	})).Return(int64(82), nil)
	repos.orderItems.On("CreateBulk", mock.Anything, int64(82), mock.MatchedBy(func(items []model.OrderItem) bool {
		return len(items) == 1 && items[0].Quantity == 3
	})).Return(nil)
	repos.cartItems.On("DeleteByOwner", mock.Anything, buyerOwner).Return(nil)

	out, err := uc.Checkout(context.Background(), usecase.CheckoutActor{SessionKey: "sess-3"}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "+7 (900) 123-45-67",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, len(out.Order.Items))
	assert.True(t, decimal.NewFromInt(300).Equal(out.Order.TotalAmount))

	repos.cartItems.AssertExpectations(t)
}

func TestCheckout_NoOwnerAtAll(t *testing.T) {
	repos := newTxReposStub()
	uc := newCheckoutUsecase(repos)

	_, err := uc.Checkout(context.Background(), usecase.CheckoutActor{}, usecase.CheckoutInput{
		DeliveryAddress: "Some street 1",
		Phone:           "79001234567",
	})
	assertHTTPStatus(t, err, 400)
}
