package usecase_test

import (
	"context"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（repositoryの差し替え）
// =====================

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByOwner(ctx context.Context, owner model.OwnerKey) ([]model.CartItem, error) {
	args := m.Called(ctx, owner)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) FindByIDForOwner(ctx context.Context, cartItemID int64, owner model.OwnerKey) (model.CartItem, error) {
	args := m.Called(ctx, cartItemID, owner)
	item, _ := args.Get(0).(model.CartItem)
	return item, args.Error(1)
}

func (m *CartItemRepoMock) UpsertLine(ctx context.Context, owner model.OwnerKey, productID int64, size string, addQty int64) error {
	args := m.Called(ctx, owner, productID, size, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartItemID int64, qty int64) error {
	args := m.Called(ctx, cartItemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByID(ctx context.Context, cartItemID int64) error {
	args := m.Called(ctx, cartItemID)
	return args.Error(0)
}

func (m *CartItemRepoMock) ReassignSession(ctx context.Context, sessionKey string, buyerID int64) error {
	args := m.Called(ctx, sessionKey, buyerID)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByOwner(ctx context.Context, owner model.OwnerKey) error {
	args := m.Called(ctx, owner)
	return args.Error(0)
}

func (m *CartItemRepoMock) DeleteByProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) List(ctx context.Context, q repo.ProductListQuery) ([]model.Product, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) ListByMaster(ctx context.Context, masterID int64) ([]model.Product, error) {
	args := m.Called(ctx, masterID)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) AddImage(ctx context.Context, img model.ProductImage) (model.ProductImage, error) {
	args := m.Called(ctx, img)
	created, _ := args.Get(0).(model.ProductImage)
	return created, args.Error(1)
}

func (m *ProductRepoMock) ListImages(ctx context.Context, productID int64) ([]model.ProductImage, error) {
	args := m.Called(ctx, productID)
	imgs, _ := args.Get(0).([]model.ProductImage)
	return imgs, args.Error(1)
}

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	cats, _ := args.Get(0).([]model.Category)
	return cats, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) GetOrCreateByName(ctx context.Context, name string) (model.Category, error) {
	args := m.Called(ctx, name)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	args := m.Called(ctx, username)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByBuyerID(ctx context.Context, buyerID int64) ([]model.Order, error) {
	args := m.Called(ctx, buyerID)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) ListByPhone(ctx context.Context, phone string) ([]model.Order, error) {
	args := m.Called(ctx, phone)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Error(1)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

type OrderItemRepoMock struct{ mock.Mock }

func (m *OrderItemRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderItem) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderItemRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderItem, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderItem)
	return items, args.Error(1)
}

func (m *OrderItemRepoMock) DetachProduct(ctx context.Context, productID int64) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) SetStock(ctx context.Context, productID int64, newStock int64) error {
	args := m.Called(ctx, productID, newStock)
	return args.Error(0)
}

func (m *InventoryRepoMock) CreateAdjustment(ctx context.Context, adjustment model.InventoryAdjustment) error {
	args := m.Called(ctx, adjustment)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) ListByResource(ctx context.Context, resourceType model.AuditResourceType, resourceID int64) ([]model.AuditLog, error) {
	args := m.Called(ctx, resourceType, resourceID)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Txの差し替え
// =====================

// fnにそのままモック束を渡すだけの疑似Tx。
type txReposStub struct {
	users      *UserRepoMock
	cartItems  *CartItemRepoMock
	orders     *OrderRepoMock
	orderItems *OrderItemRepoMock
	products   *ProductRepoMock
	inventory  *InventoryRepoMock
	auditLogs  *AuditLogRepoMock
}

func newTxReposStub() *txReposStub {
	return &txReposStub{
		users:      new(UserRepoMock),
		cartItems:  new(CartItemRepoMock),
		orders:     new(OrderRepoMock),
		orderItems: new(OrderItemRepoMock),
		products:   new(ProductRepoMock),
		inventory:  new(InventoryRepoMock),
		auditLogs:  new(AuditLogRepoMock),
	}
}

func (s *txReposStub) Users() repo.UserRepository           { return s.users }
func (s *txReposStub) CartItems() repo.CartItemRepository   { return s.cartItems }
func (s *txReposStub) Orders() repo.OrderRepository         { return s.orders }
func (s *txReposStub) OrderItems() repo.OrderItemRepository { return s.orderItems }
func (s *txReposStub) Products() repo.ProductRepository     { return s.products }
func (s *txReposStub) Inventory() repo.InventoryRepository  { return s.inventory }
func (s *txReposStub) AuditLogs() repo.AuditLogRepository   { return s.auditLogs }

type txManagerStub struct {
	repos *txReposStub
}

func (m *txManagerStub) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return fn(m.repos)
}

// =====================
// auth部品の差し替え
// =====================

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time {
	return c.now
}

type plainHasher struct{}

func (h *plainHasher) Hash(plain string) (string, error) {
	return "hashed:" + plain, nil
}

type staticIssuer struct {
	token string
	ttl   time.Duration
}

func (i *staticIssuer) Issue(userID int64, role model.Role, now time.Time) (string, time.Time, error) {
	return i.token, now.Add(i.ttl), nil
}
