package usecase

import (
	"context"
	"errors"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// Mocks（usecaseパッケージ内テストで共有）
// =====================

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByUserAndMenuItem(ctx context.Context, userID int64, menuItemID int64, addQty int64) error {
	args := m.Called(ctx, userID, menuItemID, addQty)
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

func (m *CartItemRepoMock) DeleteAllByUserID(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *CartItemRepoMock) IsOwnedByUser(ctx context.Context, cartItemID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartItemID, userID)
	return args.Bool(0), args.Error(1)
}

type MenuItemRepoMock struct{ mock.Mock }

func (m *MenuItemRepoMock) List(ctx context.Context, category string) ([]model.MenuItem, error) {
	args := m.Called(ctx, category)
	items, _ := args.Get(0).([]model.MenuItem)
	return items, args.Error(1)
}

func (m *MenuItemRepoMock) FindByID(ctx context.Context, id int64) (model.MenuItem, error) {
	args := m.Called(ctx, id)
	item, _ := args.Get(0).(model.MenuItem)
	return item, args.Error(1)
}

func (m *MenuItemRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuItemRepoMock) CreateBulk(ctx context.Context, items []model.MenuItem) error {
	args := m.Called(ctx, items)
	return args.Error(0)
}

type CartCountCacheMock struct{ mock.Mock }

func (m *CartCountCacheMock) GetCartCount(ctx context.Context, userID int64) (int64, bool, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Bool(1), args.Error(2)
}

func (m *CartCountCacheMock) SetCartCount(ctx context.Context, userID int64, count int64) error {
	args := m.Called(ctx, userID, count)
	return args.Error(0)
}

func (m *CartCountCacheMock) InvalidateCartCount(ctx context.Context, userID int64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// =====================
// CartTotalCents
// =====================

func TestCartTotalCents_SumsPriceTimesQuantity(t *testing.T) {
	lines := []CartLine{
		{Item: model.CartItem{Quantity: 2}, Menu: model.MenuItem{PriceCents: 1000}},
		{Item: model.CartItem{Quantity: 1}, Menu: model.MenuItem{PriceCents: 550}},
	}
	assert.Equal(t, int64(2550), CartTotalCents(lines))
}

func TestCartTotalCents_EmptyIsZero(t *testing.T) {
	assert.Equal(t, int64(0), CartTotalCents(nil))
}

// =====================
// GetCart
// =====================

func TestCartUsecase_GetCart_NotAuthenticated(t *testing.T) {
	uc := NewCartUsecase(new(CartItemRepoMock), new(MenuItemRepoMock), nil)

	_, err := uc.GetCart(context.Background(), 0)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCartUsecase_GetCart_SkipsDeletedMenuItems(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := NewCartUsecase(cartRepo, menuRepo, nil)

	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 1, UserID: 7, MenuItemID: 10, Quantity: 2},
		{ID: 2, UserID: 7, MenuItemID: 99, Quantity: 1},
	}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(10)).Return(model.MenuItem{ID: 10, Name: "Truffle Risotto", PriceCents: 2800}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(99)).Return(model.MenuItem{}, repo.ErrNotFound)

	out, err := uc.GetCart(ctx, 7)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(5600), out.TotalCents)
}

// =====================
// AddToCart
// =====================

func TestCartUsecase_AddToCart_MenuItemGone(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := NewCartUsecase(cartRepo, menuRepo, nil)

	menuRepo.On("FindByID", mock.Anything, int64(5)).Return(model.MenuItem{}, repo.ErrNotFound)

	_, err := uc.AddToCart(ctx, 7, AddCartInput{MenuItemID: 5, Quantity: 1})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
	cartRepo.AssertNotCalled(t, "UpsertByUserAndMenuItem", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCartUsecase_AddToCart_Success(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	cache := new(CartCountCacheMock)
	uc := NewCartUsecase(cartRepo, menuRepo, cache)

	dish := model.MenuItem{ID: 5, Name: "Wagyu Steak", PriceCents: 4500}
	menuRepo.On("FindByID", mock.Anything, int64(5)).Return(dish, nil)
	cartRepo.On("UpsertByUserAndMenuItem", mock.Anything, int64(7), int64(5), int64(2)).Return(nil)
	cache.On("InvalidateCartCount", mock.Anything, int64(7)).Return(nil)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 1, UserID: 7, MenuItemID: 5, Quantity: 2},
	}, nil)

	out, err := uc.AddToCart(ctx, 7, AddCartInput{MenuItemID: 5, Quantity: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(9000), out.TotalCents)
	if assert.NotNil(t, out.Notification) {
		assert.Equal(t, "Added to cart", out.Notification.Title)
	}
	cartRepo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestCartUsecase_AddToCart_InvalidQuantity(t *testing.T) {
	uc := NewCartUsecase(new(CartItemRepoMock), new(MenuItemRepoMock), nil)

	_, err := uc.AddToCart(context.Background(), 7, AddCartInput{MenuItemID: 5, Quantity: 0})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

// =====================
// UpdateCartItem
// =====================

func TestCartUsecase_UpdateCartItem_QuantityBelowOneIsNoOp(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := NewCartUsecase(cartRepo, menuRepo, nil)

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(7)).Return(true, nil)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 3, UserID: 7, MenuItemID: 5, Quantity: 2},
	}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(5)).Return(model.MenuItem{ID: 5, PriceCents: 1000}, nil)

	out, err := uc.UpdateCartItem(ctx, 7, 3, UpdateCartItemInput{Quantity: 0})
	assert.NoError(t, err)
	assert.Equal(t, int64(2000), out.TotalCents)
	cartRepo.AssertNotCalled(t, "UpdateQuantity", mock.Anything, mock.Anything, mock.Anything)
	cartRepo.AssertNotCalled(t, "DeleteByID", mock.Anything, mock.Anything)
}

func TestCartUsecase_UpdateCartItem_Success(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := NewCartUsecase(cartRepo, menuRepo, nil)

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(7)).Return(true, nil)
	cartRepo.On("UpdateQuantity", mock.Anything, int64(3), int64(5)).Return(nil)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{ID: 3, UserID: 7, MenuItemID: 5, Quantity: 5},
	}, nil)
	menuRepo.On("FindByID", mock.Anything, int64(5)).Return(model.MenuItem{ID: 5, PriceCents: 1000}, nil)

	out, err := uc.UpdateCartItem(ctx, 7, 3, UpdateCartItemInput{Quantity: 5})
	assert.NoError(t, err)
	assert.Equal(t, int64(5000), out.TotalCents)
	cartRepo.AssertExpectations(t)
}

func TestCartUsecase_UpdateCartItem_NotOwned(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	uc := NewCartUsecase(cartRepo, new(MenuItemRepoMock), nil)

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(7)).Return(false, nil)

	_, err := uc.UpdateCartItem(ctx, 7, 3, UpdateCartItemInput{Quantity: 2})
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

// =====================
// DeleteCartItem
// =====================

func TestCartUsecase_DeleteCartItem_Success(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	menuRepo := new(MenuItemRepoMock)
	uc := NewCartUsecase(cartRepo, menuRepo, nil)

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(7)).Return(true, nil)
	cartRepo.On("DeleteByID", mock.Anything, int64(3)).Return(nil)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{}, nil)

	out, err := uc.DeleteCartItem(ctx, 7, 3)
	assert.NoError(t, err)
	assert.Empty(t, out.Items)
	if assert.NotNil(t, out.Notification) {
		assert.Equal(t, "Item removed", out.Notification.Title)
	}
}

func TestCartUsecase_DeleteCartItem_DBError(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	uc := NewCartUsecase(cartRepo, new(MenuItemRepoMock), nil)

	cartRepo.On("IsOwnedByUser", mock.Anything, int64(3), int64(7)).Return(true, nil)
	cartRepo.On("DeleteByID", mock.Anything, int64(3)).Return(errors.New("boom"))

	_, err := uc.DeleteCartItem(ctx, 7, 3)
	he, ok := AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, he.Status)
}

// =====================
// CartCount
// =====================

func TestCartUsecase_CartCount_CacheHitSkipsDB(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	cache := new(CartCountCacheMock)
	uc := NewCartUsecase(cartRepo, new(MenuItemRepoMock), cache)

	cache.On("GetCartCount", mock.Anything, int64(7)).Return(int64(3), true, nil)

	n, err := uc.CartCount(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	cartRepo.AssertNotCalled(t, "ListByUserID", mock.Anything, mock.Anything)
}

func TestCartUsecase_CartCount_CacheMissCountsAndFills(t *testing.T) {
	ctx := context.Background()
	cartRepo := new(CartItemRepoMock)
	cache := new(CartCountCacheMock)
	uc := NewCartUsecase(cartRepo, new(MenuItemRepoMock), cache)

	cache.On("GetCartCount", mock.Anything, int64(7)).Return(int64(0), false, nil)
	cartRepo.On("ListByUserID", mock.Anything, int64(7)).Return([]model.CartItem{
		{Quantity: 2},
		{Quantity: 1},
	}, nil)
	cache.On("SetCartCount", mock.Anything, int64(7), int64(3)).Return(nil)

	n, err := uc.CartCount(ctx, 7)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), n)
	cache.AssertExpectations(t)
}
