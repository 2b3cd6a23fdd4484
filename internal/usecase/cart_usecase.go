package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	"app/internal/notification"
	repo "app/internal/repository"
)

// カート件数のキャッシュ。実装はredis。nilなら素通し。
type CartCountCache interface {
	GetCartCount(ctx context.Context, userID int64) (int64, bool, error)
	SetCartCount(ctx context.Context, userID int64, count int64) error
	InvalidateCartCount(ctx context.Context, userID int64) error
}

// CartUsecase は /cart の業務ロジックです。
type CartUsecase struct {
	cartItemRepo repo.CartItemRepository
	menuRepo     repo.MenuItemRepository
	cache        CartCountCache
}

func NewCartUsecase(
	cartItemRepo repo.CartItemRepository,
	menuRepo repo.MenuItemRepository,
	cache CartCountCache,
) *CartUsecase {
	return &CartUsecase{
		cartItemRepo: cartItemRepo,
		menuRepo:     menuRepo,
		cache:        cache,
	}
}

// カート明細とメニューの結合ビュー。チェックアウトはこのスナップショットの
// 価格だけを使い、以後メニューを再取得しない。
type CartLine struct {
	Item model.CartItem
	Menu model.MenuItem
}

type CartItemResponse struct {
	ID         int64  `json:"id"`
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Quantity   int64  `json:"quantity"`
	Image      string `json:"image"`
}

type CartResponse struct {
	Items        []CartItemResponse         `json:"items"`
	TotalCents   int64                      `json:"total_cents"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

type AddCartInput struct {
	MenuItemID int64
	Quantity   int64
}

type UpdateCartItemInput struct {
	Quantity int64
}

// CartTotalCents は price × quantity の総和。centsのまま足すので
// 途中で丸めは入らない。表示用の丸めは出口でだけ行う。
func CartTotalCents(lines []CartLine) int64 {
	var total int64 = 0
	for _, l := range lines {
		total += l.Menu.PriceCents * l.Item.Quantity
	}
	return total
}

// LoadLines はカート明細をメニューと結合して返す。
// メニューが消えている明細は表示不能なので読み飛ばす。
func (u *CartUsecase) LoadLines(ctx context.Context, userID int64) ([]CartLine, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		m, err := u.menuRepo.FindByID(ctx, it.MenuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		lines = append(lines, CartLine{Item: it, Menu: m})
	}

	return lines, nil
}

// GetCart はカート取得。空カートは正常（空のitemsを返す）。
func (u *CartUsecase) GetCart(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.LoadLines(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(lines, nil), nil
}

// AddToCart はカートに追加（同一メニューは数量加算）。
func (u *CartUsecase) AddToCart(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrNotAuthenticated
	}
	if in.MenuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	// メニュー存在チェック
	m, err := u.menuRepo.FindByID(ctx, in.MenuItemID)
	if errors.Is(err, repo.ErrNotFound) {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.cartItemRepo.UpsertByUserAndMenuItem(ctx, userID, in.MenuItemID, in.Quantity); err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCount(ctx, userID)

	lines, err := u.LoadLines(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	n := notification.Normal("Added to cart", m.Name+" has been added to your cart.")
	return toCartResponse(lines, &n), nil
}

// 数量変更。quantity < 1 は削除扱いにせずno-op（削除は明示操作のみ）。
func (u *CartUsecase) UpdateCartItem(ctx context.Context, userID int64, cartItemID int64, in UpdateCartItemInput) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrNotAuthenticated
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if in.Quantity >= 1 {
		if err := u.cartItemRepo.UpdateQuantity(ctx, cartItemID, in.Quantity); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		u.invalidateCount(ctx, userID)
	}

	lines, err := u.LoadLines(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}
	return toCartResponse(lines, nil), nil
}

// 明細削除
func (u *CartUsecase) DeleteCartItem(ctx context.Context, userID int64, cartItemID int64) (CartResponse, error) {
	if userID <= 0 {
		return CartResponse{}, ErrNotAuthenticated
	}
	if cartItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	owned, err := u.cartItemRepo.IsOwnedByUser(ctx, cartItemID, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !owned {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	if err := u.cartItemRepo.DeleteByID(ctx, cartItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.invalidateCount(ctx, userID)

	lines, err := u.LoadLines(ctx, userID)
	if err != nil {
		return CartResponse{}, err
	}

	n := notification.Normal("Item removed", "Item has been removed from your cart")
	return toCartResponse(lines, &n), nil
}

// バッジ表示用のカート件数。キャッシュ優先、ミス時はDBから数えて埋め直す。
func (u *CartUsecase) CartCount(ctx context.Context, userID int64) (int64, error) {
	if userID <= 0 {
		return 0, ErrNotAuthenticated
	}

	if u.cache != nil {
		if n, hit, err := u.cache.GetCartCount(ctx, userID); err == nil && hit {
			return n, nil
		}
	}

	items, err := u.cartItemRepo.ListByUserID(ctx, userID)
	if err != nil {
		return 0, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	var n int64 = 0
	for _, it := range items {
		n += it.Quantity
	}

	if u.cache != nil {
		_ = u.cache.SetCartCount(ctx, userID, n)
	}
	return n, nil
}

// カート変更後の明示的なキャッシュ無効化
func (u *CartUsecase) invalidateCount(ctx context.Context, userID int64) {
	if u.cache == nil {
		return
	}
	_ = u.cache.InvalidateCartCount(ctx, userID)
}

func toCartResponse(lines []CartLine, n *notification.Notification) CartResponse {
	items := make([]CartItemResponse, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartItemResponse{
			ID:         l.Item.ID,
			MenuItemID: l.Menu.ID,
			Name:       l.Menu.Name,
			PriceCents: l.Menu.PriceCents,
			Quantity:   l.Item.Quantity,
			Image:      l.Menu.Image,
		})
	}

	return CartResponse{
		Items:        items,
		TotalCents:   CartTotalCents(lines),
		Notification: n,
	}
}
