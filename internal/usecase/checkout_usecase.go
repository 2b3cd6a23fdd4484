package usecase

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"app/internal/domain/model"
	"app/internal/notification"
	repo "app/internal/repository"

	"github.com/google/uuid"
)

// 注文確定イベントの発行先。nilなら発行しない。
type OrderEventPublisher interface {
	PublishOrderPlaced(ctx context.Context, msg model.OrderPlacedEvent) error
}

// CheckoutUsecase はカートを注文に変換する。
// ストアはクロスステートメントのトランザクションを提供しないので、
// 書き込みは 注文 → 注文明細 → カート全削除 の順に直列で行い、
// どの段階で落ちたかをCheckoutErrorで区別して返す。
// WritingLines以降の失敗は途中結果が残る（明細ゼロの注文、未クリアのカート）。
// 再送は冪等キーで同じ注文に合流し、足りない書き込みだけをやり直す。
type CheckoutUsecase struct {
	cart          *CartUsecase
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
	cartItemRepo  repo.CartItemRepository
	cache         CartCountCache
	events        OrderEventPublisher

	// 同一ユーザーの同時チェックアウトを1つに制限する
	mu       sync.Mutex
	inflight map[int64]struct{}
}

func NewCheckoutUsecase(
	cart *CartUsecase,
	orderRepo repo.OrderRepository,
	orderItemRepo repo.OrderItemRepository,
	cartItemRepo repo.CartItemRepository,
	cache CartCountCache,
	events OrderEventPublisher,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		cart:          cart,
		orderRepo:     orderRepo,
		orderItemRepo: orderItemRepo,
		cartItemRepo:  cartItemRepo,
		cache:         cache,
		events:        events,
		inflight:      map[int64]struct{}{},
	}
}

type OrderItemOutput struct {
	MenuItemID       int64  `json:"menu_item_id"`
	Name             string `json:"name"`
	PriceAtTimeCents int64  `json:"price_at_time_cents"`
	Quantity         int64  `json:"quantity"`
}

type OrderOutput struct {
	ID           int64                      `json:"id"`
	UserID       int64                      `json:"user_id"`
	Status       string                     `json:"status"`
	TotalCents   int64                      `json:"total_cents"`
	CreatedAt    time.Time                  `json:"created_at"`
	Items        []OrderItemOutput          `json:"items"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

// PlaceOrder はチェックアウト1回分。idempotencyKeyが空ならここで発番する。
func (u *CheckoutUsecase) PlaceOrder(ctx context.Context, userID int64, idempotencyKey string) (OrderOutput, error) {
	// Validating
	state := CheckoutStateValidating
	if userID <= 0 {
		return OrderOutput{}, ErrNotAuthenticated
	}

	if !u.acquire(userID) {
		return OrderOutput{}, ErrCheckoutInProgress
	}
	defer u.release(userID)

	key := strings.TrimSpace(idempotencyKey)
	if key == "" {
		key = uuid.NewString()
	}
	if len(key) > 255 {
		return OrderOutput{}, NewHTTPError(400, "invalid idempotency key")
	}

	// スナップショット取得。以後の価格はこの時点のものを使う。
	lines, err := u.cart.LoadLines(ctx, userID)
	if err != nil {
		return OrderOutput{}, err
	}

	// 再送なら既存注文へ合流（新しい注文は作らない）
	existing, found, err := u.orderRepo.FindByIdempotencyKey(ctx, userID, key)
	if err != nil {
		return OrderOutput{}, &CheckoutError{State: state, Err: err}
	}
	if found {
		return u.resume(ctx, existing, lines)
	}

	if len(lines) == 0 {
		return OrderOutput{}, ErrEmptyCart
	}

	total := CartTotalCents(lines)

	// CreatingOrder。ここで落ちても何も書かれていないので再送は安全。
	state = CheckoutStateCreatingOrder
	now := time.Now()
	orderID, err := u.orderRepo.Create(ctx, model.Order{
		UserID:         userID,
		Status:         model.OrderStatusPending,
		TotalCents:     total,
		IdempotencyKey: key,
		CreatedAt:      now,
		UpdatedAt:      now,
	})
	if err != nil {
		return OrderOutput{}, &CheckoutError{State: state, Err: err}
	}

	// WritingLines。数量と価格はスナップショットから写す。
	state = CheckoutStateWritingLines
	items := buildOrderItems(lines)
	if err := u.orderItemRepo.CreateBulk(ctx, orderID, items); err != nil {
		return OrderOutput{}, &CheckoutError{State: state, Err: err}
	}

	// ClearingCart。ここで落ちても注文自体は成立している。
	state = CheckoutStateClearingCart
	if err := u.cartItemRepo.DeleteAllByUserID(ctx, userID); err != nil {
		return OrderOutput{}, &CheckoutError{State: state, Err: err}
	}

	u.afterComplete(ctx, userID, orderID, total, len(items))

	created := model.Order{
		ID:         orderID,
		UserID:     userID,
		Status:     model.OrderStatusPending,
		TotalCents: total,
		CreatedAt:  now,
	}
	return toOrderOutput(created, items, placedNotification()), nil
}

// 再送合流。足りない書き込み（明細・カート削除）だけをやり直す。
func (u *CheckoutUsecase) resume(ctx context.Context, order model.Order, lines []CartLine) (OrderOutput, error) {
	items, err := u.orderItemRepo.ListByOrderID(ctx, order.ID)
	if err != nil {
		return OrderOutput{}, &CheckoutError{State: CheckoutStateWritingLines, Err: err}
	}

	// カートが空ならやり残しなし。初回の結果をそのまま返す。
	if len(lines) == 0 {
		return toOrderOutput(order, items, placedNotification()), nil
	}

	// 合流できるのはキー発番時と同じカートだけ。合計が注文と食い違うなら
	// 再送の間にカートが変わっているので、注文の合計を壊す前に弾く。
	if CartTotalCents(lines) != order.TotalCents {
		return OrderOutput{}, NewHTTPError(409, "cart has changed since this order was started; retry with a new idempotency key")
	}

	if len(items) == 0 {
		items = buildOrderItems(lines)
		if err := u.orderItemRepo.CreateBulk(ctx, order.ID, items); err != nil {
			return OrderOutput{}, &CheckoutError{State: CheckoutStateWritingLines, Err: err}
		}
	}

	if err := u.cartItemRepo.DeleteAllByUserID(ctx, order.UserID); err != nil {
		return OrderOutput{}, &CheckoutError{State: CheckoutStateClearingCart, Err: err}
	}

	// 初回が完了まで届かなかった注文なので、イベントはここで発行する。
	u.afterComplete(ctx, order.UserID, order.ID, order.TotalCents, len(items))

	return toOrderOutput(order, items, placedNotification()), nil
}

// ListMyOrders は自分の注文一覧（明細つき）。
func (u *CheckoutUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	orders, _, err := u.orderRepo.ListByUserID(ctx, userID, 1, 50)
	if err != nil {
		return nil, NewHTTPError(500, "db error")
	}

	outs := make([]OrderOutput, 0, len(orders))
	for _, o := range orders {
		items, err := u.orderItemRepo.ListByOrderID(ctx, o.ID)
		if err != nil {
			return nil, NewHTTPError(500, "db error")
		}
		outs = append(outs, toOrderOutput(o, items, nil))
	}
	return outs, nil
}

func (u *CheckoutUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, ErrNotAuthenticated
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(400, "invalid id")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return OrderOutput{}, NewHTTPError(404, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(500, "db error")
	}
	// 他人の注文は「存在しない扱い」にする
	if o.UserID != userID {
		return OrderOutput{}, NewHTTPError(404, "not found")
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(500, "db error")
	}

	return toOrderOutput(o, items, nil), nil
}

func (u *CheckoutUsecase) acquire(userID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	if _, ok := u.inflight[userID]; ok {
		return false
	}
	u.inflight[userID] = struct{}{}
	return true
}

func (u *CheckoutUsecase) release(userID int64) {
	u.mu.Lock()
	defer u.mu.Unlock()
	delete(u.inflight, userID)
}

// 完了後の後始末。どちらもベストエフォートで、失敗しても注文は成立のまま。
func (u *CheckoutUsecase) afterComplete(ctx context.Context, userID int64, orderID int64, total int64, itemCount int) {
	u.invalidateCount(ctx, userID)

	if u.events == nil {
		return
	}
	err := u.events.PublishOrderPlaced(ctx, model.OrderPlacedEvent{
		OrderID:    orderID,
		UserID:     userID,
		TotalCents: total,
		ItemCount:  itemCount,
		PlacedAt:   time.Now(),
	})
	if err != nil {
		log.Printf("WARNING: failed to publish order.placed for order %d: %v", orderID, err)
	}
}

func (u *CheckoutUsecase) invalidateCount(ctx context.Context, userID int64) {
	if u.cache == nil {
		return
	}
	_ = u.cache.InvalidateCartCount(ctx, userID)
}

func buildOrderItems(lines []CartLine) []model.OrderItem {
	now := time.Now()
	items := make([]model.OrderItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, model.OrderItem{
			MenuItemID:       l.Menu.ID,
			NameSnapshot:     l.Menu.Name,
			PriceAtTimeCents: l.Menu.PriceCents,
			Quantity:         l.Item.Quantity,
			CreatedAt:        now,
		})
	}
	return items
}

func placedNotification() *notification.Notification {
	n := notification.Normal("Order placed successfully", "Thank you for your order!")
	return &n
}

func toOrderOutput(o model.Order, items []model.OrderItem, n *notification.Notification) OrderOutput {
	outItems := make([]OrderItemOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderItemOutput{
			MenuItemID:       it.MenuItemID,
			Name:             it.NameSnapshot,
			PriceAtTimeCents: it.PriceAtTimeCents,
			Quantity:         it.Quantity,
		})
	}

	return OrderOutput{
		ID:           o.ID,
		UserID:       o.UserID,
		Status:       string(o.Status),
		TotalCents:   o.TotalCents,
		CreatedAt:    o.CreatedAt,
		Items:        outItems,
		Notification: n,
	}
}
