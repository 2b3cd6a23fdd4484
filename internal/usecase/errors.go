package usecase

import (
	"errors"
	"fmt"
)

type HTTPError struct {
	Status  int
	Message string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func NewHTTPError(status int, message string) error {
	return &HTTPError{
		Status:  status,
		Message: message,
	}
}

func AsHTTPError(err error) (*HTTPError, bool) {
	var he *HTTPError
	ok := errors.As(err, &he)
	return he, ok
}

var (
	// セッションなし。ストアには一切触れずに返す。
	ErrNotAuthenticated = errors.New("not authenticated")
	// 空カートはチェックアウト不可
	ErrEmptyCart = errors.New("cart is empty, nothing to checkout")
	// 同一ユーザーの同時チェックアウトは2つ目を弾く
	ErrCheckoutInProgress = errors.New("checkout already in progress")
)

// チェックアウトのどの段階で落ちたかを呼び出し側から区別できるようにする。
// WritingLines以降の失敗は注文行が残る（ロールバックしない）。
type CheckoutError struct {
	State CheckoutState
	Err   error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout failed at %s: %v", e.State, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

func AsCheckoutError(err error) (*CheckoutError, bool) {
	var ce *CheckoutError
	ok := errors.As(err, &ce)
	return ce, ok
}
