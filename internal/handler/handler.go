package handler

import (
	"errors"
	"net/http"

	"app/internal/middleware"
	"app/internal/notification"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error        string                     `json:"error"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

// writeError はusecaseのエラーをHTTPレスポンスへ変換する。
// チェックアウト系の失敗は必ずdestructive通知を1つ添える。
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	if ce, ok := usecase.AsCheckoutError(err); ok {
		msg := checkoutErrorMessage(ce.State)
		n := notification.Destructive("Error", msg)
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: msg, Notification: &n})
	}

	switch {
	case errors.Is(err, usecase.ErrNotAuthenticated), errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, usecase.ErrEmptyCart):
		n := notification.Destructive("Error", "Your cart is empty")
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart empty", Notification: &n})
	case errors.Is(err, usecase.ErrCheckoutInProgress):
		n := notification.Destructive("Error", "A checkout is already in progress")
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "checkout in progress", Notification: &n})
	case errors.Is(err, usecase.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation error"})
	case errors.Is(err, usecase.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "conflict"})
	}

	//500（ストア側の不調を含むcatch-all）
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func checkoutErrorMessage(state usecase.CheckoutState) string {
	switch state {
	case usecase.CheckoutStateCreatingOrder:
		return "Failed to create your order"
	case usecase.CheckoutStateWritingLines:
		return "Failed to save your order items"
	case usecase.CheckoutStateClearingCart:
		return "Your order was placed but the cart could not be cleared"
	default:
		return "Checkout failed"
	}
}

// AuthJWTが入れたuser_idを取り出す
func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	userID, ok := v.(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}
