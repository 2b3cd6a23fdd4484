package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// 厨房スタッフ向けの注文ステータス操作。
type StaffOrderUsecase struct {
	orderRepo     repo.OrderRepository
	orderItemRepo repo.OrderItemRepository
}

func NewStaffOrderUsecase(orderRepo repo.OrderRepository, orderItemRepo repo.OrderItemRepository) *StaffOrderUsecase {
	return &StaffOrderUsecase{orderRepo: orderRepo, orderItemRepo: orderItemRepo}
}

type UpdateOrderStatusInput struct {
	Status string
}

// ステータス更新。STAFFロールのみ。
func (u *StaffOrderUsecase) UpdateStatus(ctx context.Context, actorRole string, orderID int64, in UpdateOrderStatusInput) (OrderOutput, error) {
	if actorRole != string(model.RoleStaff) {
		return OrderOutput{}, ErrForbidden
	}
	if orderID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := strings.TrimSpace(in.Status)
	switch newStatus {
	case "PREPARING", "READY", "CANCELED":
		// OK
	default:
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	o, err := u.orderRepo.FindByID(ctx, orderID)
	if errors.Is(err, repo.ErrNotFound) {
		return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	// 終端ガード
	if o.Status == model.OrderStatusCanceled {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "cannot change canceled order")
	}
	if o.Status == model.OrderStatusReady && newStatus != "CANCELED" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "order already ready")
	}

	if string(o.Status) != newStatus {
		if err := u.orderRepo.UpdateStatus(ctx, orderID, model.OrderStatus(newStatus)); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return OrderOutput{}, NewHTTPError(http.StatusNotFound, "not found")
			}
			return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		o.Status = model.OrderStatus(newStatus)
	}

	items, err := u.orderItemRepo.ListByOrderID(ctx, orderID)
	if err != nil {
		return OrderOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toOrderOutput(o, items, nil), nil
}
