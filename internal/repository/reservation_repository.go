package repository

import (
	"app/internal/domain/model"
	"context"
)

type ReservationRepository interface {
	Create(ctx context.Context, r model.Reservation) (int64, error)
	FindByID(ctx context.Context, reservationID int64) (model.Reservation, error)
	ListByUserID(ctx context.Context, userID int64) ([]model.Reservation, error)
}
