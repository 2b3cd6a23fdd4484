package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type ReservationGormRepository struct {
	db *gorm.DB
}

func NewReservationGormRepository(db *gorm.DB) *ReservationGormRepository {
	return &ReservationGormRepository{db: db}
}

func (r *ReservationGormRepository) Create(ctx context.Context, rv model.Reservation) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&rv).Error; err != nil {
		return 0, err
	}
	return rv.ID, nil
}

func (r *ReservationGormRepository) FindByID(ctx context.Context, reservationID int64) (model.Reservation, error) {
	var rv model.Reservation
	err := r.db.WithContext(ctx).Where("id = ?", reservationID).First(&rv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Reservation{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Reservation{}, err
	}
	return rv, nil
}

func (r *ReservationGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.Reservation, error) {
	var items []model.Reservation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("date asc, time asc").
		Find(&items).Error
	if err != nil {
		return []model.Reservation{}, err
	}
	return items, nil
}
