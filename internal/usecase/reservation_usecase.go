package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"app/internal/domain/model"
	"app/internal/notification"
	repo "app/internal/repository"
)

// 席サイズの固定バケット。guestsを超えない最小の席を割り当てる。
var tableCapacities = []int{2, 4, 6, 8, 10}

const (
	minGuests = 1
	maxGuests = 10
)

type ReservationUsecase struct {
	reservationRepo repo.ReservationRepository
	now             func() time.Time
}

func NewReservationUsecase(reservationRepo repo.ReservationRepository) *ReservationUsecase {
	return &ReservationUsecase{
		reservationRepo: reservationRepo,
		now:             time.Now,
	}
}

type CreateReservationInput struct {
	Date   string // "2006-01-02"
	Time   string // "15:04"
	Guests int
}

type ReservationResponse struct {
	ID           int64                      `json:"id"`
	Date         string                     `json:"date"`
	Time         string                     `json:"time"`
	Guests       int                        `json:"guests"`
	Capacity     int                        `json:"capacity"`
	Status       string                     `json:"status"`
	Notification *notification.Notification `json:"notification,omitempty"`
}

// Create は予約リクエスト。検証が全部通るまでストアには書かない。
func (u *ReservationUsecase) Create(ctx context.Context, userID int64, in CreateReservationInput) (ReservationResponse, error) {
	if userID <= 0 {
		return ReservationResponse{}, ErrNotAuthenticated
	}

	date, err := time.Parse("2006-01-02", in.Date)
	if err != nil {
		return ReservationResponse{}, NewHTTPError(http.StatusBadRequest, "invalid date")
	}
	if _, err := time.Parse("15:04", in.Time); err != nil {
		return ReservationResponse{}, NewHTTPError(http.StatusBadRequest, "invalid time")
	}
	if in.Guests < minGuests || in.Guests > maxGuests {
		return ReservationResponse{}, NewHTTPError(http.StatusBadRequest, "guests must be between 1 and 10")
	}

	// 過去日の予約は受け付けない。日付はサーバーのロケールの暦日で比べる
	// （UTC切り捨てだと深夜帯に当日予約が弾かれる）。
	y, m, d := u.now().Date()
	today := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return ReservationResponse{}, NewHTTPError(http.StatusBadRequest, "date must not be in the past")
	}

	capacity := capacityFor(in.Guests)

	id, err := u.reservationRepo.Create(ctx, model.Reservation{
		UserID:   userID,
		Date:     date,
		Time:     in.Time,
		Guests:   in.Guests,
		Capacity: capacity,
		Status:   model.ReservationStatusPending,
	})
	if err != nil {
		return ReservationResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	n := notification.Normal(
		"Reservation Requested",
		fmt.Sprintf("Table for %d on %s at %s", in.Guests, date.Format("Jan 2, 2006"), in.Time),
	)

	return ReservationResponse{
		ID:           id,
		Date:         date.Format("2006-01-02"),
		Time:         in.Time,
		Guests:       in.Guests,
		Capacity:     capacity,
		Status:       string(model.ReservationStatusPending),
		Notification: &n,
	}, nil
}

func (u *ReservationUsecase) ListMine(ctx context.Context, userID int64) ([]ReservationResponse, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	items, err := u.reservationRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ReservationResponse, 0, len(items))
	for _, r := range items {
		outs = append(outs, ReservationResponse{
			ID:       r.ID,
			Date:     r.Date.Format("2006-01-02"),
			Time:     r.Time,
			Guests:   r.Guests,
			Capacity: r.Capacity,
			Status:   string(r.Status),
		})
	}
	return outs, nil
}

// QRCodeContent は予約確認QRに入れる文字列。所有者以外には発行しない。
func (u *ReservationUsecase) QRCodeContent(ctx context.Context, userID int64, reservationID int64) (string, error) {
	if userID <= 0 {
		return "", ErrNotAuthenticated
	}

	r, err := u.reservationRepo.FindByID(ctx, reservationID)
	if errors.Is(err, repo.ErrNotFound) {
		return "", NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.UserID != userID {
		// 他人の予約は「存在しない扱い」にする
		return "", NewHTTPError(http.StatusNotFound, "not found")
	}

	return fmt.Sprintf("reservation:%d:%s:%s", r.ID, r.Date.Format("2006-01-02"), r.Time), nil
}

// guests以上で最小の席サイズ
func capacityFor(guests int) int {
	for _, c := range tableCapacities {
		if guests <= c {
			return c
		}
	}
	return tableCapacities[len(tableCapacities)-1]
}
