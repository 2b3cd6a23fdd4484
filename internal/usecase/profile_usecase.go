package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type ProfileUsecase struct {
	profileRepo repo.ProfileRepository
}

func NewProfileUsecase(profileRepo repo.ProfileRepository) *ProfileUsecase {
	return &ProfileUsecase{profileRepo: profileRepo}
}

type ProfileResponse struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	AvatarURL string `json:"avatar_url"`
}

type UpdateProfileInput struct {
	FirstName string
	LastName  string
	Phone     string
	AvatarURL string
}

// Get はプロフィール取得。未作成なら空で返す（エラーにしない）。
func (u *ProfileUsecase) Get(ctx context.Context, userID int64) (ProfileResponse, error) {
	if userID <= 0 {
		return ProfileResponse{}, ErrNotAuthenticated
	}

	p, err := u.profileRepo.FindByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProfileResponse{}, nil
	}
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProfileResponse{
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		AvatarURL: p.AvatarURL,
	}, nil
}

func (u *ProfileUsecase) Update(ctx context.Context, userID int64, in UpdateProfileInput) (ProfileResponse, error) {
	if userID <= 0 {
		return ProfileResponse{}, ErrNotAuthenticated
	}

	err := u.profileRepo.Upsert(ctx, model.Profile{
		UserID:    userID,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		AvatarURL: in.AvatarURL,
	})
	if err != nil {
		return ProfileResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return ProfileResponse{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		AvatarURL: in.AvatarURL,
	}, nil
}
