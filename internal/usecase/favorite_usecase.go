package usecase

import (
	"context"
	"errors"
	"net/http"

	repo "app/internal/repository"
)

type FavoriteUsecase struct {
	favoriteRepo repo.FavoriteRepository
	menuRepo     repo.MenuItemRepository
}

func NewFavoriteUsecase(favoriteRepo repo.FavoriteRepository, menuRepo repo.MenuItemRepository) *FavoriteUsecase {
	return &FavoriteUsecase{favoriteRepo: favoriteRepo, menuRepo: menuRepo}
}

type FavoriteResponse struct {
	MenuItemID int64  `json:"menu_item_id"`
	Name       string `json:"name"`
	PriceCents int64  `json:"price_cents"`
	Image      string `json:"image"`
}

func (u *FavoriteUsecase) Add(ctx context.Context, userID int64, menuItemID int64) error {
	if userID <= 0 {
		return ErrNotAuthenticated
	}
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if _, err := u.menuRepo.FindByID(ctx, menuItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.favoriteRepo.Add(ctx, userID, menuItemID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *FavoriteUsecase) Remove(ctx context.Context, userID int64, menuItemID int64) error {
	if userID <= 0 {
		return ErrNotAuthenticated
	}
	if menuItemID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	if err := u.favoriteRepo.Remove(ctx, userID, menuItemID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// お気に入り一覧。メニューが消えているものは読み飛ばす。
func (u *FavoriteUsecase) ListMine(ctx context.Context, userID int64) ([]FavoriteResponse, error) {
	if userID <= 0 {
		return nil, ErrNotAuthenticated
	}

	favs, err := u.favoriteRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]FavoriteResponse, 0, len(favs))
	for _, f := range favs {
		m, err := u.menuRepo.FindByID(ctx, f.MenuItemID)
		if errors.Is(err, repo.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, NewHTTPError(http.StatusInternalServerError, "db error")
		}
		outs = append(outs, FavoriteResponse{
			MenuItemID: m.ID,
			Name:       m.Name,
			PriceCents: m.PriceCents,
			Image:      m.Image,
		})
	}
	return outs, nil
}
