package usecase

import (
	"context"
	"errors"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

// メニュー一覧のキャッシュ。実装はredis。nilなら素通し。
type MenuCache interface {
	GetMenu(ctx context.Context, category string) ([]model.MenuItem, bool, error)
	SetMenu(ctx context.Context, category string, items []model.MenuItem) error
}

type MenuUsecase struct {
	menuRepo repo.MenuItemRepository
	cache    MenuCache
}

func NewMenuUsecase(menuRepo repo.MenuItemRepository, cache MenuCache) *MenuUsecase {
	return &MenuUsecase{menuRepo: menuRepo, cache: cache}
}

type MenuItemResponse struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	PriceCents  int64  `json:"price_cents"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	Spicy       bool   `json:"spicy"`
	Vegetarian  bool   `json:"vegetarian"`
}

// List はメニュー一覧。キャッシュ優先、ミス時はDBから読んで埋める。
// メニューはこの側から変更されないのでTTL失効だけで十分。
func (u *MenuUsecase) List(ctx context.Context, category string) ([]MenuItemResponse, error) {
	if u.cache != nil {
		if items, hit, err := u.cache.GetMenu(ctx, category); err == nil && hit {
			return toMenuResponses(items), nil
		}
	}

	items, err := u.menuRepo.List(ctx, category)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if u.cache != nil {
		_ = u.cache.SetMenu(ctx, category, items)
	}

	return toMenuResponses(items), nil
}

func (u *MenuUsecase) Detail(ctx context.Context, id int64) (MenuItemResponse, error) {
	if id <= 0 {
		return MenuItemResponse{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	m, err := u.menuRepo.FindByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return MenuItemResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return MenuItemResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toMenuResponse(m), nil
}

func toMenuResponse(m model.MenuItem) MenuItemResponse {
	return MenuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description,
		PriceCents:  m.PriceCents,
		Image:       m.Image,
		Category:    m.Category,
		Spicy:       m.Spicy,
		Vegetarian:  m.Vegetarian,
	}
}

func toMenuResponses(items []model.MenuItem) []MenuItemResponse {
	outs := make([]MenuItemResponse, 0, len(items))
	for _, m := range items {
		outs = append(outs, toMenuResponse(m))
	}
	return outs
}
