package repository

import (
	"app/internal/domain/model"
	"context"
)

type FavoriteRepository interface {
	// 既にあるなら何もしない
	Add(ctx context.Context, userID int64, menuItemID int64) error
	Remove(ctx context.Context, userID int64, menuItemID int64) error
	ListByUserID(ctx context.Context, userID int64) ([]model.Favorite, error)
}
