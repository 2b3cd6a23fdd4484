package repository

import (
	"app/internal/domain/model"
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// メニューの読み取りだけを約束。更新はカタログ管理（外部）の責務。
type MenuItemRepository interface {
	List(ctx context.Context, category string) ([]model.MenuItem, error)
	FindByID(ctx context.Context, id int64) (model.MenuItem, error)
	Count(ctx context.Context) (int64, error)
	CreateBulk(ctx context.Context, items []model.MenuItem) error // 初期投入用
}
