package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"app/internal/domain/model"

	"github.com/redis/go-redis/v9"
)

// メニュー一覧とカート件数のキャッシュ。
// メニューはTTLで自然失効、カート件数は明示的に無効化する。
type RedisCache struct {
	Client  *redis.Client
	MenuTTL time.Duration
}

func NewRedisCache(client *redis.Client, menuTTL time.Duration) *RedisCache {
	return &RedisCache{Client: client, MenuTTL: menuTTL}
}

func menuKey(category string) string {
	if category == "" {
		return "menu:all"
	}
	return "menu:cat:" + category
}

func cartCountKey(userID int64) string {
	return "cart:count:" + strconv.FormatInt(userID, 10)
}

// ヒットしなければ (nil, false, nil)
func (c *RedisCache) GetMenu(ctx context.Context, category string) ([]model.MenuItem, bool, error) {
	raw, err := c.Client.Get(ctx, menuKey(category)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []model.MenuItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisCache) SetMenu(ctx context.Context, category string, items []model.MenuItem) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.Client.Set(ctx, menuKey(category), raw, c.MenuTTL).Err()
}

func (c *RedisCache) GetCartCount(ctx context.Context, userID int64) (int64, bool, error) {
	raw, err := c.Client.Get(ctx, cartCountKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

func (c *RedisCache) SetCartCount(ctx context.Context, userID int64, count int64) error {
	return c.Client.Set(ctx, cartCountKey(userID), strconv.FormatInt(count, 10), 0).Err()
}

// カート変更後に呼ぶ。暗黙のキャッシュ破棄はしない約束。
func (c *RedisCache) InvalidateCartCount(ctx context.Context, userID int64) error {
	return c.Client.Del(ctx, cartCountKey(userID)).Err()
}
