package model

import "time"

// お気に入り。(user_id, menu_item_id)で一意。
type Favorite struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"user_id"`
	MenuItemID int64     `gorm:"not null;uniqueIndex:idx_fav_user_item" json:"menu_item_id"`
	CreatedAt  time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
