package model

import "time"

// メニュー（カタログ管理は外部プロセス側、この側からは読み取り専用）
type MenuItem struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	PriceCents  int64     `gorm:"not null;column:price_cents" json:"price_cents"`
	Image       string    `gorm:"type:text" json:"image"`
	Category    string    `gorm:"type:varchar(100);index" json:"category"`
	Spicy       bool      `gorm:"not null;default:false" json:"spicy"`
	Vegetarian  bool      `gorm:"not null;default:false" json:"vegetarian"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
