package model

import "time"

// ユーザープロフィール（usersと1:1）
type Profile struct {
	UserID    int64     `gorm:"primaryKey" json:"user_id"`
	FirstName string    `gorm:"type:varchar(100)" json:"first_name"`
	LastName  string    `gorm:"type:varchar(100)" json:"last_name"`
	Phone     string    `gorm:"type:varchar(30)" json:"phone"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
