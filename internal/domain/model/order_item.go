package model

import "time"

// 注文明細。price_at_time_centsは注文時点の価格スナップショットで、
// 作成後にメニュー価格から再計算してはいけない。
type OrderItem struct {
	ID               int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID          int64     `gorm:"not null;index" json:"order_id"`
	MenuItemID       int64     `gorm:"not null;index" json:"menu_item_id"`
	NameSnapshot     string    `gorm:"type:varchar(255);not null" json:"name_snapshot"`
	PriceAtTimeCents int64     `gorm:"not null;column:price_at_time_cents" json:"price_at_time_cents"`
	Quantity         int64     `gorm:"not null" json:"quantity"`
	CreatedAt        time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
