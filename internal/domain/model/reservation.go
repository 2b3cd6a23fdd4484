package model

import "time"

type ReservationStatus string

const (
	ReservationStatusPending   ReservationStatus = "PENDING"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusCanceled  ReservationStatus = "CANCELED"
)

// テーブル予約。dateは来店日、timeは"HH:MM"。
// capacityは席のサイズ（2/4/6/8/10のいずれか）。
type Reservation struct {
	ID          int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      int64             `gorm:"not null;index" json:"user_id"`
	Date        time.Time         `gorm:"type:date;not null" json:"date"`
	Time        string            `gorm:"type:varchar(5);not null" json:"time"`
	Guests      int               `gorm:"not null" json:"guests"`
	TableNumber *int              `json:"table_number,omitempty"`
	Capacity    int               `gorm:"not null" json:"capacity"`
	Status      ReservationStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt   time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}
