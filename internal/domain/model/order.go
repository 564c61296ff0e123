package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Totalは作成時点のカタログ価格で確定。以後再計算しない。
type Order struct {
	ID         int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     int64       `gorm:"not null;index" json:"user_id"`
	Total      float64     `gorm:"not null" json:"total"`
	Status     OrderStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	PaymentRef string      `gorm:"type:varchar(100)" json:"payment_ref"`
	CreatedAt  time.Time   `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time   `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
