package models

import (
	"time"

	"github.com/ardiansetya/kasirpoint-backend/pkg/enums"
	"github.com/google/uuid"
)

// Transaction is a completed checkout. Amounts are whole rupiah.
type Transaction struct {
	ID              uuid.UUID           `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionCode string              `gorm:"column:transaction_code;type:text;not null;uniqueIndex" json:"transaction_code"`
	UserID          uuid.UUID           `gorm:"type:uuid;column:user_id;not null;index" json:"user_id"`
	PaymentMethod   enums.PaymentMethod `gorm:"column:payment_method;type:text;not null" json:"payment_method"`
	TotalAmount     int64               `gorm:"column:total_amount;not null" json:"total_amount"`
	Tax             int64               `gorm:"not null;default:0" json:"tax"`
	FinalAmount     int64               `gorm:"column:final_amount;not null" json:"final_amount"`
	CashReceived    *int64              `gorm:"column:cash_received" json:"cash_received,omitempty"`
	CashChange      *int64              `gorm:"column:cash_change" json:"cash_change,omitempty"`
	Latitude        *float64            `gorm:"column:latitude" json:"latitude,omitempty"`
	Longitude       *float64            `gorm:"column:longitude" json:"longitude,omitempty"`
	TransactionTime time.Time           `gorm:"column:transaction_time;not null;index" json:"transaction_time"`
	Items           []TransactionItem   `gorm:"foreignKey:TransactionID" json:"items,omitempty"`
	CreatedAt       time.Time           `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

// TransactionItem snapshots one purchased line at checkout time.
type TransactionItem struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	TransactionID uuid.UUID `gorm:"type:uuid;column:transaction_id;not null;index" json:"transaction_id"`
	ProductID     uuid.UUID `gorm:"type:uuid;column:product_id;not null" json:"product_id"`
	ProductName   string    `gorm:"column:product_name;type:text;not null" json:"product_name"`
	Price         int64     `gorm:"not null" json:"price"`
	Quantity      int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	TotalPrice    int64     `gorm:"column:total_price;not null" json:"total_price"`
}
