package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Order is the payment transaction recorded before redirecting to the gateway.
type Order struct {
	ID            string            `gorm:"primaryKey;size:36" json:"id"`
	SessionID     string            `gorm:"size:255;uniqueIndex;not null" json:"session_id"`
	ProductID     string            `gorm:"size:36;index" json:"product_id"`
	ProductSlug   string            `gorm:"size:191" json:"product_slug"`
	CustomerEmail string            `gorm:"size:255" json:"customer_email,omitempty"`
	Amount        float64           `json:"amount"` // major units, as charged
	AmountCents   int64             `gorm:"not null" json:"amount_cents"`
	Currency      string            `gorm:"size:3;default:'USD'" json:"currency"`
	PaymentStatus string            `gorm:"size:32;not null;index" json:"payment_status"` // initiated, paid, expired
	Status        string            `gorm:"size:20;not null;index" json:"status"`         // pending, completed, expired, shipped ...
	Metadata      map[string]string `gorm:"type:text;serializer:json" json:"metadata"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

func (Order) TableName() string {
	return "orders"
}
