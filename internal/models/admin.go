package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AdminUser struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Email          string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	FullName       string    `gorm:"size:255" json:"full_name"`
	Role           string    `gorm:"size:20;not null;default:'admin'" json:"role"`
	IsActive       bool      `gorm:"not null;default:true" json:"is_active"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	CreatedAt      time.Time `json:"created_at"`
}

func (a *AdminUser) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
