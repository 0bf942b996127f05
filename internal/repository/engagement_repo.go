package repository

import (
	"arar/internal/models"

	"gorm.io/gorm"
)

// EngagementRepository stores newsletter subscriptions and contact inquiries.
type EngagementRepository struct {
	db *gorm.DB
}

func NewEngagementRepository(db *gorm.DB) *EngagementRepository {
	return &EngagementRepository{db: db}
}

func (r *EngagementRepository) IsSubscribed(email string) (bool, error) {
	var n int64
	err := r.db.Model(&models.NewsletterSubscription{}).Where("email = ?", email).Count(&n).Error
	return n > 0, err
}

func (r *EngagementRepository) Subscribe(s *models.NewsletterSubscription) error {
	return r.db.Create(s).Error
}

func (r *EngagementRepository) CreateInquiry(c *models.ContactInquiry) error {
	return r.db.Create(c).Error
}
