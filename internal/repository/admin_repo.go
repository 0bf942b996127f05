package repository

import (
	"arar/internal/models"

	"gorm.io/gorm"
)

type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(a *models.AdminUser) error {
	return r.db.Create(a).Error
}

func (r *AdminRepository) GetByEmail(email string) (*models.AdminUser, error) {
	var a models.AdminUser
	err := r.db.Where("email = ?", email).First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AdminRepository) Update(a *models.AdminUser) error {
	return r.db.Save(a).Error
}
