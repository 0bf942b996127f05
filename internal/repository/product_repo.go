package repository

import (
	"arar/internal/domain"
	"arar/internal/models"

	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(p *models.Product) error {
	return r.db.Create(p).Error
}

func (r *ProductRepository) GetByID(id string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) GetBySlug(slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("slug = ?", slug).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPublishedBySlug returns a product visible on the storefront.
func (r *ProductRepository) GetPublishedBySlug(slug string) (*models.Product, error) {
	var p models.Product
	err := r.db.Where("slug = ? AND status = ?", slug, domain.ProductPublished).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) ListPublished(limit int) ([]models.Product, error) {
	var list []models.Product
	err := r.db.Where("status = ?", domain.ProductPublished).Order("created_at ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *ProductRepository) ListAll(limit int) ([]models.Product, error) {
	var list []models.Product
	err := r.db.Order("created_at ASC").Limit(limit).Find(&list).Error
	return list, err
}

// Updates applies a partial update; returns gorm.ErrRecordNotFound when no row matched.
func (r *ProductRepository) Updates(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ProductRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
