package repository

import (
	"arar/internal/models"

	"gorm.io/gorm"
)

type CollectionRepository struct {
	db *gorm.DB
}

func NewCollectionRepository(db *gorm.DB) *CollectionRepository {
	return &CollectionRepository{db: db}
}

func (r *CollectionRepository) Create(c *models.Collection) error {
	return r.db.Create(c).Error
}

func (r *CollectionRepository) List(limit int) ([]models.Collection, error) {
	var list []models.Collection
	err := r.db.Order("created_at ASC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *CollectionRepository) Updates(id string, fields map[string]interface{}) error {
	res := r.db.Model(&models.Collection{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		// RowsAffected is 0 when the values are unchanged; confirm existence.
		var n int64
		if err := r.db.Model(&models.Collection{}).Where("id = ?", id).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			return gorm.ErrRecordNotFound
		}
	}
	return nil
}

func (r *CollectionRepository) Delete(id string) error {
	res := r.db.Where("id = ?", id).Delete(&models.Collection{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
