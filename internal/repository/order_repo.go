package repository

import (
	"time"

	"arar/internal/domain"
	"arar/internal/models"

	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

func (r *OrderRepository) GetByID(id string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("id = ?", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) GetBySessionID(sessionID string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("session_id = ?", sessionID).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// List returns orders newest first, optionally filtered by status.
func (r *OrderRepository) List(status string, limit int) ([]models.Order, error) {
	q := r.db.Model(&models.Order{})
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var list []models.Order
	err := q.Order("created_at DESC").Limit(limit).Find(&list).Error
	return list, err
}

func (r *OrderRepository) UpdateStatus(id, status string) error {
	res := r.db.Model(&models.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkPaid flips the order for sessionID to paid and takes one unit of the
// product's stock, in one transaction. The order update is conditional on the
// order not being paid yet, so concurrent callers (status poll and webhook)
// apply it once. marked reports whether this call did the transition;
// stockReduced is false when the product was already out of stock.
func (r *OrderRepository) MarkPaid(sessionID string) (marked, stockReduced bool, err error) {
	err = r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.Order{}).
			Where("session_id = ? AND payment_status <> ?", sessionID, domain.PaymentPaid).
			Updates(map[string]interface{}{
				"payment_status": domain.PaymentPaid,
				"status":         domain.OrderCompleted,
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		marked = true

		var o models.Order
		if err := tx.Where("session_id = ?", sessionID).First(&o).Error; err != nil {
			return err
		}
		if o.ProductID == "" {
			return nil
		}
		res = tx.Model(&models.Product{}).
			Where("id = ? AND stock_quantity > 0", o.ProductID).
			Updates(map[string]interface{}{
				"stock_quantity": gorm.Expr("stock_quantity - 1"),
				"updated_at":     now,
			})
		if res.Error != nil {
			return res.Error
		}
		stockReduced = res.RowsAffected > 0
		return nil
	})
	return marked, stockReduced, err
}

// MarkExpired records a lapsed checkout session unless it was already paid.
func (r *OrderRepository) MarkExpired(sessionID string) error {
	return r.db.Model(&models.Order{}).
		Where("session_id = ? AND payment_status <> ?", sessionID, domain.PaymentPaid).
		Updates(map[string]interface{}{
			"payment_status": domain.PaymentExpired,
			"status":         domain.OrderExpired,
			"updated_at":     time.Now(),
		}).Error
}
