package repo

import (
	"context"

	"gorm.io/gorm/clause"

	"github.com/Rojan6190/shop/internal/models"
)

func (r *GormRepo) CreateOrder(ctx context.Context, o *models.Order) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(o).Error
}

func (r *GormRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Create(&items).Error
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	var out []models.Order
	err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&out).Error
	return out, err
}

func (r *GormRepo) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	var o models.Order
	if err := r.DB.WithContext(ctx).
		Preload("Items").
		Where("id = ? AND user_id = ?", orderID, userID).
		First(&o).Error; err != nil {
		return nil, err
	}
	return &o, nil
}
