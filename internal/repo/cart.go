package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rojan6190/shop/internal/models"
)

// GetCart returns the user's cart rows with product and offer resolved for pricing.
func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Preload("Product.Category").
		Preload("Product.Offer").
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// LockCart reads the user's cart rows for update without associations.
func (r *GormRepo) LockCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart merges quantity into the (user, product) row in one statement, creating it if absent,
// then reloads the stored row into item.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	err := r.DB.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "product_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
			}),
		}).
		Create(&models.CartItem{UserID: item.UserID, ProductID: item.ProductID, Quantity: item.Quantity}).Error
	if err != nil {
		return err
	}

	var stored models.CartItem
	if err := r.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID).
		First(&stored).Error; err != nil {
		return err
	}
	*item = stored
	return nil
}

// DeleteOneFromCart decrements a row by one, removing it when it reaches zero.
func (r *GormRepo) DeleteOneFromCart(ctx context.Context, userID, productID uint) (bool, *models.CartItem, error) {
	var item models.CartItem
	deleted := false

	if err := r.Transaction(ctx, func(tx *GormRepo) error {
		if err := tx.DB.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("product_id = ? AND user_id = ?", productID, userID).
			First(&item).Error; err != nil {
			return err
		}
		if item.Quantity > 1 {
			if err := tx.DB.Model(&item).Update("quantity", gorm.Expr("quantity - 1")).Error; err != nil {
				return err
			}
			return tx.DB.First(&item, item.ID).Error
		}
		if err := tx.DB.Delete(&item).Error; err != nil {
			return err
		}
		deleted = true
		return nil
	}); err != nil {
		return false, nil, err
	}
	return deleted, &item, nil
}

func (r *GormRepo) DeleteAllFromCart(ctx context.Context, userID uint) (int64, error) {
	res := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{})
	return res.RowsAffected, res.Error
}

// DeleteCartItems removes exactly the given rows, leaving anything added since untouched.
func (r *GormRepo) DeleteCartItems(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.DB.WithContext(ctx).Where("id IN ?", ids).Delete(&models.CartItem{}).Error
}
