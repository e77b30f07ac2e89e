package repo

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rojan6190/shop/internal/models"
)

type CategoryCount struct {
	ID           uint
	Name         string
	ProductCount int64
}

func (r *GormRepo) EnsureCategories(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}
	cats := make([]models.Category, 0, len(names))
	for _, n := range names {
		cats = append(cats, models.Category{Name: n})
	}
	res := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&cats)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) GetCategory(ctx context.Context, id uint) (*models.Category, error) {
	var c models.Category
	if err := r.DB.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *GormRepo) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	var out []CategoryCount
	err := r.DB.WithContext(ctx).
		Model(&models.Category{}).
		Select("categories.id, categories.name, COUNT(products.id) AS product_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id").
		Group("categories.id, categories.name").
		Order("categories.id ASC").
		Scan(&out).Error
	return out, err
}

func (r *GormRepo) CreateProduct(ctx context.Context, p *models.Product) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) ListProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) SearchProductsByName(ctx context.Context, q string, offset, limit int) (int64, []models.Product, error) {
	pattern := "%" + strings.ToLower(q) + "%"
	where := r.DB.WithContext(ctx).Model(&models.Product{}).Where("LOWER(name) LIKE ?", pattern)

	var total int64
	if err := where.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		Where("LOWER(name) LIKE ?", pattern).
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) GetProductsByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	var items []models.Product
	if len(ids) == 0 {
		return items, nil
	}
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		Where("id IN ?", ids).
		Find(&items).Error
	return items, err
}

// ProductsWithOffer loads every product that has an offer attached, category and offer resolved.
func (r *GormRepo) ProductsWithOffer(ctx context.Context) ([]models.Product, error) {
	var items []models.Product
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Preload("Offer").
		Where("offer_id IS NOT NULL").
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo) SetProductOffer(ctx context.Context, productID, offerID uint) error {
	return r.updateProduct(ctx, productID, "offer_id", offerID)
}

func (r *GormRepo) SetProductImage(ctx context.Context, productID uint, image *string) error {
	return r.updateProduct(ctx, productID, "image", image)
}

func (r *GormRepo) updateProduct(ctx context.Context, id uint, column string, value any) error {
	res := r.DB.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update(column, value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// LockProduct reads a product row for update. sqlite ignores the locking clause.
func (r *GormRepo) LockProduct(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.DB.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// DecrementStock subtracts quantity only while enough stock remains; false means nothing was changed.
func (r *GormRepo) DecrementStock(ctx context.Context, productID uint, quantity int) (bool, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
