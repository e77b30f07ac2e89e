package repo

import (
	"context"

	"github.com/Rojan6190/shop/internal/models"
)

func (r *GormRepo) CreateOffer(ctx context.Context, o *models.Offer) error {
	return r.DB.WithContext(ctx).Create(o).Error
}

func (r *GormRepo) GetOffer(ctx context.Context, id uint) (*models.Offer, error) {
	var o models.Offer
	if err := r.DB.WithContext(ctx).First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *GormRepo) ListOffers(ctx context.Context) ([]models.Offer, error) {
	var out []models.Offer
	err := r.DB.WithContext(ctx).Order("id ASC").Find(&out).Error
	return out, err
}
