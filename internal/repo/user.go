package repo

import (
	"context"
	"strconv"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Rojan6190/shop/internal/models"
)

func (r *GormRepo) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := r.DB.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormRepo) SetUserImage(ctx context.Context, id uint, image *string) error {
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("profile_image", image)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EnsureUser returns the user row for id, inserting a placeholder when the auth service
// has not written one to this database.
func (r *GormRepo) EnsureUser(ctx context.Context, id uint) (*models.User, error) {
	placeholder := models.User{ID: id, Username: "user-" + strconv.FormatUint(uint64(id), 10), Role: "user"}
	if err := r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&placeholder).Error; err != nil {
		return nil, err
	}
	return r.GetUser(ctx, id)
}
