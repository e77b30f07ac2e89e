package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/internal/storage"
	"github.com/Rojan6190/shop/pkg/logging"
)

type FileStore interface {
	Save(folder, filename string, size int64, r io.Reader) (string, error)
	Delete(folder, name string) error
}

type Upload struct {
	Filename string
	Size     int64
	Body     io.Reader
}

type ImageService struct {
	Repo  *repo.GormRepo
	Files FileStore
}

func (s *ImageService) product(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// user loads the caller's row; missing is false when the row exists.
func (s *ImageService) user(ctx context.Context, id uint) (u *models.User, missing bool, err error) {
	u, err = s.Repo.GetUser(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &models.User{ID: id}, true, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get user: %w", err)
	}
	return u, false, nil
}

func (s *ImageService) ProductImage(ctx context.Context, id uint) (*models.Product, error) {
	return s.product(ctx, id)
}

func (s *ImageService) UploadProductImage(ctx context.Context, id uint, up Upload) (*models.Product, error) {
	p, err := s.product(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.replace(ctx, p, up, func(name *string) error { return s.Repo.SetProductImage(ctx, id, name) })
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ImageService) DeleteProductImage(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.product(ctx, id)
	if err != nil {
		return nil, err
	}
	err = s.remove(ctx, p, func(name *string) error { return s.Repo.SetProductImage(ctx, id, name) })
	if err != nil {
		return nil, err
	}
	return p, nil
}

// UserImage reports the caller's profile image. A caller without a stored user row has none.
func (s *ImageService) UserImage(ctx context.Context, userID uint) (*models.User, error) {
	u, _, err := s.user(ctx, userID)
	return u, err
}

func (s *ImageService) UploadUserImage(ctx context.Context, userID uint, up Upload) (*models.User, error) {
	u, err := s.Repo.EnsureUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensure user: %w", err)
	}
	err = s.replace(ctx, u, up, func(name *string) error { return s.Repo.SetUserImage(ctx, userID, name) })
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *ImageService) DeleteUserImage(ctx context.Context, userID uint) (*models.User, error) {
	u, missing, err := s.user(ctx, userID)
	if err != nil {
		return nil, err
	}
	if missing {
		return nil, notFound("image", nil)
	}
	err = s.remove(ctx, u, func(name *string) error { return s.Repo.SetUserImage(ctx, userID, name) })
	if err != nil {
		return nil, err
	}
	return u, nil
}

// replace stores the new file first, persists its name, then drops the previous file.
// If persisting fails the new file is removed and the entity keeps its old image.
func (s *ImageService) replace(ctx context.Context, e models.HasImage, up Upload, persist func(*string) error) error {
	if up.Body == nil || up.Filename == "" {
		return invalid("image", "no file provided")
	}

	folder := e.ImageFolder()
	name, err := s.Files.Save(folder, up.Filename, up.Size, up.Body)
	if err != nil {
		if errors.Is(err, storage.ErrInvalidImage) {
			return invalid("image", err.Error())
		}
		return fmt.Errorf("save image: %w", err)
	}

	old := e.ImageName()
	if err := persist(&name); err != nil {
		_ = s.Files.Delete(folder, name)
		return fmt.Errorf("persist image: %w", err)
	}
	e.SetImageName(name)

	if old != "" {
		if err := s.Files.Delete(folder, old); err != nil {
			logging.FromContext(ctx).Warn("old_image_delete_error", "folder", folder, "file", old, "error", err)
		}
	}
	return nil
}

func (s *ImageService) remove(ctx context.Context, e models.HasImage, persist func(*string) error) error {
	current := e.ImageName()
	if current == "" {
		return notFound("image", nil)
	}
	if err := persist(nil); err != nil {
		return fmt.Errorf("clear image: %w", err)
	}
	e.SetImageName("")

	if err := s.Files.Delete(e.ImageFolder(), current); err != nil {
		logging.FromContext(ctx).Warn("image_delete_error", "folder", e.ImageFolder(), "file", current, "error", err)
	}
	return nil
}
