package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/pricing"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/pkg/logging"
)

var DefaultCategories = []string{
	"Electronics", "Fashion", "Home", "Beauty", "Sports", "Books",
	"Toys", "Groceries", "Automotive", "Tools", "Pets", "Jewelry",
	"Music", "Movies", "Gaming", "Health", "Baby", "Office",
	"Industrial", "Software",
}

type CatalogService struct {
	Repo      *repo.GormRepo
	Publisher Publisher
	Indexer   Indexer
	Now       func() time.Time
}

type NewProduct struct {
	Name       string
	Price      decimal.Decimal
	Stock      int
	CategoryID uint
}

func (s *CatalogService) Clock() time.Time { return now(s.Now) }

func (s *CatalogService) CreateProduct(ctx context.Context, n NewProduct) (*models.Product, error) {
	name := strings.TrimSpace(n.Name)
	if name == "" {
		return nil, invalid("name", "required")
	}
	if !n.Price.IsPositive() {
		return nil, invalid("price", "must be positive")
	}
	if n.Stock < 0 {
		return nil, invalid("stock", "must not be negative")
	}
	if n.CategoryID == 0 {
		return nil, invalid("category_id", "required")
	}

	var created *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetCategory(ctx, n.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("category", n.CategoryID)
			}
			return fmt.Errorf("get category: %w", err)
		}

		p := &models.Product{
			Name:       name,
			Price:      pricing.Round(n.Price),
			Stock:      n.Stock,
			CategoryID: n.CategoryID,
		}
		if err := tx.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("create product: %w", err)
		}

		var err error
		created, err = tx.GetProduct(ctx, p.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	index(ctx, s.Indexer, created)
	publish(ctx, s.Publisher, TopicProduct, created.ID, map[string]any{
		"type":      "product_created",
		"productID": created.ID,
		"name":      created.Name,
		"price":     created.Price.StringFixed(pricing.Places),
	})
	return created, nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("product", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.ListProducts(ctx, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("list products: %w", err)
	}
	return total, items, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]repo.CategoryCount, error) {
	cats, err := s.Repo.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

func (s *CatalogService) ProductsByCategory(ctx context.Context, categoryID uint) ([]models.Product, error) {
	if _, err := s.Repo.GetCategory(ctx, categoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("category", categoryID)
		}
		return nil, fmt.Errorf("get category: %w", err)
	}

	items, err := s.Repo.ListProductsByCategory(ctx, categoryID)
	if err != nil {
		return nil, fmt.Errorf("products by category: %w", err)
	}
	return items, nil
}

// SeedCategories inserts any default category that is missing. Safe to run on every start.
func (s *CatalogService) SeedCategories(ctx context.Context) error {
	n, err := s.Repo.EnsureCategories(ctx, DefaultCategories)
	if err != nil {
		return fmt.Errorf("seed categories: %w", err)
	}
	if n > 0 {
		logging.FromContext(ctx).Info("categories_seeded", "created", n)
	}
	return nil
}

// Search asks the index for matching ids when one is configured and falls back to
// a name match in the database otherwise, or when the index call fails.
func (s *CatalogService) Search(ctx context.Context, query string, offset, limit int) (int64, []models.Product, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return 0, nil, invalid("q", "required")
	}

	if s.Indexer != nil {
		total, ids, err := s.Indexer.Search(ctx, query, offset, limit)
		if err == nil {
			items, err := s.byIDs(ctx, ids)
			if err != nil {
				return 0, nil, err
			}
			return total, items, nil
		}
		logging.FromContext(ctx).Warn("search_index_error", "error", err)
	}

	total, items, err := s.Repo.SearchProductsByName(ctx, query, offset, limit)
	if err != nil {
		return 0, nil, fmt.Errorf("search products: %w", err)
	}
	return total, items, nil
}

// byIDs loads products and keeps the order of ids, skipping ids no longer in the database.
func (s *CatalogService) byIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	rows, err := s.Repo.GetProductsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("get products by ids: %w", err)
	}
	byID := make(map[uint]models.Product, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}
