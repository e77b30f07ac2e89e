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
)

var maxDiscountPercent = decimal.NewFromInt(50)

type OfferService struct {
	Repo      *repo.GormRepo
	Publisher Publisher
	Indexer   Indexer
	Now       func() time.Time
}

type NewOffer struct {
	Name            string
	DiscountPercent decimal.Decimal
	StartTime       time.Time
	EndTime         time.Time
}

func (n NewOffer) validate() error {
	if strings.TrimSpace(n.Name) == "" {
		return invalid("name", "required")
	}
	if n.DiscountPercent.IsNegative() || n.DiscountPercent.GreaterThan(maxDiscountPercent) {
		return invalid("discount_percent", "must be between 0 and 50")
	}
	if n.StartTime.IsZero() {
		return invalid("start_time", "required")
	}
	if n.EndTime.IsZero() {
		return invalid("end_time", "required")
	}
	if !n.StartTime.Before(n.EndTime) {
		return invalid("end_time", "must be after start_time")
	}
	return nil
}

func (s *OfferService) Create(ctx context.Context, n NewOffer) (*models.Offer, error) {
	if err := n.validate(); err != nil {
		return nil, err
	}

	o := &models.Offer{
		Name:            strings.TrimSpace(n.Name),
		DiscountPercent: n.DiscountPercent.Round(pricing.Places),
		StartTime:       n.StartTime.UTC(),
		EndTime:         n.EndTime.UTC(),
	}
	if err := s.Repo.CreateOffer(ctx, o); err != nil {
		return nil, fmt.Errorf("create offer: %w", err)
	}

	publish(ctx, s.Publisher, TopicOffer, o.ID, map[string]any{
		"type":            "offer_created",
		"offerID":         o.ID,
		"name":            o.Name,
		"discountPercent": o.DiscountPercent.String(),
		"startTime":       o.StartTime,
		"endTime":         o.EndTime,
	})
	return o, nil
}

// Attach points the product at the offer. A product carries at most one offer; attaching replaces it.
func (s *OfferService) Attach(ctx context.Context, offerID, productID uint) (*models.Product, error) {
	var product *models.Product
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		if _, err := tx.GetProduct(ctx, productID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", productID)
			}
			return fmt.Errorf("get product: %w", err)
		}
		if _, err := tx.GetOffer(ctx, offerID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("offer", offerID)
			}
			return fmt.Errorf("get offer: %w", err)
		}
		if err := tx.SetProductOffer(ctx, productID, offerID); err != nil {
			return fmt.Errorf("set product offer: %w", err)
		}

		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			return fmt.Errorf("reload product: %w", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	index(ctx, s.Indexer, product)
	publish(ctx, s.Publisher, TopicOffer, offerID, map[string]any{
		"type":      "offer_applied",
		"offerID":   offerID,
		"productID": productID,
	})
	return product, nil
}

// ActiveOfferProducts returns products whose attached offer window contains at,
// with category and offer loaded. Activity is decided by the pricing rules, not by SQL.
func (s *OfferService) ActiveOfferProducts(ctx context.Context, at time.Time) ([]models.Product, error) {
	candidates, err := s.Repo.ProductsWithOffer(ctx)
	if err != nil {
		return nil, fmt.Errorf("products with offer: %w", err)
	}

	out := make([]models.Product, 0, len(candidates))
	for _, p := range candidates {
		if pricing.Active(p.Offer, at) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *OfferService) Clock() time.Time { return now(s.Now) }

func (s *OfferService) List(ctx context.Context) ([]models.Offer, error) {
	offers, err := s.Repo.ListOffers(ctx)
	if err != nil {
		return nil, fmt.Errorf("list offers: %w", err)
	}
	return offers, nil
}
