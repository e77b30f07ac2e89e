package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/pricing"
	"github.com/Rojan6190/shop/internal/repo"
)

type CartService struct {
	Repo      *repo.GormRepo
	Publisher Publisher
	Now       func() time.Time
}

type Cart struct {
	Lines      []pricing.PricedLine
	GrandTotal decimal.Decimal
}

// Add validates against current stock and merges into an existing line.
// The merged total is not re-checked; checkout is the authoritative gate.
func (s *CartService) Add(ctx context.Context, userID, productID uint, quantity int) (*models.CartItem, error) {
	if productID == 0 {
		return nil, invalid("product_id", "required")
	}
	if quantity < 1 {
		return nil, invalid("quantity", "must be at least 1")
	}

	item := &models.CartItem{UserID: userID, ProductID: productID, Quantity: quantity}
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		p, err := tx.GetProduct(ctx, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return notFound("product", productID)
			}
			return fmt.Errorf("get product: %w", err)
		}
		if p.Stock < quantity {
			return &InsufficientStockError{ProductID: p.ID, Available: p.Stock, Requested: quantity}
		}
		if err := tx.AddToCart(ctx, item); err != nil {
			return fmt.Errorf("add to cart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.Publisher, TopicCart, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": productID,
		"quantity":  quantity,
		"total":     item.Quantity,
	})
	return item, nil
}

// Get prices every line at one instant. An empty cart is a zero total, not an error.
func (s *CartService) Get(ctx context.Context, userID uint) (*Cart, error) {
	items, err := s.Repo.GetCart(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get cart: %w", err)
	}

	lines := make([]pricing.Line, 0, len(items))
	for i := range items {
		lines = append(lines, pricing.Line{Product: &items[i].Product, Quantity: items[i].Quantity})
	}
	priced, total := pricing.Price(lines, now(s.Now))
	return &Cart{Lines: priced, GrandTotal: total}, nil
}

// RemoveOne takes a single unit off a line; deleted reports whether the line is gone.
func (s *CartService) RemoveOne(ctx context.Context, userID, productID uint) (bool, *models.CartItem, error) {
	if productID == 0 {
		return false, nil, invalid("product_id", "required")
	}

	deleted, item, err := s.Repo.DeleteOneFromCart(ctx, userID, productID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, notFound("cart item", productID)
	}
	if err != nil {
		return false, nil, fmt.Errorf("delete one from cart: %w", err)
	}
	return deleted, item, nil
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	n, err := s.Repo.DeleteAllFromCart(ctx, userID)
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}

	publish(ctx, s.Publisher, TopicCart, userID, map[string]any{
		"type":    "cart_cleared",
		"userID":  userID,
		"removed": n,
	})
	return nil
}
