package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/pricing"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/pkg/logging"
)

type CheckoutService struct {
	Repo      *repo.GormRepo
	Publisher Publisher
	Now       func() time.Time
}

// Checkout turns the user's cart into an order in one transaction. Either the order,
// its items, the stock decrements and the cart removal all commit, or none of them do.
//
// Cart rows and then product rows (ascending id) are locked for update, so two
// checkouts racing for the last unit serialize and the loser sees the decremented stock.
func (s *CheckoutService) Checkout(ctx context.Context, userID uint) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "checkout", "user_id", userID)
	at := now(s.Now)

	var order *models.Order
	err := s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
		items, err := tx.LockCart(ctx, userID)
		if err != nil {
			return fmt.Errorf("lock cart: %w", err)
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		products, err := lockProducts(ctx, tx, items)
		if err != nil {
			return err
		}

		lines := make([]pricing.Line, 0, len(items))
		cartIDs := make([]uint, 0, len(items))
		for _, it := range items {
			lines = append(lines, pricing.Line{Product: products[it.ProductID], Quantity: it.Quantity})
			cartIDs = append(cartIDs, it.ID)
		}
		priced, total := pricing.Price(lines, at)

		order = &models.Order{
			Reference: uuid.New(),
			UserID:    userID,
			Total:     total,
			Status:    models.OrderStatusCompleted,
		}
		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		orderItems := make([]models.OrderItem, 0, len(priced))
		for _, pl := range priced {
			p := pl.Product
			if p.Stock < pl.Quantity {
				return &OutOfStockError{ProductID: p.ID, Name: p.Name}
			}
			ok, err := tx.DecrementStock(ctx, p.ID, pl.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return &OutOfStockError{ProductID: p.ID, Name: p.Name}
			}
			orderItems = append(orderItems, models.OrderItem{
				OrderID:         order.ID,
				ProductID:       p.ID,
				ProductName:     p.Name,
				Quantity:        pl.Quantity,
				PriceAtPurchase: pl.Quote.Price,
			})
		}
		if err := tx.CreateOrderItems(ctx, orderItems); err != nil {
			return fmt.Errorf("create order items: %w", err)
		}
		if err := tx.DeleteCartItems(ctx, cartIDs); err != nil {
			return fmt.Errorf("delete cart items: %w", err)
		}

		order.Items = orderItems
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrEmptyCart) || errors.Is(err, ErrOutOfStock) || errors.Is(err, ErrNotFound) {
			l.Warn("checkout_rejected", "error", err)
		} else {
			l.Error("checkout_error", "error", err)
		}
		return nil, err
	}

	l.Info("checkout_completed", "order_id", order.ID, "total", order.Total.StringFixed(pricing.Places))

	eventItems := make([]map[string]any, 0, len(order.Items))
	for _, it := range order.Items {
		eventItems = append(eventItems, map[string]any{
			"productID":       it.ProductID,
			"quantity":        it.Quantity,
			"priceAtPurchase": it.PriceAtPurchase.StringFixed(pricing.Places),
		})
	}
	publish(ctx, s.Publisher, TopicOrder, userID, map[string]any{
		"type":      "checkout_completed",
		"orderID":   order.ID,
		"reference": order.Reference.String(),
		"userID":    userID,
		"total":     order.Total.StringFixed(pricing.Places),
		"items":     eventItems,
	})
	return order, nil
}

// lockProducts reads each distinct product for update in ascending id order, offer resolved.
func lockProducts(ctx context.Context, tx *repo.GormRepo, items []models.CartItem) (map[uint]*models.Product, error) {
	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(map[uint]*models.Product, len(ids))
	for _, id := range ids {
		if _, seen := out[id]; seen {
			continue
		}
		p, err := tx.LockProduct(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, notFound("product", id)
			}
			return nil, fmt.Errorf("lock product: %w", err)
		}
		if p.OfferID != nil {
			o, err := tx.GetOffer(ctx, *p.OfferID)
			switch {
			case err == nil:
				p.Offer = o
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return nil, fmt.Errorf("get offer: %w", err)
			}
		}
		out[id] = p
	}
	return out, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, userID uint) ([]models.Order, error) {
	orders, err := s.Repo.ListOrders(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder only finds orders owned by userID; anyone else's order is reported as missing.
func (s *CheckoutService) GetOrder(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	o, err := s.Repo.GetOrder(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}
