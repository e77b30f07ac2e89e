package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/pricing"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/pkg/util"
)

func imageURL(e models.HasImage) *string {
	u := models.ImageURL(e)
	if u == "" {
		return nil
	}
	return &u
}

func NewOfferView(o *models.Offer) OfferView {
	return OfferView{
		ID:              o.ID,
		Name:            o.Name,
		DiscountPercent: o.DiscountPercent.InexactFloat64(),
		StartTime:       o.StartTime.UTC(),
		EndTime:         o.EndTime.UTC(),
	}
}

// NewProductView prices p at now. An attached offer outside its window is not shown.
func NewProductView(p *models.Product, now time.Time) ProductView {
	q := pricing.Effective(p, now)
	v := ProductView{
		ID:             p.ID,
		Name:           p.Name,
		Price:          q.Base.InexactFloat64(),
		Stock:          p.Stock,
		Category:       CategoryView{ID: p.Category.ID, Name: p.Category.Name},
		CurrentPrice:   q.Price.InexactFloat64(),
		IsOnOffer:      q.Discounted,
		DiscountAmount: q.Discount.InexactFloat64(),
		ImageURL:       imageURL(p),
	}
	if q.Offer != nil {
		ov := NewOfferView(q.Offer)
		v.Offer = &ov
	}
	return v
}

func NewProductViews(ps []models.Product, now time.Time) []ProductView {
	out := make([]ProductView, 0, len(ps))
	for i := range ps {
		out = append(out, NewProductView(&ps[i], now))
	}
	return out
}

func NewPageMeta(page, offset, limit int, total int64) PageMeta {
	return PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: util.TotalPages(total, limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset+limit) < total,
	}
}

func NewCategoryCounts(cs []repo.CategoryCount) []CategoryCountView {
	out := make([]CategoryCountView, 0, len(cs))
	for _, c := range cs {
		out = append(out, CategoryCountView{ID: c.ID, Name: c.Name, ProductCount: c.ProductCount})
	}
	return out
}

func NewCartResponse(lines []pricing.PricedLine, total decimal.Decimal) CartResponse {
	items := make([]CartLine, 0, len(lines))
	for _, l := range lines {
		items = append(items, CartLine{
			ProductID:    l.Product.ID,
			Name:         l.Product.Name,
			Quantity:     l.Quantity,
			BasePrice:    l.Quote.Base.InexactFloat64(),
			UnitPrice:    l.Quote.Price.InexactFloat64(),
			IsDiscounted: l.Quote.Discounted,
			LineTotal:    l.LineTotal.InexactFloat64(),
		})
	}
	return CartResponse{Items: items, GrandTotal: total.InexactFloat64()}
}

func NewCheckoutResponse(o *models.Order) CheckoutResponse {
	return CheckoutResponse{
		TotalPaid: o.Total.InexactFloat64(),
		OrderID:   o.ID,
		Reference: o.Reference.String(),
		CreatedAt: o.CreatedAt.UTC(),
	}
}

func NewOrderView(o *models.Order) OrderView {
	items := make([]OrderItemView, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemView{
			ProductID:       it.ProductID,
			ProductName:     it.ProductName,
			Quantity:        it.Quantity,
			PriceAtPurchase: it.PriceAtPurchase.InexactFloat64(),
		})
	}
	return OrderView{
		ID:        o.ID,
		Reference: o.Reference.String(),
		Total:     o.Total.InexactFloat64(),
		Status:    o.Status,
		CreatedAt: o.CreatedAt.UTC(),
		Items:     items,
	}
}

func NewOrderViews(orders []models.Order) []OrderView {
	out := make([]OrderView, 0, len(orders))
	for i := range orders {
		out = append(out, NewOrderView(&orders[i]))
	}
	return out
}

func NewImageResponse(e models.HasImage) ImageResponse {
	return ImageResponse{ImageURL: imageURL(e)}
}

func NewUserImageResponse(u *models.User) UserImageResponse {
	return UserImageResponse{ID: u.ID, Username: u.Username, ImageURL: imageURL(u)}
}
