package transport

import (
	"time"

	"github.com/shopspring/decimal"
)

type CreateProductRequest struct {
	Name       string          `json:"name"`
	Price      decimal.Decimal `json:"price"`
	Stock      int             `json:"stock"`
	CategoryID uint            `json:"category_id"`
}

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOfferRequest struct {
	Name            string          `json:"name"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	StartTime       time.Time       `json:"start_time"`
	EndTime         time.Time       `json:"end_time"`
}

type CategoryView struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type CategoryCountView struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	ProductCount int64  `json:"product_count"`
}

type OfferView struct {
	ID              uint      `json:"id"`
	Name            string    `json:"name"`
	DiscountPercent float64   `json:"discount_percent"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
}

type ProductView struct {
	ID             uint         `json:"id"`
	Name           string       `json:"name"`
	Price          float64      `json:"price"`
	Stock          int          `json:"stock"`
	Category       CategoryView `json:"category"`
	Offer          *OfferView   `json:"offer"`
	CurrentPrice   float64      `json:"current_price"`
	IsOnOffer      bool         `json:"is_on_offer"`
	DiscountAmount float64      `json:"discount_amount"`
	ImageURL       *string      `json:"image_url"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

type ProductPage struct {
	Data []ProductView `json:"data"`
	Meta PageMeta      `json:"meta"`
}

type CartLine struct {
	ProductID    uint    `json:"product_id"`
	Name         string  `json:"name"`
	Quantity     int     `json:"quantity"`
	BasePrice    float64 `json:"base_price"`
	UnitPrice    float64 `json:"unit_price"`
	IsDiscounted bool    `json:"is_discounted"`
	LineTotal    float64 `json:"line_total"`
}

type CartResponse struct {
	Items      []CartLine `json:"items"`
	GrandTotal float64    `json:"grand_total"`
}

type CartItemResponse struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
	Removed   bool `json:"removed"`
}

type CheckoutResponse struct {
	TotalPaid float64   `json:"total_paid"`
	OrderID   uint      `json:"order_id"`
	Reference string    `json:"reference"`
	CreatedAt time.Time `json:"created_at"`
}

type OrderItemView struct {
	ProductID       uint    `json:"product_id"`
	ProductName     string  `json:"product_name"`
	Quantity        int     `json:"quantity"`
	PriceAtPurchase float64 `json:"price_at_purchase"`
}

type OrderView struct {
	ID        uint            `json:"id"`
	Reference string          `json:"reference"`
	Total     float64         `json:"total"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	Items     []OrderItemView `json:"items"`
}

type ImageResponse struct {
	ImageURL *string `json:"image_url"`
}

type UserImageResponse struct {
	ID       uint    `json:"id"`
	Username string  `json:"username"`
	ImageURL *string `json:"image_url"`
}
