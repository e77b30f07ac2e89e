package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Category struct {
	ID   uint   `gorm:"primaryKey;autoIncrement"      json:"id"`
	Name string `gorm:"size:64;uniqueIndex;not null"  json:"name"`
}

// Offer is a time-bounded percentage discount. Whether it is active is derived at read time.
type Offer struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"       json:"id"`
	Name            string          `gorm:"size:128;not null"              json:"name"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null"     json:"discount_percent"`
	StartTime       time.Time       `gorm:"not null;index"                 json:"start_time"`
	EndTime         time.Time       `gorm:"not null;index"                 json:"end_time"`
	CreatedAt       time.Time       `json:"created_at"`
}

type Product struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"          json:"id"`
	Name       string          `gorm:"size:255;not null"                 json:"name"`
	Price      decimal.Decimal `gorm:"type:decimal(12,2);not null"       json:"price"`
	Stock      int             `gorm:"not null;default:0;check:stock >= 0" json:"stock"`
	CategoryID uint            `gorm:"index;not null"                    json:"category_id"`
	Category   Category        `json:"category"`
	OfferID    *uint           `gorm:"index"                             json:"offer_id"`
	Offer      *Offer          `json:"offer,omitempty"`
	Image      *string         `gorm:"size:255"                          json:"image"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// User rows are owned by the auth service; this module only reads them and manages the profile image.
type User struct {
	ID           uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Username     string  `gorm:"size:64;uniqueIndex;not null" json:"username"`
	Role         string  `gorm:"size:16;not null;default:user" json:"role"`
	ProfileImage *string `gorm:"size:255"                  json:"profile_image"`
}

type CartItem struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"                 json:"id"`
	UserID    uint      `gorm:"uniqueIndex:idx_user_product;not null"    json:"user_id"`
	ProductID uint      `gorm:"uniqueIndex:idx_user_product;not null"    json:"product_id"`
	Product   Product   `json:"-"`
	Quantity  int       `gorm:"not null;default:1;check:quantity > 0"    json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

const OrderStatusCompleted = "completed"

// Order rows are immutable history once committed.
type Order struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"              json:"id"`
	Reference uuid.UUID       `gorm:"type:varchar(36);uniqueIndex;not null" json:"reference"`
	UserID    uint            `gorm:"index;not null"                        json:"user_id"`
	Total     decimal.Decimal `gorm:"type:decimal(12,2);not null"           json:"total"`
	Status    string          `gorm:"size:16;not null"                      json:"status"`
	Items     []OrderItem     `json:"items"`
	CreatedAt time.Time       `json:"created_at"`
}

type OrderItem struct {
	ID              uint            `gorm:"primaryKey;autoIncrement"        json:"id"`
	OrderID         uint            `gorm:"index;not null"                  json:"order_id"`
	ProductID       uint            `gorm:"index;not null"                  json:"product_id"`
	ProductName     string          `gorm:"size:255;not null"               json:"product_name"`
	Quantity        int             `gorm:"not null;check:quantity > 0"     json:"quantity"`
	PriceAtPurchase decimal.Decimal `gorm:"type:decimal(12,2);not null"     json:"price_at_purchase"`
}

func All() []any {
	return []any{&Category{}, &Offer{}, &Product{}, &User{}, &CartItem{}, &Order{}, &OrderItem{}}
}
