// Package testutil builds throwaway in-memory databases and fixtures for package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/pkg/db"
)

func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(context.Background(), db.DriverPGX, "sqlite://:memory:")
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(gdb))
	t.Cleanup(func() { _ = db.Close(gdb) })
	return gdb
}

func Category(t *testing.T, gdb *gorm.DB, name string) models.Category {
	t.Helper()

	c := models.Category{Name: name}
	require.NoError(t, gdb.Create(&c).Error)
	return c
}

func Product(t *testing.T, gdb *gorm.DB, categoryID uint, name, price string, stock int) models.Product {
	t.Helper()

	p := models.Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		Stock:      stock,
		CategoryID: categoryID,
	}
	require.NoError(t, gdb.Omit("Category", "Offer").Create(&p).Error)
	return p
}

func Offer(t *testing.T, gdb *gorm.DB, name, percent string, start, end time.Time) models.Offer {
	t.Helper()

	o := models.Offer{
		Name:            name,
		DiscountPercent: decimal.RequireFromString(percent),
		StartTime:       start.UTC(),
		EndTime:         end.UTC(),
	}
	require.NoError(t, gdb.Create(&o).Error)
	return o
}

func Attach(t *testing.T, gdb *gorm.DB, productID, offerID uint) {
	t.Helper()

	require.NoError(t, gdb.Model(&models.Product{}).Where("id = ?", productID).Update("offer_id", offerID).Error)
}

func User(t *testing.T, gdb *gorm.DB, username string) models.User {
	t.Helper()

	u := models.User{Username: username, Role: "user"}
	require.NoError(t, gdb.Create(&u).Error)
	return u
}

func Stock(t *testing.T, gdb *gorm.DB, productID uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, gdb.First(&p, productID).Error)
	return p.Stock
}

func Count(t *testing.T, gdb *gorm.DB, model any) int64 {
	t.Helper()

	var n int64
	require.NoError(t, gdb.Model(model).Count(&n).Error)
	return n
}
