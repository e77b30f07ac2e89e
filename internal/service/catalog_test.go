package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/testutil"
)

func TestCreateProduct(t *testing.T) {
	f := newEnv(t)
	pub := &recordingPublisher{}
	ix := &fakeIndexer{}
	svc := &service.CatalogService{Repo: f.repo, Publisher: pub, Indexer: ix, Now: clock}
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, service.NewProduct{
		Name:       " Kettle ",
		Price:      decimal.RequireFromString("24.999"),
		Stock:      4,
		CategoryID: f.cat.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Kettle", p.Name)
	assert.Equal(t, "25.00", p.Price.StringFixed(2))
	assert.Equal(t, "Home", p.Category.Name)
	assert.Equal(t, []uint{p.ID}, ix.indexed)
	assert.Equal(t, []string{"product_created"}, pub.types())

	_, err = svc.CreateProduct(ctx, service.NewProduct{Name: "x", Price: decimal.NewFromInt(1), CategoryID: 999})
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "category", nf.Resource)

	for _, bad := range []service.NewProduct{
		{Name: "", Price: decimal.NewFromInt(1), CategoryID: f.cat.ID},
		{Name: "x", Price: decimal.Zero, CategoryID: f.cat.ID},
		{Name: "x", Price: decimal.NewFromInt(1), Stock: -1, CategoryID: f.cat.ID},
	} {
		_, err := svc.CreateProduct(ctx, bad)
		assert.ErrorIs(t, err, service.ErrValidation)
	}
}

func TestGetProduct_NotFound(t *testing.T) {
	f := newEnv(t)
	svc := &service.CatalogService{Repo: f.repo}

	_, err := svc.GetProduct(context.Background(), 999)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSeedCategories_Idempotent(t *testing.T) {
	f := newEnv(t)
	svc := &service.CatalogService{Repo: f.repo}
	ctx := context.Background()

	require.NoError(t, svc.SeedCategories(ctx))
	require.NoError(t, svc.SeedCategories(ctx))

	// "Home" already existed in the fixture
	assert.EqualValues(t, len(service.DefaultCategories), testutil.Count(t, f.db, &models.Category{}))

	cats, err := svc.ListCategories(ctx)
	require.NoError(t, err)
	for _, c := range cats {
		if c.Name == "Home" {
			assert.EqualValues(t, 2, c.ProductCount)
		}
	}
}

func TestProductsByCategory(t *testing.T) {
	f := newEnv(t)
	svc := &service.CatalogService{Repo: f.repo}
	ctx := context.Background()

	items, err := svc.ProductsByCategory(ctx, f.cat.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = svc.ProductsByCategory(ctx, 999)
	require.ErrorIs(t, err, service.ErrNotFound)
}

func TestSearch(t *testing.T) {
	f := newEnv(t)
	ctx := context.Background()

	t.Run("database fallback", func(t *testing.T) {
		svc := &service.CatalogService{Repo: f.repo}
		total, items, err := svc.Search(ctx, "LAMP", 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, items, 1)
		assert.Equal(t, f.lamp.ID, items[0].ID)
	})

	t.Run("index keeps hit order", func(t *testing.T) {
		ix := &fakeIndexer{ids: []uint{f.lamp.ID, 999, f.book.ID}}
		svc := &service.CatalogService{Repo: f.repo, Indexer: ix}
		total, items, err := svc.Search(ctx, "anything", 0, 10)
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, items, 2)
		assert.Equal(t, f.lamp.ID, items[0].ID)
		assert.Equal(t, f.book.ID, items[1].ID)
	})

	t.Run("index failure falls back", func(t *testing.T) {
		ix := &fakeIndexer{err: errors.New("es down")}
		svc := &service.CatalogService{Repo: f.repo, Indexer: ix}
		_, items, err := svc.Search(ctx, "cook", 0, 10)
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, f.book.ID, items[0].ID)
	})

	t.Run("empty query", func(t *testing.T) {
		svc := &service.CatalogService{Repo: f.repo}
		_, _, err := svc.Search(ctx, " ", 0, 10)
		require.ErrorIs(t, err, service.ErrValidation)
	})
}
