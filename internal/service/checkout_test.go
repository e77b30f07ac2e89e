package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/testutil"
)

type checkoutEnv struct {
	*fixture
	cart     *service.CartService
	checkout *service.CheckoutService
	pub      *recordingPublisher
}

func newCheckout(t *testing.T) *checkoutEnv {
	t.Helper()
	f := newEnv(t)
	pub := &recordingPublisher{}
	return &checkoutEnv{
		fixture:  f,
		cart:     &service.CartService{Repo: f.repo, Now: clock},
		checkout: &service.CheckoutService{Repo: f.repo, Publisher: pub, Now: clock},
		pub:      pub,
	}
}

func TestCheckout_Success(t *testing.T) {
	env := newCheckout(t)
	ctx := context.Background()

	offer := testutil.Offer(t, env.db, "Summer", "20", fixedNow.Add(-time.Hour), fixedNow.Add(time.Hour))
	testutil.Attach(t, env.db, env.lamp.ID, offer.ID)

	_, err := env.cart.Add(ctx, 1, env.lamp.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, 1, env.book.ID, 3)
	require.NoError(t, err)

	before, err := env.cart.Get(ctx, 1)
	require.NoError(t, err)

	order, err := env.checkout.Checkout(ctx, 1)
	require.NoError(t, err)

	assert.True(t, before.GrandTotal.Equal(order.Total))
	assert.Equal(t, "219.97", order.Total.StringFixed(2))
	assert.Equal(t, models.OrderStatusCompleted, order.Status)
	assert.NotEmpty(t, order.Reference.String())

	require.Len(t, order.Items, 2)
	for i, line := range before.Lines {
		assert.Equal(t, line.Product.ID, order.Items[i].ProductID)
		assert.Equal(t, line.Quantity, order.Items[i].Quantity)
		assert.True(t, line.Quote.Price.Equal(order.Items[i].PriceAtPurchase))
	}

	assert.Equal(t, 3, testutil.Stock(t, env.db, env.lamp.ID))
	assert.Equal(t, 7, testutil.Stock(t, env.db, env.book.ID))
	assert.EqualValues(t, 0, testutil.Count(t, env.db, &models.CartItem{}))

	_, err = env.checkout.Checkout(ctx, 1)
	require.ErrorIs(t, err, service.ErrEmptyCart)

	assert.Equal(t, []string{"checkout_completed"}, env.pub.types())
	assert.Equal(t, "219.97", env.pub.events[0].Event["total"])
}

func TestCheckout_PriceAtPurchaseIsFrozen(t *testing.T) {
	env := newCheckout(t)
	ctx := context.Background()

	_, err := env.cart.Add(ctx, 1, env.book.ID, 1)
	require.NoError(t, err)
	order, err := env.checkout.Checkout(ctx, 1)
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.Product{}).Where("id = ?", env.book.ID).Update("price", "5.00").Error)

	got, err := env.checkout.GetOrder(ctx, 1, order.ID)
	require.NoError(t, err)
	require.Len(t, got.Items, 1)
	assert.Equal(t, "19.99", got.Items[0].PriceAtPurchase.StringFixed(2))
	assert.Equal(t, "19.99", got.Total.StringFixed(2))
}

func TestCheckout_EmptyCartWritesNothing(t *testing.T) {
	env := newCheckout(t)

	_, err := env.checkout.Checkout(context.Background(), 1)
	require.ErrorIs(t, err, service.ErrEmptyCart)

	assert.EqualValues(t, 0, testutil.Count(t, env.db, &models.Order{}))
	assert.EqualValues(t, 0, testutil.Count(t, env.db, &models.OrderItem{}))
	assert.Equal(t, 10, testutil.Stock(t, env.db, env.book.ID))
	assert.Empty(t, env.pub.types())
}

func TestCheckout_OutOfStockRollsBack(t *testing.T) {
	env := newCheckout(t)
	ctx := context.Background()

	_, err := env.cart.Add(ctx, 1, env.book.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, 1, env.lamp.ID, 4)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, 1, env.lamp.ID, 4)
	require.NoError(t, err)

	_, err = env.checkout.Checkout(ctx, 1)
	var oos *service.OutOfStockError
	require.ErrorAs(t, err, &oos)
	assert.Equal(t, env.lamp.ID, oos.ProductID)
	assert.Equal(t, "Desk lamp", oos.Name)

	assert.EqualValues(t, 0, testutil.Count(t, env.db, &models.Order{}))
	assert.EqualValues(t, 0, testutil.Count(t, env.db, &models.OrderItem{}))
	assert.Equal(t, 10, testutil.Stock(t, env.db, env.book.ID))
	assert.Equal(t, 5, testutil.Stock(t, env.db, env.lamp.ID))

	cart, err := env.cart.Get(ctx, 1)
	require.NoError(t, err)
	require.Len(t, cart.Lines, 2)
	assert.Equal(t, 2, cart.Lines[0].Quantity)
	assert.Equal(t, 8, cart.Lines[1].Quantity)
}

func TestCheckout_ConcurrentLastUnit(t *testing.T) {
	env := newCheckout(t)
	ctx := context.Background()

	last := testutil.Product(t, env.db, env.cat.ID, "Last one", "10.00", 1)
	_, err := env.cart.Add(ctx, 1, last.ID, 1)
	require.NoError(t, err)
	_, err = env.cart.Add(ctx, 2, last.ID, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = env.checkout.Checkout(ctx, uint(i+1))
		}(i)
	}
	wg.Wait()

	succeeded, outOfStock := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, service.ErrOutOfStock):
			outOfStock++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, outOfStock)
	assert.Equal(t, 0, testutil.Stock(t, env.db, last.ID))
	assert.EqualValues(t, 1, testutil.Count(t, env.db, &models.Order{}))
	assert.EqualValues(t, 1, testutil.Count(t, env.db, &models.CartItem{}))
}

func TestOrders_OwnedByUser(t *testing.T) {
	env := newCheckout(t)
	ctx := context.Background()

	_, err := env.cart.Add(ctx, 1, env.book.ID, 1)
	require.NoError(t, err)
	first, err := env.checkout.Checkout(ctx, 1)
	require.NoError(t, err)

	_, err = env.cart.Add(ctx, 1, env.lamp.ID, 1)
	require.NoError(t, err)
	second, err := env.checkout.Checkout(ctx, 1)
	require.NoError(t, err)

	orders, err := env.checkout.ListOrders(ctx, 1)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, second.ID, orders[0].ID)
	assert.Equal(t, first.ID, orders[1].ID)
	assert.Len(t, orders[0].Items, 1)

	_, err = env.checkout.GetOrder(ctx, 2, first.ID)
	var nf *service.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "order", nf.Resource)
}
