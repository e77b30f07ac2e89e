package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rojan6190/shop/internal/models"
)

var now = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func offer(pct string, start, end time.Time) *models.Offer {
	return &models.Offer{ID: 1, Name: "spring", DiscountPercent: dec(pct), StartTime: start, EndTime: end}
}

func TestEffective_NoOffer(t *testing.T) {
	q := Effective(&models.Product{Price: dec("19.99")}, now)

	assert.True(t, q.Price.Equal(dec("19.99")))
	assert.True(t, q.Discount.IsZero())
	assert.False(t, q.Discounted)
	assert.Nil(t, q.Offer)
}

func TestEffective_ActiveOffer(t *testing.T) {
	o := offer("20", now.Add(-time.Hour), now.Add(time.Hour))
	q := Effective(&models.Product{Price: dec("100.00"), Offer: o}, now)

	assert.True(t, q.Price.Equal(dec("80.00")), q.Price.String())
	assert.True(t, q.Discount.Equal(dec("20.00")), q.Discount.String())
	assert.True(t, q.Discounted)
	assert.Same(t, o, q.Offer)
}

func TestEffective_InactiveOfferBehavesAsNoOffer(t *testing.T) {
	tests := []struct {
		name  string
		offer *models.Offer
	}{
		{name: "expired", offer: offer("30", now.Add(-48*time.Hour), now.Add(-time.Second))},
		{name: "not started", offer: offer("30", now.Add(time.Second), now.Add(48*time.Hour))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Effective(&models.Product{Price: dec("50.00"), Offer: tt.offer}, now)
			assert.True(t, q.Price.Equal(dec("50.00")))
			assert.True(t, q.Discount.IsZero())
			assert.False(t, q.Discounted)
			assert.Nil(t, q.Offer)
		})
	}
}

func TestActive_BoundariesInclusive(t *testing.T) {
	o := offer("10", now, now.Add(time.Hour))

	assert.True(t, Active(o, now))
	assert.True(t, Active(o, now.Add(time.Hour)))
	assert.False(t, Active(o, now.Add(-time.Nanosecond)))
	assert.False(t, Active(o, now.Add(time.Hour+time.Nanosecond)))
	assert.False(t, Active(nil, now))
}

func TestActive_ComparesInstantsAcrossZones(t *testing.T) {
	kathmandu := time.FixedZone("NPT", 5*3600+45*60)
	o := offer("10", now.In(kathmandu), now.Add(time.Minute).In(kathmandu))

	assert.True(t, Active(o, now))
	assert.True(t, Active(o, now.In(time.FixedZone("EST", -5*3600))))
}

func TestEffective_PriceAndDiscountSumToBase(t *testing.T) {
	tests := []struct {
		base, pct     string
		price, saving string
	}{
		{base: "100.00", pct: "20", price: "80.00", saving: "20.00"},
		{base: "19.99", pct: "15", price: "16.99", saving: "3.00"},
		{base: "0.05", pct: "50", price: "0.03", saving: "0.02"},
		{base: "10.01", pct: "33.33", price: "6.67", saving: "3.34"},
		{base: "7.00", pct: "0", price: "7.00", saving: "0.00"},
		{base: "999.99", pct: "12.5", price: "874.99", saving: "125.00"},
	}

	for _, tt := range tests {
		t.Run(tt.base+"@"+tt.pct, func(t *testing.T) {
			o := offer(tt.pct, now.Add(-time.Hour), now.Add(time.Hour))
			q := Effective(&models.Product{Price: dec(tt.base), Offer: o}, now)

			assert.True(t, q.Price.Equal(dec(tt.price)), "price %s", q.Price)
			assert.True(t, q.Discount.Equal(dec(tt.saving)), "discount %s", q.Discount)
			assert.True(t, q.Price.Add(q.Discount).Equal(dec(tt.base)))
			assert.True(t, q.Discounted)
		})
	}
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "0.13", Round(dec("0.125")).StringFixed(2))
	assert.Equal(t, "0.12", Round(dec("0.124")).StringFixed(2))
	assert.Equal(t, "2.68", Round(dec("2.675")).StringFixed(2))
}

func TestPrice_RoundsEachLineThenTotal(t *testing.T) {
	active := offer("10", now.Add(-time.Hour), now.Add(time.Hour))
	lines := []Line{
		{Product: &models.Product{ID: 1, Price: dec("3.33"), Offer: active}, Quantity: 3},
		{Product: &models.Product{ID: 2, Price: dec("10.00")}, Quantity: 2},
	}

	priced, total := Price(lines, now)
	require.Len(t, priced, 2)

	// 3.33 * 0.9 = 2.997 -> 3.00, times 3 = 9.00
	assert.True(t, priced[0].Quote.Price.Equal(dec("3.00")))
	assert.True(t, priced[0].LineTotal.Equal(dec("9.00")))
	assert.True(t, priced[1].LineTotal.Equal(dec("20.00")))
	assert.True(t, total.Equal(dec("29.00")))
}

func TestPrice_Empty(t *testing.T) {
	priced, total := Price(nil, now)
	assert.Empty(t, priced)
	assert.True(t, total.IsZero())
}
