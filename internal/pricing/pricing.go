// Package pricing derives the price a product sells at from its base price and attached offer.
//
// Every amount is rounded half away from zero to two decimal places, so that
// Price + Discount == Base holds exactly for any quote.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Rojan6190/shop/internal/models"
)

const Places = 2

var hundred = decimal.NewFromInt(100)

type Quote struct {
	Base       decimal.Decimal
	Price      decimal.Decimal
	Discount   decimal.Decimal
	Discounted bool
	// Offer is set only while the attached offer is active.
	Offer *models.Offer
}

func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// Active reports whether now falls inside [StartTime, EndTime], both ends inclusive, compared in UTC.
func Active(o *models.Offer, now time.Time) bool {
	if o == nil {
		return false
	}
	now = now.UTC()
	return !now.Before(o.StartTime.UTC()) && !now.After(o.EndTime.UTC())
}

func Effective(p *models.Product, now time.Time) Quote {
	base := Round(p.Price)
	q := Quote{Base: base, Price: base, Discount: decimal.Zero}
	if !Active(p.Offer, now) {
		return q
	}

	factor := decimal.NewFromInt(1).Sub(p.Offer.DiscountPercent.Div(hundred))
	q.Price = Round(base.Mul(factor))
	q.Discount = base.Sub(q.Price)
	q.Discounted = true
	q.Offer = p.Offer
	return q
}

func LineTotal(unit decimal.Decimal, quantity int) decimal.Decimal {
	return Round(unit.Mul(decimal.NewFromInt(int64(quantity))))
}

type Line struct {
	Product  *models.Product
	Quantity int
}

type PricedLine struct {
	Line
	Quote     Quote
	LineTotal decimal.Decimal
}

// Price quotes every line at the same instant and returns the lines with the rounded grand total.
func Price(lines []Line, now time.Time) ([]PricedLine, decimal.Decimal) {
	out := make([]PricedLine, 0, len(lines))
	total := decimal.Zero
	for _, l := range lines {
		q := Effective(l.Product, now)
		lt := LineTotal(q.Price, l.Quantity)
		out = append(out, PricedLine{Line: l, Quote: q, LineTotal: lt})
		total = total.Add(lt)
	}
	return out, Round(total)
}
