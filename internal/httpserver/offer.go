package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/transport"
	"github.com/Rojan6190/shop/pkg/logging"
)

type OfferHTTP struct {
	Svc *service.OfferService
}

func (h *OfferHTTP) ActiveOffers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "offer.active")

	at := h.Svc.Clock()
	items, err := h.Svc.ActiveOfferProducts(ctx, at)
	if err != nil {
		return fail(l, "active_offers_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductViews(items, at))
}

func (h *OfferHTTP) CreateOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "offer.create")

	var req transport.CreateOfferRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_offer_error", "invalid body", err)
	}

	o, err := h.Svc.Create(ctx, service.NewOffer{
		Name:            req.Name,
		DiscountPercent: req.DiscountPercent,
		StartTime:       req.StartTime,
		EndTime:         req.EndTime,
	})
	if err != nil {
		return fail(l, "create_offer_error", err)
	}

	l.Info("create_offer_success", "offer_id", o.ID)
	return c.JSON(http.StatusCreated, transport.NewOfferView(o))
}

func (h *OfferHTTP) ApplyOffer(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "offer.apply")

	offerID, err := paramID(c, "offer_id")
	if err != nil {
		return badRequest(l, "apply_offer_error", err.Error(), err)
	}
	productID, err := paramID(c, "product_id")
	if err != nil {
		return badRequest(l, "apply_offer_error", err.Error(), err)
	}

	p, err := h.Svc.Attach(ctx, offerID, productID)
	if err != nil {
		return fail(l, "apply_offer_error", err)
	}

	l.Info("apply_offer_success", "offer_id", offerID, "product_id", productID)
	return c.JSON(http.StatusOK, transport.NewProductView(p, h.Svc.Clock()))
}

func (h *OfferHTTP) ListOffers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "offer.list")

	offers, err := h.Svc.List(ctx)
	if err != nil {
		return fail(l, "list_offers_error", err)
	}

	out := make([]transport.OfferView, 0, len(offers))
	for i := range offers {
		out = append(out, transport.NewOfferView(&offers[i]))
	}
	return c.JSON(http.StatusOK, out)
}
