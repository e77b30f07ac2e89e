package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/transport"
	"github.com/Rojan6190/shop/pkg/logging"
)

type OrderHTTP struct {
	Svc *service.CheckoutService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	order, err := h.Svc.Checkout(ctx, uid)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	return c.JSON(http.StatusCreated, transport.NewCheckoutResponse(order))
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	orders, err := h.Svc.ListOrders(ctx, uid)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderViews(orders))
}

func (h *OrderHTTP) GetOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.get_order")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_order_error", err.Error(), err)
	}

	order, err := h.Svc.GetOrder(ctx, uid, id)
	if err != nil {
		return fail(l, "get_order_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewOrderView(order))
}
