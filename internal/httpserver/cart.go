package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/transport"
	"github.com/Rojan6190/shop/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	cart, err := h.Svc.Get(ctx, uid)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewCartResponse(cart.Lines, cart.GrandTotal))
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add_to_cart")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "add_to_cart_error", "invalid body", err)
	}

	item, err := h.Svc.Add(ctx, uid, req.ProductID, req.Quantity)
	if err != nil {
		return fail(l, "add_to_cart_error", err)
	}

	l.Info("add_to_cart_success", "product_id", item.ProductID, "quantity", item.Quantity)
	return c.JSON(http.StatusCreated, transport.CartItemResponse{ProductID: item.ProductID, Quantity: item.Quantity})
}

func (h *CartHTTP) RemoveOne(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_one")

	uid, err := userID(c)
	if err != nil {
		return err
	}
	pid, err := paramID(c, "product_id")
	if err != nil {
		return badRequest(l, "remove_one_error", err.Error(), err)
	}

	deleted, item, err := h.Svc.RemoveOne(ctx, uid, pid)
	if err != nil {
		return fail(l, "remove_one_error", err)
	}

	resp := transport.CartItemResponse{ProductID: pid, Removed: deleted}
	if !deleted {
		resp.Quantity = item.Quantity
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	uid, err := userID(c)
	if err != nil {
		return err
	}

	if err := h.Svc.Clear(ctx, uid); err != nil {
		return fail(l, "clear_cart_error", err)
	}

	l.Info("clear_cart_success")
	return c.NoContent(http.StatusNoContent)
}
