package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/transport"
	"github.com/Rojan6190/shop/pkg/logging"
	"github.com/Rojan6190/shop/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_product")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_product_error", err.Error(), err)
	}

	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}

	return c.JSON(http.StatusOK, transport.NewProductView(p, h.Svc.Clock()))
}

func (h *CatalogHTTP) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.ListProducts(ctx, offset, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}

	l.Info("get_products_success", "total", total)
	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: transport.NewProductViews(items, h.Svc.Clock()),
		Meta: transport.NewPageMeta(max(page, 1), offset, limit, total),
	})
}

func (h *CatalogHTTP) SearchProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_products")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, items, err := h.Svc.Search(ctx, c.QueryParam("q"), offset, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}

	return c.JSON(http.StatusOK, transport.ProductPage{
		Data: transport.NewProductViews(items, h.Svc.Clock()),
		Meta: transport.NewPageMeta(max(page, 1), offset, limit, total),
	})
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_product")

	var req transport.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(l, "create_product_error", "invalid body", err)
	}

	p, err := h.Svc.CreateProduct(ctx, service.NewProduct{
		Name:       req.Name,
		Price:      req.Price,
		Stock:      req.Stock,
		CategoryID: req.CategoryID,
	})
	if err != nil {
		return fail(l, "create_product_error", err)
	}

	l.Info("create_product_success", "product_id", p.ID)
	return c.JSON(http.StatusCreated, transport.NewProductView(p, h.Svc.Clock()))
}

func (h *CatalogHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_categories")

	cats, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "get_categories_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCategoryCounts(cats))
}

func (h *CatalogHTTP) GetCategoryProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_category_products")

	id, err := paramID(c, "id")
	if err != nil {
		return badRequest(l, "get_category_products_error", err.Error(), err)
	}

	items, err := h.Svc.ProductsByCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category_products_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductViews(items, h.Svc.Clock()))
}
