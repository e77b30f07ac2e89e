package httpserver

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	middleware "github.com/Rojan6190/shop/pkg/middleware/auth"
)

type Deps struct {
	CatalogHandler *CatalogHTTP
	CartHandler    *CartHTTP
	OrderHandler   *OrderHTTP
	OfferHandler   *OfferHTTP
	ImageHandler   *ImageHTTP
	JWTSecret      []byte
	// Ready reports whether the storage backend answers; nil means always ready.
	Ready     func(ctx context.Context) error
	StaticDir string
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error {
		if d.Ready != nil {
			if err := d.Ready(c.Request().Context()); err != nil {
				return c.NoContent(http.StatusServiceUnavailable)
			}
		}
		return c.NoContent(http.StatusOK)
	})
	if d.StaticDir != "" {
		e.Static("/static", d.StaticDir)
	}

	authMW := middleware.NewAuthMiddleware(d.JWTSecret)

	v1 := e.Group("/api/v1")

	products := v1.Group("/products")
	products.GET("", d.CatalogHandler.GetProducts)
	products.GET("/search", d.CatalogHandler.SearchProducts)
	products.GET("/:id", d.CatalogHandler.GetProduct)
	products.GET("/:id/image", d.ImageHandler.GetProductImage)
	products.POST("/:id/image", d.ImageHandler.UploadProductImage, authMW.RequireAuth)
	products.DELETE("/:id/image", d.ImageHandler.DeleteProductImage, authMW.RequireAuth)
	products.POST("", d.CatalogHandler.CreateProduct, authMW.RequireAdmin)

	categories := v1.Group("/categories")
	categories.GET("", d.CatalogHandler.GetCategories)
	categories.GET("/:id/products", d.CatalogHandler.GetCategoryProducts)

	offers := v1.Group("/offers")
	offers.GET("/active", d.OfferHandler.ActiveOffers)
	offersAdmin := offers.Group("", authMW.RequireAdmin)
	offersAdmin.GET("", d.OfferHandler.ListOffers)
	offersAdmin.POST("", d.OfferHandler.CreateOffer)
	offersAdmin.POST("/:offer_id/apply/:product_id", d.OfferHandler.ApplyOffer)

	cart := v1.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddToCart)
	cart.DELETE("", d.CartHandler.ClearCart)
	cart.DELETE("/items/:product_id", d.CartHandler.RemoveOne)

	v1.POST("/checkout", d.OrderHandler.Checkout, authMW.RequireAuth)

	orders := v1.Group("/orders", authMW.RequireAuth)
	orders.GET("", d.OrderHandler.ListOrders)
	orders.GET("/:id", d.OrderHandler.GetOrder)

	user := v1.Group("/user", authMW.RequireAuth)
	user.GET("/profile-image", d.ImageHandler.GetUserImage)
	user.POST("/profile-image", d.ImageHandler.UploadUserImage)
	user.DELETE("/profile-image", d.ImageHandler.DeleteUserImage)
}
