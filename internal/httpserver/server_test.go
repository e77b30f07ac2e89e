package httpserver_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Rojan6190/shop/internal/httpserver"
	"github.com/Rojan6190/shop/internal/models"
	"github.com/Rojan6190/shop/internal/repo"
	"github.com/Rojan6190/shop/internal/service"
	"github.com/Rojan6190/shop/internal/storage"
	"github.com/Rojan6190/shop/internal/testutil"
	"github.com/Rojan6190/shop/pkg/tokens"
)

var (
	secret   = []byte("test-jwt-secret")
	fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
)

type testEnv struct {
	E    *echo.Echo
	DB   *gorm.DB
	Book models.Product
	Lamp models.Product
	Cat  models.Category
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.NewDB(t)
	r := repo.New(db)
	clock := func() time.Time { return fixedNow }
	files := storage.NewDiskStore(t.TempDir(), 0)

	e := echo.New()
	httpserver.Register(e, &httpserver.Deps{
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{Repo: r, Now: clock}},
		CartHandler:    &httpserver.CartHTTP{Svc: &service.CartService{Repo: r, Now: clock}},
		OrderHandler:   &httpserver.OrderHTTP{Svc: &service.CheckoutService{Repo: r, Now: clock}},
		OfferHandler:   &httpserver.OfferHTTP{Svc: &service.OfferService{Repo: r, Now: clock}},
		ImageHandler:   &httpserver.ImageHTTP{Svc: &service.ImageService{Repo: r, Files: files}},
		JWTSecret:      secret,
		Ready:          r.Ping,
	})

	cat := testutil.Category(t, db, "Home")
	return &testEnv{
		E:    e,
		DB:   db,
		Cat:  cat,
		Book: testutil.Product(t, db, cat.ID, "Cookbook", "19.99", 10),
		Lamp: testutil.Product(t, db, cat.ID, "Desk lamp", "100.00", 1),
	}
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, tokens.AccessClaims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   sub,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString(secret)
	require.NoError(t, err)
	return "Bearer " + s
}

func (env *testEnv) do(t *testing.T, method, path string, body any, auth string) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)

	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/live", nil, "").Code)
	assert.Equal(t, http.StatusOK, env.do(t, http.MethodGet, "/health/ready", nil, "").Code)
}

func TestCartAndCheckoutFlow(t *testing.T) {
	env := newTestEnv(t)
	user := bearer(t, "1", "user")

	rec := env.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"product_id": env.Book.ID, "quantity": 2}, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"product_id": env.Book.ID, "quantity": 1}, user)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decode[map[string]any](t, rec)
	items := cart["items"].([]any)
	require.Len(t, items, 1)
	line := items[0].(map[string]any)
	assert.EqualValues(t, env.Book.ID, line["product_id"])
	assert.EqualValues(t, 3, line["quantity"])
	assert.Equal(t, 19.99, line["unit_price"])
	assert.Equal(t, 59.97, line["line_total"])
	assert.Equal(t, 59.97, cart["grand_total"])

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", nil, user)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode[map[string]any](t, rec)
	assert.Equal(t, 59.97, out["total_paid"])
	assert.NotEmpty(t, out["reference"])

	rec = env.do(t, http.MethodPost, "/api/v1/checkout", nil, user)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(t, http.MethodGet, "/api/v1/orders", nil, user)
	require.Equal(t, http.StatusOK, rec.Code)
	orders := decode[[]map[string]any](t, rec)
	require.Len(t, orders, 1)
	assert.Equal(t, 59.97, orders[0]["total"])

	other := bearer(t, "2", "user")
	rec = env.do(t, http.MethodGet, "/api/v1/orders/1", nil, other)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCartErrors(t *testing.T) {
	env := newTestEnv(t)
	user := bearer(t, "1", "user")

	tests := []struct {
		name string
		body any
		code int
	}{
		{"zero quantity", map[string]any{"product_id": env.Book.ID, "quantity": 0}, http.StatusBadRequest},
		{"unknown product", map[string]any{"product_id": 999, "quantity": 1}, http.StatusNotFound},
		{"too many", map[string]any{"product_id": env.Lamp.ID, "quantity": 2}, http.StatusConflict},
		{"malformed", "not an object", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/v1/cart", tt.body, user)
			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}

	assert.Equal(t, http.StatusUnauthorized, env.do(t, http.MethodGet, "/api/v1/cart", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/v1/cart/items/999", nil, user).Code)
}

func TestCheckout_OutOfStockConflict(t *testing.T) {
	env := newTestEnv(t)
	alice := bearer(t, "1", "user")
	bob := bearer(t, "2", "user")

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"product_id": env.Lamp.ID, "quantity": 1}, alice).Code)
	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/cart", map[string]any{"product_id": env.Lamp.ID, "quantity": 1}, bob).Code)

	require.Equal(t, http.StatusCreated, env.do(t, http.MethodPost, "/api/v1/checkout", nil, alice).Code)

	rec := env.do(t, http.MethodPost, "/api/v1/checkout", nil, bob)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "out of stock")

	rec = env.do(t, http.MethodGet, "/api/v1/cart", nil, bob)
	cart := decode[map[string]any](t, rec)
	assert.Len(t, cart["items"], 1)
}

func TestOffersFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := bearer(t, "9", tokens.RoleAdmin)
	user := bearer(t, "1", "user")

	body := map[string]any{
		"name":             "Summer",
		"discount_percent": 20,
		"start_time":       fixedNow.Add(-time.Hour).Format(time.RFC3339),
		"end_time":         fixedNow.Add(time.Hour).Format(time.RFC3339),
	}

	assert.Equal(t, http.StatusForbidden, env.do(t, http.MethodPost, "/api/v1/offers", body, user).Code)

	rec := env.do(t, http.MethodPost, "/api/v1/offers", body, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	offer := decode[map[string]any](t, rec)

	bad := map[string]any{"name": "Too much", "discount_percent": 60, "start_time": body["start_time"], "end_time": body["end_time"]}
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodPost, "/api/v1/offers", bad, admin).Code)

	rec = env.do(t, http.MethodPost, "/api/v1/offers/999/apply/1", nil, admin)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "offer")

	path := "/api/v1/offers/" + jsonID(offer["id"]) + "/apply/" + jsonID(env.Lamp.ID)
	rec = env.do(t, http.MethodPost, path, nil, admin)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[map[string]any](t, rec)
	assert.Equal(t, 80.0, view["current_price"])
	assert.Equal(t, 20.0, view["discount_amount"])
	assert.Equal(t, true, view["is_on_offer"])

	rec = env.do(t, http.MethodGet, "/api/v1/offers/active", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	active := decode[[]map[string]any](t, rec)
	require.Len(t, active, 1)
	assert.Equal(t, "Desk lamp", active[0]["name"])
	assert.Equal(t, "Home", active[0]["category"].(map[string]any)["name"])
}

func TestCatalog(t *testing.T) {
	env := newTestEnv(t)
	admin := bearer(t, "9", tokens.RoleAdmin)

	rec := env.do(t, http.MethodPost, "/api/v1/products", map[string]any{"name": "Kettle", "price": "24.50", "stock": 3, "category_id": env.Cat.ID}, admin)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = env.do(t, http.MethodGet, "/api/v1/products?page=1&size=2", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[map[string]any](t, rec)
	assert.Len(t, page["data"], 2)
	meta := page["meta"].(map[string]any)
	assert.EqualValues(t, 3, meta["total"])
	assert.EqualValues(t, 2, meta["total_pages"])
	assert.Equal(t, true, meta["has_next"])

	rec = env.do(t, http.MethodGet, "/api/v1/products/"+jsonID(env.Book.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	p := decode[map[string]any](t, rec)
	assert.Equal(t, 19.99, p["current_price"])
	assert.Nil(t, p["offer"])

	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/products/999", nil, "").Code)
	assert.Equal(t, http.StatusBadRequest, env.do(t, http.MethodGet, "/api/v1/products/abc", nil, "").Code)

	rec = env.do(t, http.MethodGet, "/api/v1/categories", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	cats := decode[[]map[string]any](t, rec)
	require.Len(t, cats, 1)
	assert.EqualValues(t, 3, cats[0]["product_count"])

	rec = env.do(t, http.MethodGet, "/api/v1/products/search?q=kett", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	found := decode[map[string]any](t, rec)
	assert.Len(t, found["data"], 1)
}

func TestProductImageUpload(t *testing.T) {
	env := newTestEnv(t)
	user := bearer(t, "1", "user")

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "lamp.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("png-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/products/"+jsonID(env.Lamp.ID)+"/image", &buf)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, user)
	rec := httptest.NewRecorder()
	env.E.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	got := decode[map[string]any](t, rec)
	assert.Regexp(t, `^/static/products/[0-9a-f]{32}\.png$`, got["image_url"])

	rec = env.do(t, http.MethodPost, "/api/v1/products/"+jsonID(env.Lamp.ID)+"/image", nil, user)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusNoContent, env.do(t, http.MethodDelete, "/api/v1/products/"+jsonID(env.Lamp.ID)+"/image", nil, user).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodDelete, "/api/v1/products/"+jsonID(env.Lamp.ID)+"/image", nil, user).Code)
}

func jsonID(v any) string {
	b, _ := json.Marshal(v)
	return string(b)
}
