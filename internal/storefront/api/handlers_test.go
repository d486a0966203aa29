package api_test

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fashioneshop/shopadmin/internal/storefront/api"
	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/admin"
	"github.com/fashioneshop/shopadmin/pkg/testutil"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
	"github.com/fashioneshop/shopadmin/pkg/webhook"
)

type env struct {
	anon     *testutil.TwinClient
	tc       *testutil.TwinClient
	admin    *testutil.AdminClient
	store    *store.MemoryStore
	webhooks *webhook.Dispatcher
}

func setupStorefront(t *testing.T) *env {
	t.Helper()
	memStore := store.New()
	twin := twincore.New(&twincore.Config{Name: "twin-storefront-test"}, nil)
	jwtMgr, err := api.NewJWTManager(nil, memStore.Clock.Now)
	if err != nil {
		t.Fatalf("failed to create JWT manager: %v", err)
	}
	dispatcher := webhook.NewDispatcher(webhook.Config{})

	api.NewHandler(memStore, twin.Middleware(), jwtMgr, dispatcher, nil).Routes(twin.Router)
	admin.New(admin.Options{
		State:      memStore,
		Middleware: twin.Middleware(),
		Clock:      memStore.Clock,
		Webhooks:   dispatcher,
		Config:     twin,
	}).Mount(twin.Router)

	srv := httptest.NewServer(twin)
	t.Cleanup(srv.Close)

	anon := testutil.NewTwinClient(t, srv)
	return &env{
		anon:     anon,
		tc:       anon.Login(store.DefaultUsername, store.DefaultPassword),
		admin:    testutil.NewAdminClient(anon),
		store:    memStore,
		webhooks: dispatcher,
	}
}

func createdID(t *testing.T, resp *testutil.Response) int64 {
	t.Helper()
	return resp.CreatedID()
}

// --- Auth ---

func TestLoginInvalidCredentials(t *testing.T) {
	e := setupStorefront(t)

	e.anon.Post("/api/auth/login", map[string]string{"username": "admin", "password": "nope"}).
		AssertStatus(http.StatusUnauthorized).
		AssertError("Invalid credentials")
	e.anon.Post("/api/auth/login", map[string]string{"username": "admin"}).
		AssertStatus(http.StatusBadRequest).
		AssertError("Username and password are required")
}

func TestLoginReturnsUser(t *testing.T) {
	e := setupStorefront(t)

	m := e.anon.Post("/api/auth/login", map[string]string{
		"username": store.DefaultUsername,
		"password": store.DefaultPassword,
	}).AssertStatus(http.StatusOK).JSONMap()
	user, _ := m["user"].(map[string]any)
	if user["username"] != "admin" || user["role"] != "admin" {
		t.Errorf("unexpected user: %+v", m["user"])
	}
}

func TestAuthRequired(t *testing.T) {
	e := setupStorefront(t)

	e.anon.Get("/api/products").AssertStatus(http.StatusUnauthorized).AssertError("Access token required")
	e.anon.WithToken("garbage").Get("/api/products").AssertStatus(http.StatusUnauthorized).AssertError("Invalid token")
}

func TestLogoutRevokesToken(t *testing.T) {
	e := setupStorefront(t)

	e.tc.Post("/api/auth/logout", nil).AssertStatus(http.StatusOK)
	e.tc.Get("/api/products").AssertStatus(http.StatusUnauthorized).AssertError("Token revoked")
}

func TestTokenExpiresWithSimulatedClock(t *testing.T) {
	e := setupStorefront(t)

	e.admin.AdvanceTime("25h").AssertStatus(http.StatusOK)
	e.tc.Get("/api/products").AssertStatus(http.StatusUnauthorized).AssertError("Token expired")
}

func TestMe(t *testing.T) {
	e := setupStorefront(t)

	m := e.tc.Get("/api/auth/me").AssertStatus(http.StatusOK).JSONMap()
	if m["username"] != "admin" {
		t.Errorf("unexpected identity: %+v", m)
	}
}

// --- Products ---

func TestProductCRUD(t *testing.T) {
	e := setupStorefront(t)

	id := createdID(t, e.tc.Post("/api/products", map[string]any{
		"title":  "Linen Dress",
		"price":  850,
		"stock":  4,
		"status": "draft",
		"images": `["/uploads/a.jpg"]`,
	}))

	m := e.tc.Get(fmt.Sprintf("/api/products/%d", id)).AssertStatus(http.StatusOK).JSONMap()
	if m["title"] != "Linen Dress" || m["images"] != `["/uploads/a.jpg"]` {
		t.Errorf("unexpected product: %+v", m)
	}

	e.tc.Put(fmt.Sprintf("/api/products/%d", id), map[string]any{"title": "Linen Maxi Dress"}).
		AssertStatus(http.StatusOK).
		AssertBodyContains("Product updated successfully")
	p, _ := e.store.Products.Get(id)
	if p.Title != "Linen Maxi Dress" || p.Price != 850 {
		t.Errorf("update should only touch sent fields: %+v", p)
	}

	e.tc.Delete(fmt.Sprintf("/api/products/%d", id)).AssertStatus(http.StatusOK)
	e.tc.Get(fmt.Sprintf("/api/products/%d", id)).AssertStatus(http.StatusNotFound).AssertError("Product not found")
}

func TestProductValidation(t *testing.T) {
	e := setupStorefront(t)

	e.tc.Post("/api/products", map[string]any{"price": 10}).
		AssertStatus(http.StatusBadRequest).AssertError("Title is required")
	e.tc.Post("/api/products", map[string]any{"title": "X", "status": "sold"}).
		AssertStatus(http.StatusBadRequest).AssertError("Invalid status")

	createdID(t, e.tc.Post("/api/products", map[string]any{"title": "A", "sku": "SKU-1"}))
	e.tc.Post("/api/products", map[string]any{"title": "B", "sku": "SKU-1"}).
		AssertStatus(http.StatusConflict).AssertError("SKU already exists")
}

func TestListProductsFilters(t *testing.T) {
	e := setupStorefront(t)
	createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Silk Scarf", "status": "draft", "price": 100}))
	createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Wool Scarf", "status": "active", "price": 300}))
	createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Denim Jacket", "status": "draft", "price": 200}))

	var body struct {
		Products []store.Product `json:"products"`
		Total    struct {
			Total int `json:"total"`
		} `json:"pagination"`
	}

	e.tc.Get("/api/products?search=&status=draft").AssertStatus(http.StatusOK).JSON(&body)
	if body.Total.Total != 2 {
		t.Errorf("expected 2 drafts, got %d", body.Total.Total)
	}

	e.tc.Get("/api/products?search=scarf&status=").JSON(&body)
	if len(body.Products) != 2 {
		t.Errorf("expected 2 scarves, got %d", len(body.Products))
	}

	e.tc.Get("/api/products?sort=price_asc&limit=2").JSON(&body)
	if len(body.Products) != 2 || body.Products[0].Price != 100 || body.Products[1].Price != 200 {
		t.Errorf("unexpected sort/limit result: %+v", body.Products)
	}

	e.tc.Get("/api/products?limit=abc").AssertStatus(http.StatusBadRequest)
}

func TestDeleteProductRemovesFromCollections(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Belt"}))
	cid := createdID(t, e.tc.Post("/api/collections", map[string]any{"name": "Accessories"}))
	e.tc.Post(fmt.Sprintf("/api/collections/%d/products", cid), map[string]any{"productId": pid}).AssertStatus(http.StatusOK)

	e.tc.Delete(fmt.Sprintf("/api/products/%d", pid)).AssertStatus(http.StatusOK)

	c, _ := e.store.Collections.Get(cid)
	if len(c.ProductIDs) != 0 {
		t.Errorf("expected product removed from collection, got %v", c.ProductIDs)
	}
}

// --- Uploads ---

func multipartBody(t *testing.T, names ...string) (string, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, name := range names {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write([]byte("\x89PNG\r\n\x1a\n" + name))
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return mw.FormDataContentType(), &buf
}

func TestUploadImages(t *testing.T) {
	e := setupStorefront(t)

	ct, body := multipartBody(t, "front.png", "back.PNG")
	var result struct {
		Message string   `json:"message"`
		URLs    []string `json:"urls"`
	}
	e.tc.PostRaw("/api/upload", ct, body).AssertStatus(http.StatusOK).JSON(&result)

	if len(result.URLs) != 2 {
		t.Fatalf("expected 2 urls, got %v", result.URLs)
	}
	for _, u := range result.URLs {
		if !strings.HasPrefix(u, "/uploads/") || !strings.HasSuffix(u, ".png") {
			t.Errorf("unexpected url %q", u)
		}
	}

	resp := e.anon.Get(result.URLs[0]).AssertStatus(http.StatusOK)
	if resp.Headers.Get("Content-Type") != "image/png" {
		t.Errorf("expected image/png, got %s", resp.Headers.Get("Content-Type"))
	}
}

func TestUploadWithoutFiles(t *testing.T) {
	e := setupStorefront(t)

	ct, body := multipartBody(t)
	e.tc.PostRaw("/api/upload", ct, body).AssertStatus(http.StatusBadRequest).AssertError("No files uploaded")
}

// --- Collections and bundles ---

func TestCollectionProducts(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Sandals"}))
	cid := createdID(t, e.tc.Post("/api/collections", map[string]any{"name": "Summer"}))
	path := fmt.Sprintf("/api/collections/%d/products", cid)

	e.tc.Post(path, map[string]any{"productId": pid}).AssertStatus(http.StatusOK)
	e.tc.Post(path, map[string]any{"productId": pid}).AssertStatus(http.StatusOK)
	e.tc.Post(path, map[string]any{"productId": 999}).AssertStatus(http.StatusNotFound).AssertError("Product not found")

	m := e.tc.Get(fmt.Sprintf("/api/collections/%d", cid)).AssertStatus(http.StatusOK).JSONMap()
	if products, _ := m["products"].([]any); len(products) != 1 {
		t.Errorf("expected 1 product in collection, got %v", m["products"])
	}

	e.tc.Delete(fmt.Sprintf("%s/%d", path, pid)).AssertStatus(http.StatusOK)
	e.tc.Delete(fmt.Sprintf("%s/%d", path, pid)).AssertStatus(http.StatusNotFound)

	e.tc.Post("/api/collections", map[string]any{"name": " "}).AssertStatus(http.StatusBadRequest).AssertError("Name is required")
}

func TestBundleFields(t *testing.T) {
	e := setupStorefront(t)
	bid := createdID(t, e.tc.Post("/api/bundles", map[string]any{"name": "Outfit", "discount_percentage": 15}))
	fid := createdID(t, e.tc.Post(fmt.Sprintf("/api/bundles/%d/fields", bid), map[string]any{"label": "Top"}))

	e.tc.Put(fmt.Sprintf("/api/bundles/%d/fields/%d", bid, fid), map[string]any{"required": true}).AssertStatus(http.StatusOK)
	f, _ := e.store.BundleFields.Get(fid)
	if !f.Required || f.Label != "Top" {
		t.Errorf("unexpected field: %+v", f)
	}

	e.tc.Put(fmt.Sprintf("/api/bundles/%d/fields/%d", bid+1, fid), map[string]any{"required": false}).
		AssertStatus(http.StatusNotFound)

	e.tc.Delete(fmt.Sprintf("/api/bundles/%d", bid)).AssertStatus(http.StatusOK)
	if e.store.BundleFields.Count() != 0 {
		t.Error("expected bundle fields removed with bundle")
	}

	e.tc.Post("/api/bundles", map[string]any{"name": "Bad", "discount_percentage": 120}).
		AssertStatus(http.StatusBadRequest)
}

// --- Offers ---

func TestOfferDateValidation(t *testing.T) {
	e := setupStorefront(t)

	e.tc.Post("/api/offers", map[string]any{
		"name":       "Eid Sale",
		"type":       "percentage",
		"value":      20,
		"start_date": "2026-03-10",
		"end_date":   "2026-03-01",
	}).AssertStatus(http.StatusBadRequest).AssertError("end_date must be after start_date")

	e.tc.Post("/api/offers", map[string]any{
		"name": "Eid Sale", "type": "bogus", "value": 20,
		"start_date": "2026-03-01", "end_date": "2026-03-10",
	}).AssertStatus(http.StatusBadRequest).AssertError("Invalid offer type")

	createdID(t, e.tc.Post("/api/offers", map[string]any{
		"name": "Eid Sale", "type": "fixed", "value": 50,
		"start_date": "2026-03-01T09:00", "end_date": "2026-03-10T23:59",
	}))
}

// --- Notifications ---

func TestTriggerNotificationQueuesWebhook(t *testing.T) {
	e := setupStorefront(t)
	id := createdID(t, e.tc.Post("/api/notifications", map[string]any{
		"title": "Flash sale", "message": "50% off today", "type": "alert",
	}))

	e.tc.Post(fmt.Sprintf("/api/notifications/%d/trigger", id), nil).
		AssertStatus(http.StatusOK).
		AssertBodyContains("Notification triggered successfully")

	n, _ := e.store.Notifications.Get(id)
	if n.SentCount != 1 || n.SentAt == nil {
		t.Errorf("expected notification marked sent: %+v", n)
	}
	events := e.webhooks.QueuedEvents()
	if len(events) != 1 || events[0].Type != api.EventNotificationTriggered || events[0].Data["title"] != "Flash sale" {
		t.Errorf("unexpected queued events: %+v", events)
	}

	e.admin.FlushWebhooks().AssertStatus(http.StatusOK)
	if len(e.webhooks.QueuedEvents()) != 0 {
		t.Error("expected queue drained by admin flush")
	}

	e.tc.Post("/api/notifications", map[string]any{"title": "x", "message": "y", "type": "push"}).
		AssertStatus(http.StatusBadRequest).AssertError("Invalid notification type")
}

// --- Popups, shipping, settings ---

func TestPopupDefaultsActive(t *testing.T) {
	e := setupStorefront(t)
	id := createdID(t, e.tc.Post("/api/popups", map[string]any{"title": "Welcome"}))
	p, _ := e.store.Popups.Get(id)
	if !p.IsActive {
		t.Error("expected new popup to be active")
	}
	e.tc.Put(fmt.Sprintf("/api/popups/%d", id), map[string]any{"is_active": false}).AssertStatus(http.StatusOK)
	p, _ = e.store.Popups.Get(id)
	if p.IsActive || p.Title != "Welcome" {
		t.Errorf("unexpected popup after update: %+v", p)
	}
}

func TestShippingCRUD(t *testing.T) {
	e := setupStorefront(t)
	id := createdID(t, e.tc.Post("/api/shipping", map[string]any{"zone": "Cairo", "cost": 50, "estimated_days": 2}))

	e.tc.Put(fmt.Sprintf("/api/shipping/%d", id), map[string]any{"cost": 60}).AssertStatus(http.StatusOK)
	var zones []store.ShippingZone
	e.tc.Get("/api/shipping").JSON(&zones)
	if len(zones) != 1 || zones[0].Cost != 60 || zones[0].EstimatedDays != 2 {
		t.Errorf("unexpected zones: %+v", zones)
	}

	e.tc.Delete(fmt.Sprintf("/api/shipping/%d", id)).AssertStatus(http.StatusOK)
	e.tc.Get("/api/shipping").JSON(&zones)
	if len(zones) != 0 {
		t.Errorf("expected no zones after delete, got %+v", zones)
	}
}

func TestSettings(t *testing.T) {
	e := setupStorefront(t)

	var settings []store.Setting
	e.tc.Get("/api/settings").AssertStatus(http.StatusOK).JSON(&settings)
	if len(settings) != len(store.DefaultSettings) || settings[0].Key != "currency" {
		t.Errorf("expected sorted default settings, got %+v", settings)
	}

	e.tc.Put("/api/settings/bulk/update", map[string]string{"store_name": "Nile Threads", "tax_rate": "10"}).
		AssertStatus(http.StatusOK)
	m := e.tc.Get("/api/settings/store_name").AssertStatus(http.StatusOK).JSONMap()
	if m["value"] != "Nile Threads" {
		t.Errorf("unexpected setting: %+v", m)
	}

	e.tc.Put("/api/settings/currency", map[string]string{"value": "USD"}).AssertStatus(http.StatusOK)
	e.tc.Delete("/api/settings/currency").AssertStatus(http.StatusOK)
	e.tc.Get("/api/settings/currency").AssertStatus(http.StatusNotFound).AssertError("Setting not found")
}

// --- Orders and analytics ---

func placeOrder(t *testing.T, e *env, productID int64, qty int) int64 {
	t.Helper()
	return createdID(t, e.anon.Post("/api/orders", map[string]any{
		"customer_name": "Mona",
		"phone":         "+201000000000",
		"items":         []map[string]any{{"product_id": productID, "quantity": qty}},
	}))
}

func TestOrdersLifecycle(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Abaya", "price": 400, "stock": 5}))
	zid := createdID(t, e.tc.Post("/api/shipping", map[string]any{"zone": "Giza", "cost": 40, "estimated_days": 1}))

	oid := createdID(t, e.anon.Post("/api/orders", map[string]any{
		"customer_name":    "Mona",
		"phone":            "+201000000000",
		"shipping_zone_id": zid,
		"items":            []map[string]any{{"product_id": pid, "quantity": 2}},
	}))
	o, _ := e.store.Orders.Get(oid)
	if o.Total != 840 || o.Status != "pending" {
		t.Errorf("unexpected order: %+v", o)
	}
	if p, _ := e.store.Products.Get(pid); p.Stock != 3 {
		t.Errorf("expected stock reserved, got %d", p.Stock)
	}

	e.anon.Post("/api/orders", map[string]any{
		"customer_name": "Mona", "phone": "1",
		"items": []map[string]any{{"product_id": pid, "quantity": 9}},
	}).AssertStatus(http.StatusBadRequest).AssertError("Insufficient stock for Abaya")

	e.tc.Put(fmt.Sprintf("/api/orders/%d", oid), map[string]string{"status": "lost"}).
		AssertStatus(http.StatusBadRequest).AssertError("Invalid status")
	e.tc.Put(fmt.Sprintf("/api/orders/%d", oid), map[string]string{"status": "cancelled"}).AssertStatus(http.StatusOK)
	if p, _ := e.store.Products.Get(pid); p.Stock != 5 {
		t.Errorf("expected stock released on cancel, got %d", p.Stock)
	}
}

func TestListOrdersByStatus(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Hijab", "price": 100, "stock": 10}))
	first := placeOrder(t, e, pid, 1)
	placeOrder(t, e, pid, 1)
	e.tc.Put(fmt.Sprintf("/api/orders/%d", first), map[string]string{"status": "shipped"}).AssertStatus(http.StatusOK)

	var body struct {
		Orders []store.Order `json:"orders"`
	}
	e.tc.Get("/api/orders?status=pending").AssertStatus(http.StatusOK).JSON(&body)
	if len(body.Orders) != 1 || body.Orders[0].ID == first {
		t.Errorf("unexpected pending orders: %+v", body.Orders)
	}
	e.tc.Get("/api/orders?status=").JSON(&body)
	if len(body.Orders) != 2 || body.Orders[0].ID == first {
		t.Errorf("expected both orders newest first: %+v", body.Orders)
	}
}

func TestExportOrdersCSV(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Tunic", "price": 250, "stock": 3}))
	placeOrder(t, e, pid, 1)

	resp := e.tc.Get("/api/orders/export").AssertStatus(http.StatusOK)
	if ct := resp.Headers.Get("Content-Type"); ct != "text/csv" {
		t.Errorf("expected text/csv, got %s", ct)
	}
	rows, err := csv.NewReader(bytes.NewReader(resp.Body)).ReadAll()
	if err != nil {
		t.Fatalf("invalid csv: %v", err)
	}
	if len(rows) != 2 || rows[0][0] != "id" || rows[1][1] != "Mona" || rows[1][4] != "250.00" {
		t.Errorf("unexpected csv rows: %v", rows)
	}
}

func TestAnalytics(t *testing.T) {
	e := setupStorefront(t)
	pid := createdID(t, e.tc.Post("/api/products", map[string]any{"title": "Kaftan", "price": 300, "stock": 6}))
	placeOrder(t, e, pid, 1)
	placeOrder(t, e, pid, 2)
	e.anon.Post("/api/analytics/track", map[string]string{"path": "/", "visitor_id": "v1"}).AssertStatus(http.StatusCreated)
	e.anon.Post("/api/analytics/track", map[string]string{"path": "/", "visitor_id": "v2"}).AssertStatus(http.StatusCreated)
	e.anon.Post("/api/analytics/track", map[string]string{"path": "/sale", "visitor_id": "v1"}).AssertStatus(http.StatusCreated)

	var overview struct {
		Today struct {
			OrdersToday  int     `json:"orders_today"`
			RevenueToday float64 `json:"revenue_today"`
		} `json:"today"`
		PendingOrders    int             `json:"pending_orders"`
		RecentOrders     []store.Order   `json:"recent_orders"`
		LowStockProducts []store.Product `json:"low_stock_products"`
	}
	e.tc.Get("/api/analytics/overview").AssertStatus(http.StatusOK).JSON(&overview)
	if overview.Today.OrdersToday != 2 || overview.Today.RevenueToday != 900 || overview.PendingOrders != 2 {
		t.Errorf("unexpected overview: %+v", overview)
	}
	if len(overview.RecentOrders) != 2 || len(overview.LowStockProducts) != 1 {
		t.Errorf("unexpected overview lists: %+v", overview)
	}

	var sales struct {
		Period       int     `json:"period"`
		TotalRevenue float64 `json:"total_revenue"`
		Daily        []any   `json:"daily"`
	}
	e.tc.Get("/api/analytics/sales").AssertStatus(http.StatusOK).JSON(&sales)
	if sales.Period != 30 || len(sales.Daily) != 30 || sales.TotalRevenue != 900 {
		t.Errorf("unexpected sales: %+v", sales)
	}

	var traffic struct {
		TotalViews     int `json:"total_views"`
		UniqueVisitors int `json:"unique_visitors"`
		TopPages       []struct {
			Path  string `json:"path"`
			Views int    `json:"views"`
		} `json:"top_pages"`
	}
	e.tc.Get("/api/analytics/traffic?period=7").AssertStatus(http.StatusOK).JSON(&traffic)
	if traffic.TotalViews != 3 || traffic.UniqueVisitors != 2 || traffic.TopPages[0].Path != "/" {
		t.Errorf("unexpected traffic: %+v", traffic)
	}

	e.tc.Get("/api/analytics/sales?period=0").AssertStatus(http.StatusBadRequest)

	// a week later the orders fall out of "today"
	e.admin.AdvanceTime("168h")
	tc := e.anon.Login(store.DefaultUsername, store.DefaultPassword)
	tc.Get("/api/analytics/overview").JSON(&overview)
	if overview.Today.OrdersToday != 0 {
		t.Errorf("expected no orders today after a week, got %d", overview.Today.OrdersToday)
	}
}

// --- Admin control plane ---

func TestFaultInjectionOnAPI(t *testing.T) {
	e := setupStorefront(t)

	e.admin.InjectFault("/api/offers", map[string]any{
		"status_code": http.StatusServiceUnavailable,
		"body":        `{"error":"maintenance"}`,
	}).AssertStatus(http.StatusOK)
	e.tc.Get("/api/offers").AssertStatus(http.StatusServiceUnavailable).AssertError("maintenance")

	e.admin.RemoveFault("/api/offers").AssertStatus(http.StatusOK)
	e.tc.Get("/api/offers").AssertStatus(http.StatusOK)
}

func TestAdminResetReseeds(t *testing.T) {
	e := setupStorefront(t)
	createdID(t, e.tc.Post("/api/popups", map[string]any{"title": "Temp"}))

	e.admin.Reset().AssertStatus(http.StatusOK)
	if e.store.Popups.Count() != 0 {
		t.Error("expected popups cleared")
	}
	e.anon.Login(store.DefaultUsername, store.DefaultPassword)
}
