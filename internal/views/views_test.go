package views

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/client"
	"github.com/fashioneshop/shopadmin/internal/resources"
	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/internal/storefront/storefronttest"
	"github.com/fashioneshop/shopadmin/internal/tokenstore"
	"github.com/fashioneshop/shopadmin/pkg/testutil"
)

type toasts struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (t *toasts) Success(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.successes = append(t.successes, msg)
}

func (t *toasts) Error(msg string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.errors = append(t.errors, msg)
}

func (t *toasts) lastSuccess() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.successes) == 0 {
		return ""
	}
	return t.successes[len(t.successes)-1]
}

func (t *toasts) lastError() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if len(t.errors) == 0 {
		return ""
	}
	return t.errors[len(t.errors)-1]
}

type fixture struct {
	srv    *storefronttest.Server
	env    Env
	toasts *toasts
}

func setup(t *testing.T) *fixture {
	t.Helper()
	srv := storefronttest.Start(t)
	tokens := tokenstore.NewMemory()
	api := resources.New(client.New(srv.APIURL(), tokens))
	resp, err := api.Auth.Login(context.Background(), store.DefaultUsername, store.DefaultPassword)
	require.NoError(t, err)
	require.NoError(t, tokens.Set(resp.Token))

	c := cache.New()
	t.Cleanup(c.Close)
	ts := &toasts{}
	return &fixture{
		srv:    srv,
		env:    Env{API: api, Cache: c, Notify: ts},
		toasts: ts,
	}
}

func rendered(t *testing.T, screen interface{ Render(io.Writer) error }) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, screen.Render(&buf))
	return buf.String()
}

func TestOffersCreateRefreshesList(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	offers := NewOffers(f.env)
	defer offers.Close()

	list, err := offers.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Contains(t, rendered(t, offers), "No offers yet")

	_, err = offers.Create(ctx, OfferForm{
		Name:        "Spring sale",
		Value:       "15",
		MinPurchase: "500",
		StartDate:   "2026-03-01",
		EndDate:     "2026-03-31",
	})
	require.NoError(t, err)
	assert.Equal(t, MsgOfferCreated, f.toasts.lastSuccess())

	list, err = offers.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "percentage", list[0].Type)

	out := rendered(t, offers)
	assert.Contains(t, out, "Spring sale")
	assert.Contains(t, out, "15%")
	assert.Contains(t, out, "500 EGP")
}

func TestOfferDateErrorShownVerbatim(t *testing.T) {
	f := setup(t)
	offers := NewOffers(f.env)
	defer offers.Close()

	_, err := offers.Create(context.Background(), OfferForm{
		Name:      "Backwards",
		Type:      "fixed",
		Value:     "20",
		StartDate: "2026-03-10",
		EndDate:   "2026-03-01",
	})
	require.Error(t, err)
	assert.Equal(t, "end_date must be after start_date", f.toasts.lastError())
	assert.Empty(t, f.toasts.successes)
}

func TestRenderStates(t *testing.T) {
	f := setup(t)
	shipping := NewShipping(f.env)
	defer shipping.Close()

	assert.Contains(t, rendered(t, shipping), "Loading shipping...")

	f.srv.Admin.InjectFault("/api/shipping", map[string]any{"status_code": http.StatusInternalServerError, "rate": 1}).
		AssertStatus(http.StatusOK)
	_, err := shipping.Load(context.Background())
	require.EqualError(t, err, "injected fault")
	assert.Contains(t, rendered(t, shipping), "Error: injected fault")

	f.srv.Admin.RemoveFault("/api/shipping").AssertStatus(http.StatusOK)
	_, err = shipping.Create(context.Background(), ShippingForm{Zone: "Cairo", Cost: "45.5", EstimatedDays: "2 days"})
	require.NoError(t, err)
	zones, err := shipping.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Equal(t, 45.5, zones[0].Cost)
	assert.Equal(t, 2, zones[0].EstimatedDays)
	assert.Contains(t, rendered(t, shipping), "45.5 EGP")
}

func TestProductsFilterIsSent(t *testing.T) {
	f := setup(t)
	products := NewProducts(f.env)
	defer products.Close()

	products.SetFilter("", "draft")
	_, err := products.Load(context.Background())
	require.NoError(t, err)

	req, ok := f.srv.LastRequest(http.MethodGet, "/api/products")
	require.True(t, ok)
	assert.Contains(t, req.Query, "status=draft")
	assert.Contains(t, req.Query, "limit=50")
}

func TestDeleteRefreshesEveryScreen(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	form := NewProductForm(f.env, 0)
	form.Fields.Title = "Scarf"
	form.Fields.Price = "120"
	pid, err := form.Submit(ctx)
	require.NoError(t, err)

	var changes atomic.Int32
	env := f.env
	env.OnChange = func() { changes.Add(1) }
	a, b := NewProducts(env), NewProducts(env)
	defer a.Close()
	defer b.Close()

	list, err := b.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list.Products, 1)

	require.NoError(t, a.Delete(ctx, pid))
	assert.Equal(t, MsgProductDeleted, f.toasts.lastSuccess())

	// Both screens see the load (loading, ready) and the refetch after the
	// delete (loading, ready).
	require.Eventually(t, func() bool { return changes.Load() >= 8 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, cache.StatusReady, f.env.Cache.Peek(cache.NewKey(resources.NameProducts, "search=", "status=", "limit=50")).Status)

	list, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Products)
	assert.Contains(t, rendered(t, b), "No products found")
}

func TestCloseStopsNotifications(t *testing.T) {
	f := setup(t)
	var changes atomic.Int32
	env := f.env
	env.OnChange = func() { changes.Add(1) }

	popups := NewPopups(env)
	_, err := popups.Load(context.Background())
	require.NoError(t, err)
	popups.Close()
	before := changes.Load()

	_, err = popups.Create(context.Background(), resources.PopupInput{Title: "Welcome", Content: "Hi", ButtonText: "Shop now", ButtonLink: "/collections/new", IsActive: true})
	require.NoError(t, err)
	_, err = NewPopups(f.env).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, before, changes.Load())
}

func TestProductFormImages(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.env.API.Products.Create(ctx, resources.ProductInput{
		Title:  "Coat",
		Price:  900,
		Images: resources.Images{"/uploads/existing.png"},
	})
	require.NoError(t, err)

	form := NewProductForm(f.env, c.ID)
	require.NoError(t, form.Load(ctx))
	assert.Equal(t, "Coat", form.Fields.Title)
	assert.Equal(t, "900", form.Fields.Price)
	assert.Equal(t, []string{"/uploads/existing.png"}, form.Images)

	require.NoError(t, form.Upload(ctx, []client.File{
		{Name: "a.png", ContentType: "image/png", Data: strings.NewReader("a")},
		{Name: "b.png", ContentType: "image/png", Data: strings.NewReader("b")},
	}))
	require.Len(t, form.Images, 3)
	assert.Equal(t, "/uploads/existing.png", form.Images[0])
	assert.Equal(t, "2 image(s) uploaded successfully.", f.toasts.lastSuccess())

	form.RemoveImage(0)
	form.RemoveImage(7)
	require.Len(t, form.Images, 2)

	_, err = form.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, MsgProductUpdated, f.toasts.lastSuccess())

	got, err := f.env.API.Products.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, resources.Images(form.Images), got.Images)

	err = form.Upload(ctx, nil)
	require.Error(t, err)
	assert.Equal(t, MsgUploadFailed, f.toasts.lastError())
	assert.Len(t, form.Images, 2)
}

func TestProductFormCoercion(t *testing.T) {
	form := NewProductForm(Env{}, 0)
	form.Fields = ProductFields{
		Title:        "Hat",
		Price:        "19.5 EGP",
		ComparePrice: "",
		Stock:        "abc",
		Weight:       "0.3",
		Status:       "draft",
	}
	in := form.Input()
	assert.Equal(t, 19.5, in.Price)
	assert.Nil(t, in.ComparePrice)
	assert.Equal(t, 0, in.Stock)
	require.NotNil(t, in.Weight)
	assert.Equal(t, 0.3, *in.Weight)
	assert.Equal(t, "draft", in.Status)
}

func TestParseNumbers(t *testing.T) {
	floats := map[string]float64{
		"":       0,
		"12":     12,
		" 12.5 ": 12.5,
		"12kg":   12,
		".5":     0.5,
		"-3":     -3,
		"1e3":    1000,
		"abc":    0,
	}
	for in, want := range floats {
		assert.Equal(t, want, ParseFloat(in), in)
	}
	assert.Nil(t, ParseOptionalFloat(""))
	assert.Nil(t, ParseOptionalFloat("n/a"))
	assert.Equal(t, 7.0, *ParseOptionalFloat("7"))

	assert.Equal(t, 3, ParseInt("3 days"))
	assert.Equal(t, 4, ParseInt("4.9"))
	assert.Equal(t, 0, ParseInt("x"))
}

func placeOrder(t *testing.T, f *fixture) {
	t.Helper()
	c, err := f.env.API.Products.Create(context.Background(), resources.ProductInput{Title: "Jacket", Price: 120, Stock: 10})
	require.NoError(t, err)
	testutil.NewTwinClient(t, f.srv.HTTP).Post("/api/orders", map[string]any{
		"customer_name": "Mona",
		"phone":         "0100",
		"address":       "Dokki",
		"items":         []map[string]any{{"product_id": c.ID, "quantity": 2}},
	}).AssertStatus(http.StatusCreated)
}

func TestOrdersStatusAndExport(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	placeOrder(t, f)

	f.env.Now = func() time.Time { return time.Date(2026, 3, 5, 12, 0, 0, 0, time.UTC) }
	orders := NewOrders(f.env)
	defer orders.Close()

	orders.SetStatusFilter("pending")
	list, err := orders.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list.Orders, 1)
	assert.Contains(t, rendered(t, orders), "240 EGP")

	require.NoError(t, orders.UpdateStatus(ctx, list.Orders[0].ID, "confirmed"))
	assert.Equal(t, MsgOrderStatusUpdated, f.toasts.lastSuccess())
	list, err = orders.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list.Orders)

	require.Error(t, orders.UpdateStatus(ctx, 1, "lost"))
	assert.Equal(t, "Invalid status", f.toasts.lastError())

	dir := t.TempDir()
	path, err := orders.Export(ctx, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "orders-2026-03-05.csv"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "id,customer_name"))
	assert.Equal(t, MsgOrdersExported, f.toasts.lastSuccess())

	_, err = orders.Export(ctx, filepath.Join(dir, "missing"))
	require.Error(t, err)
	assert.Equal(t, MsgOrdersExportFailed, f.toasts.lastError())
}

func TestDashboard(t *testing.T) {
	f := setup(t)
	placeOrder(t, f)

	d := NewDashboard(f.env, 0)
	defer d.Close()
	require.NoError(t, d.Load(context.Background()))

	out := rendered(t, d)
	assert.Contains(t, out, "Orders Today")
	assert.Contains(t, out, "Pending Orders")
	assert.Contains(t, out, "Mona")
	assert.Contains(t, out, "Sales, last 30 days")
	assert.Contains(t, out, "No page views recorded")

	for _, path := range []string{"/api/analytics/overview", "/api/analytics/sales", "/api/analytics/traffic"} {
		assert.Equal(t, 1, f.srv.Requests(http.MethodGet, path), path)
	}
}

func TestDashboardSurfacesFailure(t *testing.T) {
	f := setup(t)
	f.srv.Admin.InjectFault("/api/analytics/traffic", map[string]any{"status_code": http.StatusBadGateway, "body": `{"error":"upstream down"}`}).
		AssertStatus(http.StatusOK)

	d := NewDashboard(f.env, 7)
	defer d.Close()
	require.EqualError(t, d.Load(context.Background()), "upstream down")

	out := rendered(t, d)
	assert.Contains(t, out, "Error: upstream down")
}

func TestSettingsBulkSave(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	settings := NewSettings(f.env)
	defer settings.Close()

	values, err := settings.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, "EGP", values["currency"])

	values["store_name"] = "Nile Threads"
	require.NoError(t, settings.Save(ctx, values))
	assert.Equal(t, MsgSettingsSaved, f.toasts.lastSuccess())

	values, err = settings.Values(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Nile Threads", values["store_name"])
}

func TestNotificationTrigger(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	screen := NewNotifications(f.env)
	defer screen.Close()

	nid, err := screen.Create(ctx, resources.NotificationInput{Title: "Flash sale", Message: "Today only"})
	require.NoError(t, err)
	require.NoError(t, screen.Trigger(ctx, nid))
	assert.Equal(t, MsgNotificationSent, f.toasts.lastSuccess())

	list, err := screen.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].SentCount)
}

func TestCatalogScreens(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	c, err := f.env.API.Products.Create(ctx, resources.ProductInput{Title: "Belt", Price: 80})
	require.NoError(t, err)

	collections := NewCollections(f.env)
	defer collections.Close()
	cid, err := collections.Create(ctx, resources.CollectionInput{Name: "Summer"})
	require.NoError(t, err)
	require.NoError(t, collections.AddProduct(ctx, cid, c.ID))
	list, err := collections.Load(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 1, list[0].ProductCount)

	bundles := NewBundles(f.env)
	defer bundles.Close()
	bid, err := bundles.Create(ctx, BundleForm{Name: "Outfit", DiscountPercentage: "12.5"})
	require.NoError(t, err)
	_, err = bundles.AddField(ctx, bid, resources.BundleFieldInput{Label: "Top", FieldType: "product"})
	require.NoError(t, err)
	assert.Equal(t, MsgBundleFieldAdded, f.toasts.lastSuccess())
	bs, err := bundles.Load(ctx)
	require.NoError(t, err)
	require.Len(t, bs, 1)
	assert.Equal(t, 12.5, bs[0].DiscountPercentage)
	assert.Contains(t, rendered(t, bundles), "12.5%")

	require.NoError(t, collections.Delete(ctx, cid))
	list, err = collections.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}
