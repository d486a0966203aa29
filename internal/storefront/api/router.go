// Package api implements the storefront HTTP API consumed by the admin
// dashboard. Every route lives under /api and, apart from login, checkout and
// page-view tracking, requires a bearer token issued by /api/auth/login.
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
	"github.com/fashioneshop/shopadmin/pkg/webhook"
)

// Handler holds all API handler state.
type Handler struct {
	store    *store.MemoryStore
	mw       *twincore.Middleware
	jwt      *JWTManager
	webhooks *webhook.Dispatcher
	logger   *zap.Logger
}

// NewHandler creates an API handler. webhooks may be nil, in which case
// notification triggers are recorded but not dispatched.
func NewHandler(s *store.MemoryStore, mw *twincore.Middleware, jwtMgr *JWTManager, webhooks *webhook.Dispatcher, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{store: s, mw: mw, jwt: jwtMgr, webhooks: webhooks, logger: logger}
}

// Routes mounts the storefront API routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/uploads/{name}", h.ServeUpload)

	r.Route("/api", func(r chi.Router) {
		r.Use(h.mw.FaultInjection)

		// Public storefront endpoints
		r.Post("/auth/login", h.Login)
		r.Post("/orders", h.PlaceOrder)
		r.Post("/analytics/track", h.TrackPageView)

		r.Group(func(r chi.Router) {
			r.Use(h.authMiddleware)

			r.Post("/auth/logout", h.Logout)
			r.Get("/auth/me", h.Me)

			r.Get("/products", h.ListProducts)
			r.Post("/products", h.CreateProduct)
			r.Get("/products/{id}", h.GetProduct)
			r.Put("/products/{id}", h.UpdateProduct)
			r.Delete("/products/{id}", h.DeleteProduct)

			r.Post("/upload", h.UploadImages)

			r.Get("/collections", h.ListCollections)
			r.Post("/collections", h.CreateCollection)
			r.Get("/collections/{id}", h.GetCollection)
			r.Put("/collections/{id}", h.UpdateCollection)
			r.Delete("/collections/{id}", h.DeleteCollection)
			r.Post("/collections/{id}/products", h.AddCollectionProduct)
			r.Delete("/collections/{id}/products/{productId}", h.RemoveCollectionProduct)

			r.Get("/bundles", h.ListBundles)
			r.Post("/bundles", h.CreateBundle)
			r.Get("/bundles/{id}", h.GetBundle)
			r.Put("/bundles/{id}", h.UpdateBundle)
			r.Delete("/bundles/{id}", h.DeleteBundle)
			r.Post("/bundles/{id}/fields", h.AddBundleField)
			r.Put("/bundles/{id}/fields/{fieldId}", h.UpdateBundleField)
			r.Delete("/bundles/{id}/fields/{fieldId}", h.DeleteBundleField)

			r.Get("/offers", h.ListOffers)
			r.Post("/offers", h.CreateOffer)
			r.Get("/offers/{id}", h.GetOffer)
			r.Put("/offers/{id}", h.UpdateOffer)
			r.Delete("/offers/{id}", h.DeleteOffer)

			r.Get("/shipping", h.ListShipping)
			r.Post("/shipping", h.CreateShipping)
			r.Put("/shipping/{id}", h.UpdateShipping)
			r.Delete("/shipping/{id}", h.DeleteShipping)

			r.Get("/orders", h.ListOrders)
			r.Get("/orders/export", h.ExportOrders)
			r.Get("/orders/{id}", h.GetOrder)
			r.Put("/orders/{id}", h.UpdateOrderStatus)

			r.Get("/analytics/overview", h.Overview)
			r.Get("/analytics/sales", h.Sales)
			r.Get("/analytics/traffic", h.Traffic)

			r.Get("/notifications", h.ListNotifications)
			r.Post("/notifications", h.CreateNotification)
			r.Get("/notifications/{id}", h.GetNotification)
			r.Put("/notifications/{id}", h.UpdateNotification)
			r.Delete("/notifications/{id}", h.DeleteNotification)
			r.Post("/notifications/{id}/trigger", h.TriggerNotification)

			r.Get("/popups", h.ListPopups)
			r.Post("/popups", h.CreatePopup)
			r.Get("/popups/{id}", h.GetPopup)
			r.Put("/popups/{id}", h.UpdatePopup)
			r.Delete("/popups/{id}", h.DeletePopup)

			r.Get("/settings", h.ListSettings)
			r.Put("/settings/bulk/update", h.BulkUpdateSettings)
			r.Get("/settings/{key}", h.GetSetting)
			r.Put("/settings/{key}", h.UpdateSetting)
			r.Delete("/settings/{key}", h.DeleteSetting)
		})
	})
}

// idParam parses a numeric URL parameter, writing a 400 when it is invalid.
func idParam(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		twincore.Error(w, http.StatusBadRequest, "Invalid "+name)
		return 0, false
	}
	return id, true
}

// decode reads a JSON request body into v, writing a 400 on failure.
func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		twincore.Error(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// queryInt reads a non-negative integer query parameter.
func queryInt(r *http.Request, name string, def int) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

func created(w http.ResponseWriter, id int64, message string) {
	twincore.JSON(w, http.StatusCreated, map[string]any{"id": id, "message": message})
}

func message(w http.ResponseWriter, msg string) {
	twincore.JSON(w, http.StatusOK, map[string]string{"message": msg})
}
