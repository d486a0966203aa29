package api

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// --- Shipping zones ---

type shippingRequest struct {
	Zone          *string  `json:"zone"`
	Cost          *float64 `json:"cost"`
	EstimatedDays *int     `json:"estimated_days"`
}

func validateZone(z store.ShippingZone) string {
	switch {
	case strings.TrimSpace(z.Zone) == "":
		return "Zone is required"
	case z.Cost < 0:
		return "Cost must not be negative"
	case z.EstimatedDays < 0:
		return "estimated_days must not be negative"
	}
	return ""
}

// ListShipping handles GET /api/shipping.
func (h *Handler) ListShipping(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, nonNil(h.store.Shipping.List()))
}

// CreateShipping handles POST /api/shipping.
func (h *Handler) CreateShipping(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if !decode(w, r, &req) {
		return
	}
	var z store.ShippingZone
	setIf(&z.Zone, req.Zone)
	setIf(&z.Cost, req.Cost)
	setIf(&z.EstimatedDays, req.EstimatedDays)
	if msg := validateZone(z); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	z.ID = h.store.Shipping.NextID()
	h.store.Shipping.Set(z.ID, z)
	created(w, z.ID, "Shipping zone created successfully")
}

// UpdateShipping handles PUT /api/shipping/{id}.
func (h *Handler) UpdateShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req shippingRequest
	if !decode(w, r, &req) {
		return
	}
	z, found := h.store.Shipping.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Shipping zone not found")
		return
	}
	setIf(&z.Zone, req.Zone)
	setIf(&z.Cost, req.Cost)
	setIf(&z.EstimatedDays, req.EstimatedDays)
	if msg := validateZone(z); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	h.store.Shipping.Set(id, z)
	message(w, "Shipping zone updated successfully")
}

// DeleteShipping handles DELETE /api/shipping/{id}.
func (h *Handler) DeleteShipping(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Shipping.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Shipping zone not found")
		return
	}
	message(w, "Shipping zone deleted successfully")
}

// --- Settings ---

// ListSettings handles GET /api/settings, ordered by key.
func (h *Handler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings := nonNil(h.store.Settings.List())
	slices.SortFunc(settings, func(a, b store.Setting) int { return cmp.Compare(a.Key, b.Key) })
	twincore.JSON(w, http.StatusOK, settings)
}

// GetSetting handles GET /api/settings/{key}.
func (h *Handler) GetSetting(w http.ResponseWriter, r *http.Request) {
	st, found := h.store.Settings.Get(chi.URLParam(r, "key"))
	if !found {
		twincore.Error(w, http.StatusNotFound, "Setting not found")
		return
	}
	twincore.JSON(w, http.StatusOK, st)
}

// UpdateSetting handles PUT /api/settings/{key}, creating the key if absent.
func (h *Handler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	var req struct {
		Value *string `json:"value"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Value == nil {
		twincore.Error(w, http.StatusBadRequest, "Value is required")
		return
	}
	h.store.Settings.Set(key, store.Setting{Key: key, Value: *req.Value})
	message(w, "Setting updated successfully")
}

// BulkUpdateSettings handles PUT /api/settings/bulk/update with a flat
// key/value object.
func (h *Handler) BulkUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req map[string]string
	if !decode(w, r, &req) {
		return
	}
	for key := range req {
		if strings.TrimSpace(key) == "" {
			twincore.Error(w, http.StatusBadRequest, "Setting key must not be empty")
			return
		}
	}
	for key, value := range req {
		h.store.Settings.Set(key, store.Setting{Key: key, Value: value})
	}
	message(w, "Settings updated successfully")
}

// DeleteSetting handles DELETE /api/settings/{key}.
func (h *Handler) DeleteSetting(w http.ResponseWriter, r *http.Request) {
	if !h.store.Settings.Delete(chi.URLParam(r, "key")) {
		twincore.Error(w, http.StatusNotFound, "Setting not found")
		return
	}
	message(w, "Setting deleted successfully")
}
