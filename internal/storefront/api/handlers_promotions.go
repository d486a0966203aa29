package api

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// EventNotificationTriggered is the webhook event sent when a notification
// is broadcast.
const EventNotificationTriggered = "notification.triggered"

// --- Offers ---

type offerRequest struct {
	Name        *string  `json:"name"`
	Type        *string  `json:"type"`
	Value       *float64 `json:"value"`
	MinPurchase *float64 `json:"min_purchase"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
}

func (req offerRequest) apply(o *store.Offer) {
	setIf(&o.Name, req.Name)
	setIf(&o.Type, req.Type)
	setIf(&o.Value, req.Value)
	setIf(&o.StartDate, req.StartDate)
	setIf(&o.EndDate, req.EndDate)
	o.MinPurchase = req.MinPurchase
}

// parseDate accepts a calendar date, an HTML datetime-local value or RFC 3339.
func parseDate(s string) (time.Time, bool) {
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04", time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func validateOffer(o store.Offer) string {
	if strings.TrimSpace(o.Name) == "" {
		return "Name is required"
	}
	switch o.Type {
	case "percentage":
		if o.Value <= 0 || o.Value > 100 {
			return "Percentage value must be between 0 and 100"
		}
	case "fixed":
		if o.Value <= 0 {
			return "Value must be greater than 0"
		}
	default:
		return "Invalid offer type"
	}
	if o.MinPurchase != nil && *o.MinPurchase < 0 {
		return "min_purchase must not be negative"
	}
	start, ok := parseDate(o.StartDate)
	if !ok {
		return "Invalid start_date"
	}
	end, ok := parseDate(o.EndDate)
	if !ok {
		return "Invalid end_date"
	}
	if !end.After(start) {
		return "end_date must be after start_date"
	}
	return ""
}

// ListOffers handles GET /api/offers.
func (h *Handler) ListOffers(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, nonNil(h.store.Offers.List()))
}

// GetOffer handles GET /api/offers/{id}.
func (h *Handler) GetOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	o, found := h.store.Offers.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Offer not found")
		return
	}
	twincore.JSON(w, http.StatusOK, o)
}

// CreateOffer handles POST /api/offers.
func (h *Handler) CreateOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if !decode(w, r, &req) {
		return
	}
	o := store.Offer{Type: "percentage", CreatedAt: h.store.Clock.Now().UTC()}
	req.apply(&o)
	if msg := validateOffer(o); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	o.ID = h.store.Offers.NextID()
	h.store.Offers.Set(o.ID, o)
	created(w, o.ID, "Offer created successfully")
}

// UpdateOffer handles PUT /api/offers/{id}.
func (h *Handler) UpdateOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req offerRequest
	if !decode(w, r, &req) {
		return
	}
	o, found := h.store.Offers.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Offer not found")
		return
	}
	req.apply(&o)
	if msg := validateOffer(o); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	h.store.Offers.Set(id, o)
	message(w, "Offer updated successfully")
}

// DeleteOffer handles DELETE /api/offers/{id}.
func (h *Handler) DeleteOffer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Offers.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Offer not found")
		return
	}
	message(w, "Offer deleted successfully")
}

// --- Notifications ---

type notificationRequest struct {
	Title   *string `json:"title"`
	Message *string `json:"message"`
	Type    *string `json:"type"`
}

func validateNotification(n store.Notification) string {
	switch {
	case strings.TrimSpace(n.Title) == "":
		return "Title is required"
	case strings.TrimSpace(n.Message) == "":
		return "Message is required"
	case n.Type != "info" && n.Type != "alert":
		return "Invalid notification type"
	}
	return ""
}

// ListNotifications handles GET /api/notifications, newest first.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	list := h.store.Notifications.List()
	out := make([]store.Notification, 0, len(list))
	for i := len(list) - 1; i >= 0; i-- {
		out = append(out, list[i])
	}
	twincore.JSON(w, http.StatusOK, out)
}

// GetNotification handles GET /api/notifications/{id}.
func (h *Handler) GetNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	n, found := h.store.Notifications.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Notification not found")
		return
	}
	twincore.JSON(w, http.StatusOK, n)
}

// CreateNotification handles POST /api/notifications.
func (h *Handler) CreateNotification(w http.ResponseWriter, r *http.Request) {
	var req notificationRequest
	if !decode(w, r, &req) {
		return
	}
	n := store.Notification{Type: "info", CreatedAt: h.store.Clock.Now().UTC()}
	setIf(&n.Title, req.Title)
	setIf(&n.Message, req.Message)
	setIf(&n.Type, req.Type)
	if msg := validateNotification(n); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	n.ID = h.store.Notifications.NextID()
	h.store.Notifications.Set(n.ID, n)
	created(w, n.ID, "Notification created successfully")
}

// UpdateNotification handles PUT /api/notifications/{id}.
func (h *Handler) UpdateNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req notificationRequest
	if !decode(w, r, &req) {
		return
	}
	n, found := h.store.Notifications.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Notification not found")
		return
	}
	setIf(&n.Title, req.Title)
	setIf(&n.Message, req.Message)
	setIf(&n.Type, req.Type)
	if msg := validateNotification(n); msg != "" {
		twincore.Error(w, http.StatusBadRequest, msg)
		return
	}
	h.store.Notifications.Set(id, n)
	message(w, "Notification updated successfully")
}

// DeleteNotification handles DELETE /api/notifications/{id}.
func (h *Handler) DeleteNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Notifications.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Notification not found")
		return
	}
	message(w, "Notification deleted successfully")
}

// TriggerNotification handles POST /api/notifications/{id}/trigger. It marks
// the notification sent and queues a webhook event for the broadcast.
func (h *Handler) TriggerNotification(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	now := h.store.Clock.Now().UTC()
	n, found := h.store.Notifications.Update(id, func(n *store.Notification) bool {
		n.SentCount++
		n.SentAt = &now
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Notification not found")
		return
	}

	if h.webhooks != nil {
		evt := h.webhooks.Enqueue(EventNotificationTriggered, map[string]any{
			"id":      n.ID,
			"title":   n.Title,
			"message": n.Message,
			"type":    n.Type,
		})
		h.logger.Debug("queued notification webhook",
			zap.Int64("notification_id", n.ID), zap.String("event_id", evt.ID))
	}
	message(w, "Notification triggered successfully")
}

// --- Popups ---

type popupRequest struct {
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	ButtonText *string `json:"button_text"`
	ButtonLink *string `json:"button_link"`
	IsActive   *bool   `json:"is_active"`
}

func (req popupRequest) apply(p *store.Popup) {
	setIf(&p.Title, req.Title)
	setIf(&p.Content, req.Content)
	setIf(&p.ButtonText, req.ButtonText)
	setIf(&p.ButtonLink, req.ButtonLink)
	setIf(&p.IsActive, req.IsActive)
}

// ListPopups handles GET /api/popups.
func (h *Handler) ListPopups(w http.ResponseWriter, r *http.Request) {
	twincore.JSON(w, http.StatusOK, nonNil(h.store.Popups.List()))
}

// GetPopup handles GET /api/popups/{id}.
func (h *Handler) GetPopup(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, found := h.store.Popups.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Popup not found")
		return
	}
	twincore.JSON(w, http.StatusOK, p)
}

// CreatePopup handles POST /api/popups. New popups are active unless
// is_active is sent as false.
func (h *Handler) CreatePopup(w http.ResponseWriter, r *http.Request) {
	var req popupRequest
	if !decode(w, r, &req) {
		return
	}
	p := store.Popup{IsActive: true, CreatedAt: h.store.Clock.Now().UTC()}
	req.apply(&p)
	if strings.TrimSpace(p.Title) == "" {
		twincore.Error(w, http.StatusBadRequest, "Title is required")
		return
	}
	p.ID = h.store.Popups.NextID()
	h.store.Popups.Set(p.ID, p)
	created(w, p.ID, "Popup created successfully")
}

// UpdatePopup handles PUT /api/popups/{id}.
func (h *Handler) UpdatePopup(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req popupRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		twincore.Error(w, http.StatusBadRequest, "Title is required")
		return
	}
	_, found := h.store.Popups.Update(id, func(p *store.Popup) bool {
		req.apply(p)
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Popup not found")
		return
	}
	message(w, "Popup updated successfully")
}

// DeletePopup handles DELETE /api/popups/{id}.
func (h *Handler) DeletePopup(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Popups.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Popup not found")
		return
	}
	message(w, "Popup deleted successfully")
}
