package api

import (
	"encoding/csv"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	pkgstore "github.com/fashioneshop/shopadmin/pkg/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// OrderStatuses are the states an order may be moved to.
var OrderStatuses = []string{"pending", "confirmed", "shipped", "delivered", "cancelled"}

type placeOrderRequest struct {
	CustomerName   string `json:"customer_name"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	ShippingZoneID int64  `json:"shipping_zone_id"`
	Items          []struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	} `json:"items"`
}

// PlaceOrder handles POST /api/orders, the storefront checkout. Stock is
// reserved for every line or for none.
func (h *Handler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req placeOrderRequest
	if !decode(w, r, &req) {
		return
	}
	switch {
	case strings.TrimSpace(req.CustomerName) == "":
		twincore.Error(w, http.StatusBadRequest, "customer_name is required")
		return
	case strings.TrimSpace(req.Phone) == "":
		twincore.Error(w, http.StatusBadRequest, "phone is required")
		return
	case len(req.Items) == 0:
		twincore.Error(w, http.StatusBadRequest, "Order must contain at least one item")
		return
	}

	order := store.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Status:       "pending",
		CreatedAt:    h.store.Clock.Now().UTC(),
	}
	if req.ShippingZoneID != 0 {
		zone, ok := h.store.Shipping.Get(req.ShippingZoneID)
		if !ok {
			twincore.Error(w, http.StatusBadRequest, "Unknown shipping zone")
			return
		}
		order.ShippingCost = zone.Cost
	}

	for _, it := range req.Items {
		p, ok := h.store.Products.Get(it.ProductID)
		if !ok {
			twincore.Error(w, http.StatusBadRequest, "Product not found")
			return
		}
		if it.Quantity <= 0 {
			twincore.Error(w, http.StatusBadRequest, "Quantity must be positive")
			return
		}
		if p.Stock < it.Quantity {
			twincore.Error(w, http.StatusBadRequest, "Insufficient stock for "+p.Title)
			return
		}
		order.Items = append(order.Items, store.OrderItem{
			ProductID: p.ID,
			Title:     p.Title,
			Quantity:  it.Quantity,
			Price:     p.Price,
		})
		order.Total += p.Price * float64(it.Quantity)
	}
	order.Total += order.ShippingCost

	var reserved []store.OrderItem
	for _, it := range order.Items {
		_, ok := h.store.Products.Update(it.ProductID, func(p *store.Product) bool {
			if p.Stock < it.Quantity {
				return false
			}
			p.Stock -= it.Quantity
			return true
		})
		if !ok {
			h.releaseStock(reserved)
			twincore.Error(w, http.StatusConflict, "Insufficient stock for "+it.Title)
			return
		}
		reserved = append(reserved, it)
	}

	order.ID = h.store.Orders.NextID()
	h.store.Orders.Set(order.ID, order)
	created(w, order.ID, "Order placed successfully")
}

func (h *Handler) releaseStock(items []store.OrderItem) {
	for _, it := range items {
		h.store.Products.Update(it.ProductID, func(p *store.Product) bool {
			p.Stock += it.Quantity
			return true
		})
	}
}

// newestOrders returns orders matching status (all when empty), newest first.
func (h *Handler) newestOrders(status string) []store.Order {
	orders := h.store.Orders.Filter(func(_ int64, o store.Order) bool {
		return status == "" || o.Status == status
	})
	slices.Reverse(orders)
	return orders
}

// ListOrders handles GET /api/orders.
func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	limit, ok := queryInt(r, "limit", defaultPageSize)
	if !ok {
		twincore.Error(w, http.StatusBadRequest, "Invalid limit")
		return
	}
	offset, ok := queryInt(r, "offset", 0)
	if !ok {
		twincore.Error(w, http.StatusBadRequest, "Invalid offset")
		return
	}
	limit = min(max(limit, 1), maxPageSize)

	page := pkgstore.PageOf(h.newestOrders(r.URL.Query().Get("status")), offset, limit)
	twincore.JSON(w, http.StatusOK, map[string]any{
		"orders": nonNil(page.Data),
		"pagination": map[string]int{
			"total":  page.Total,
			"limit":  limit,
			"offset": page.Offset,
		},
	})
}

// GetOrder handles GET /api/orders/{id}.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	o, found := h.store.Orders.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	twincore.JSON(w, http.StatusOK, o)
}

// UpdateOrderStatus handles PUT /api/orders/{id}. Cancelling an order
// returns its stock.
func (h *Handler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &req) {
		return
	}
	if !slices.Contains(OrderStatuses, req.Status) {
		twincore.Error(w, http.StatusBadRequest, "Invalid status")
		return
	}

	var previous string
	o, found := h.store.Orders.Update(id, func(o *store.Order) bool {
		previous = o.Status
		o.Status = req.Status
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Order not found")
		return
	}
	if req.Status == "cancelled" && previous != "cancelled" {
		h.releaseStock(o.Items)
	}
	message(w, "Order status updated successfully")
}

// ExportOrders handles GET /api/orders/export as a CSV attachment.
func (h *Handler) ExportOrders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="orders.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"id", "customer_name", "phone", "address", "total", "status", "created_at"})
	for _, o := range h.newestOrders("") {
		_ = cw.Write([]string{
			strconv.FormatInt(o.ID, 10),
			o.CustomerName,
			o.Phone,
			o.Address,
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.Status,
			o.CreatedAt.Format(time.RFC3339),
		})
	}
	cw.Flush()
}
