package api

import (
	"cmp"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

const (
	defaultPeriod     = 30
	lowStockThreshold = 10
	dayLayout         = "2006-01-02"
)

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// countsTowardRevenue reports whether o is a realised sale.
func countsTowardRevenue(o store.Order) bool {
	return o.Status != "cancelled"
}

// Overview handles GET /api/analytics/overview.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	now := h.store.Clock.Now().UTC()
	today := startOfDay(now)
	weekStart := today.AddDate(0, 0, -6)

	var (
		ordersToday, ordersWeek, pending int
		revenueToday, revenueWeek        float64
	)
	for _, o := range h.store.Orders.List() {
		if o.Status == "pending" {
			pending++
		}
		if !countsTowardRevenue(o) {
			continue
		}
		if !o.CreatedAt.Before(today) {
			ordersToday++
			revenueToday += o.Total
		}
		if !o.CreatedAt.Before(weekStart) {
			ordersWeek++
			revenueWeek += o.Total
		}
	}

	recent := h.newestOrders("")
	recent = recent[:min(len(recent), 5)]

	lowStock := h.store.Products.Filter(func(_ int64, p store.Product) bool {
		return p.Stock < lowStockThreshold
	})
	slices.SortStableFunc(lowStock, func(a, b store.Product) int { return cmp.Compare(a.Stock, b.Stock) })
	lowStock = lowStock[:min(len(lowStock), 10)]

	twincore.JSON(w, http.StatusOK, map[string]any{
		"today": map[string]any{
			"orders_today":  ordersToday,
			"revenue_today": revenueToday,
		},
		"week": map[string]any{
			"orders_week":  ordersWeek,
			"revenue_week": revenueWeek,
		},
		"pending_orders":     pending,
		"total_products":     h.store.Products.Count(),
		"total_orders":       h.store.Orders.Count(),
		"recent_orders":      nonNil(recent),
		"low_stock_products": nonNil(lowStock),
	})
}

// periodParam reads the ?period= day count, defaulting to 30.
func periodParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	raw := r.URL.Query().Get("period")
	if raw == "" {
		return defaultPeriod, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 || n > 366 {
		twincore.Error(w, http.StatusBadRequest, "period must be a positive number of days")
		return 0, false
	}
	return n, true
}

// dayBuckets returns the dates of the last period days, oldest first, and an
// index from date to position.
func dayBuckets(now time.Time, period int) ([]string, map[string]int) {
	start := startOfDay(now).AddDate(0, 0, -(period - 1))
	days := make([]string, period)
	index := make(map[string]int, period)
	for i := range period {
		d := start.AddDate(0, 0, i).Format(dayLayout)
		days[i] = d
		index[d] = i
	}
	return days, index
}

type salesDay struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Sales handles GET /api/analytics/sales.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	days, index := dayBuckets(h.store.Clock.Now().UTC(), period)
	daily := make([]salesDay, len(days))
	for i, d := range days {
		daily[i].Date = d
	}

	var totalOrders int
	var totalRevenue float64
	for _, o := range h.store.Orders.List() {
		if !countsTowardRevenue(o) {
			continue
		}
		i, in := index[o.CreatedAt.UTC().Format(dayLayout)]
		if !in {
			continue
		}
		daily[i].Orders++
		daily[i].Revenue += o.Total
		totalOrders++
		totalRevenue += o.Total
	}

	var avg float64
	if totalOrders > 0 {
		avg = totalRevenue / float64(totalOrders)
	}
	twincore.JSON(w, http.StatusOK, map[string]any{
		"period":              period,
		"daily":               daily,
		"total_orders":        totalOrders,
		"total_revenue":       totalRevenue,
		"average_order_value": avg,
	})
}

type trafficDay struct {
	Date     string `json:"date"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

type pageCount struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// Traffic handles GET /api/analytics/traffic.
func (h *Handler) Traffic(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(w, r)
	if !ok {
		return
	}
	days, index := dayBuckets(h.store.Clock.Now().UTC(), period)
	daily := make([]trafficDay, len(days))
	visitors := make([]map[string]struct{}, len(days))
	for i, d := range days {
		daily[i].Date = d
		visitors[i] = make(map[string]struct{})
	}

	pages := make(map[string]int)
	unique := make(map[string]struct{})
	var totalViews int
	for _, pv := range h.store.PageViews.List() {
		i, in := index[pv.VisitedAt.UTC().Format(dayLayout)]
		if !in {
			continue
		}
		daily[i].Views++
		visitors[i][pv.VisitorID] = struct{}{}
		unique[pv.VisitorID] = struct{}{}
		pages[pv.Path]++
		totalViews++
	}
	for i := range daily {
		daily[i].Visitors = len(visitors[i])
	}

	top := make([]pageCount, 0, len(pages))
	for path, n := range pages {
		top = append(top, pageCount{Path: path, Views: n})
	}
	slices.SortFunc(top, func(a, b pageCount) int {
		if c := cmp.Compare(b.Views, a.Views); c != 0 {
			return c
		}
		return strings.Compare(a.Path, b.Path)
	})
	top = top[:min(len(top), 10)]

	twincore.JSON(w, http.StatusOK, map[string]any{
		"period":          period,
		"daily":           daily,
		"total_views":     totalViews,
		"unique_visitors": len(unique),
		"top_pages":       top,
	})
}

// TrackPageView handles POST /api/analytics/track from the storefront.
func (h *Handler) TrackPageView(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path      string `json:"path"`
		VisitorID string `json:"visitor_id"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.Path == "" {
		twincore.Error(w, http.StatusBadRequest, "path is required")
		return
	}
	if req.VisitorID == "" {
		req.VisitorID = r.RemoteAddr
	}
	id := h.store.PageViews.NextID()
	h.store.PageViews.Set(id, store.PageView{
		ID:        id,
		Path:      req.Path,
		VisitorID: req.VisitorID,
		VisitedAt: h.store.Clock.Now().UTC(),
	})
	twincore.JSON(w, http.StatusCreated, map[string]any{"id": id})
}
