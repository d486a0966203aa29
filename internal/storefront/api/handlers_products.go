package api

import (
	"cmp"
	"net/http"
	"slices"
	"strings"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	pkgstore "github.com/fashioneshop/shopadmin/pkg/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

var productStatuses = []string{"active", "draft", "published", "archived"}

// productRequest is the JSON body for POST and PUT /api/products. Pointer
// fields distinguish "not sent" from zero values on update.
type productRequest struct {
	Title        *string       `json:"title"`
	Description  *string       `json:"description"`
	Price        *float64      `json:"price"`
	ComparePrice *float64      `json:"compare_price"`
	SKU          *string       `json:"sku"`
	Barcode      *string       `json:"barcode"`
	Stock        *int          `json:"stock"`
	Weight       *float64      `json:"weight"`
	Status       *string       `json:"status"`
	Vendor       *string       `json:"vendor"`
	ProductType  *string       `json:"product_type"`
	Tags         *string       `json:"tags"`
	Images       *store.Images `json:"images"`
}

func (req productRequest) apply(p *store.Product) {
	setIf(&p.Title, req.Title)
	setIf(&p.Description, req.Description)
	setIf(&p.Price, req.Price)
	setIf(&p.SKU, req.SKU)
	setIf(&p.Barcode, req.Barcode)
	setIf(&p.Stock, req.Stock)
	setIf(&p.Status, req.Status)
	setIf(&p.Vendor, req.Vendor)
	setIf(&p.ProductType, req.ProductType)
	setIf(&p.Tags, req.Tags)
	setIf(&p.Images, req.Images)
	// compare_price and weight are nullable and always replaced
	p.ComparePrice = req.ComparePrice
	p.Weight = req.Weight
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// validateProduct returns the first problem with p, or "".
func (h *Handler) validateProduct(p store.Product) string {
	switch {
	case strings.TrimSpace(p.Title) == "":
		return "Title is required"
	case p.Price < 0:
		return "Price must not be negative"
	case p.Stock < 0:
		return "Stock must not be negative"
	case !slices.Contains(productStatuses, p.Status):
		return "Invalid status"
	}
	if p.SKU != "" {
		dup := h.store.Products.Filter(func(id int64, other store.Product) bool {
			return id != p.ID && other.SKU == p.SKU
		})
		if len(dup) > 0 {
			return "SKU already exists"
		}
	}
	return ""
}

// ListProducts handles GET /api/products. An empty status or search value
// means no filter.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
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

	status := q.Get("status")
	search := strings.ToLower(q.Get("search"))
	products := h.store.Products.Filter(func(_ int64, p store.Product) bool {
		if status != "" && p.Status != status {
			return false
		}
		if search == "" {
			return true
		}
		return strings.Contains(strings.ToLower(p.Title), search) ||
			strings.Contains(strings.ToLower(p.Description), search) ||
			strings.Contains(strings.ToLower(p.SKU), search)
	})
	sortProducts(products, q.Get("sort"))

	page := pkgstore.PageOf(products, offset, limit)
	twincore.JSON(w, http.StatusOK, map[string]any{
		"products": nonNil(page.Data),
		"pagination": map[string]int{
			"total":  page.Total,
			"limit":  limit,
			"offset": page.Offset,
		},
	})
}

// sortProducts orders products by one of newest (default), oldest,
// price_asc, price_desc, title.
func sortProducts(products []store.Product, sort string) {
	var fn func(a, b store.Product) int
	switch sort {
	case "oldest":
		fn = func(a, b store.Product) int { return cmp.Compare(a.ID, b.ID) }
	case "price_asc":
		fn = func(a, b store.Product) int { return cmp.Compare(a.Price, b.Price) }
	case "price_desc":
		fn = func(a, b store.Product) int { return cmp.Compare(b.Price, a.Price) }
	case "title":
		fn = func(a, b store.Product) int { return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title)) }
	default:
		fn = func(a, b store.Product) int { return cmp.Compare(b.ID, a.ID) }
	}
	slices.SortStableFunc(products, fn)
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// GetProduct handles GET /api/products/{id}.
func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	p, found := h.store.Products.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	twincore.JSON(w, http.StatusOK, p)
}

// CreateProduct handles POST /api/products.
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if !decode(w, r, &req) {
		return
	}

	now := h.store.Clock.Now().UTC()
	p := store.Product{Status: "active", CreatedAt: now, UpdatedAt: now}
	req.apply(&p)
	if msg := h.validateProduct(p); msg != "" {
		status := http.StatusBadRequest
		if msg == "SKU already exists" {
			status = http.StatusConflict
		}
		twincore.Error(w, status, msg)
		return
	}

	p.ID = h.store.Products.NextID()
	h.store.Products.Set(p.ID, p)
	created(w, p.ID, "Product created successfully")
}

// UpdateProduct handles PUT /api/products/{id}.
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req productRequest
	if !decode(w, r, &req) {
		return
	}

	existing, found := h.store.Products.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	req.apply(&existing)
	existing.UpdatedAt = h.store.Clock.Now().UTC()
	if msg := h.validateProduct(existing); msg != "" {
		status := http.StatusBadRequest
		if msg == "SKU already exists" {
			status = http.StatusConflict
		}
		twincore.Error(w, status, msg)
		return
	}

	h.store.Products.Set(id, existing)
	message(w, "Product updated successfully")
}

// DeleteProduct handles DELETE /api/products/{id}. The product is also
// removed from every collection.
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Products.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	for _, cid := range h.store.Collections.Keys() {
		h.store.Collections.Update(cid, func(c *store.Collection) bool {
			n := len(c.ProductIDs)
			c.ProductIDs = slices.DeleteFunc(c.ProductIDs, func(pid int64) bool { return pid == id })
			return len(c.ProductIDs) != n
		})
	}
	message(w, "Product deleted successfully")
}
