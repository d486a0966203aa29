package api

import (
	"net/http"
	"slices"
	"strings"

	"github.com/fashioneshop/shopadmin/internal/storefront/store"
	"github.com/fashioneshop/shopadmin/pkg/twincore"
)

// --- Collections ---

type collectionRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type collectionSummary struct {
	store.Collection
	ProductCount int `json:"product_count"`
}

type collectionDetail struct {
	store.Collection
	Products []store.Product `json:"products"`
}

// ListCollections handles GET /api/collections.
func (h *Handler) ListCollections(w http.ResponseWriter, r *http.Request) {
	cols := h.store.Collections.List()
	out := make([]collectionSummary, 0, len(cols))
	for _, c := range cols {
		out = append(out, collectionSummary{Collection: c, ProductCount: len(c.ProductIDs)})
	}
	twincore.JSON(w, http.StatusOK, out)
}

// GetCollection handles GET /api/collections/{id}.
func (h *Handler) GetCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	c, found := h.store.Collections.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	products := make([]store.Product, 0, len(c.ProductIDs))
	for _, pid := range c.ProductIDs {
		if p, ok := h.store.Products.Get(pid); ok {
			products = append(products, p)
		}
	}
	twincore.JSON(w, http.StatusOK, collectionDetail{Collection: c, Products: products})
}

// CreateCollection handles POST /api/collections.
func (h *Handler) CreateCollection(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if !decode(w, r, &req) {
		return
	}
	c := store.Collection{ProductIDs: []int64{}, CreatedAt: h.store.Clock.Now().UTC()}
	setIf(&c.Name, req.Name)
	setIf(&c.Description, req.Description)
	if strings.TrimSpace(c.Name) == "" {
		twincore.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	c.ID = h.store.Collections.NextID()
	h.store.Collections.Set(c.ID, c)
	created(w, c.ID, "Collection created successfully")
}

// UpdateCollection handles PUT /api/collections/{id}.
func (h *Handler) UpdateCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req collectionRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		twincore.Error(w, http.StatusBadRequest, "Name is required")
		return
	}
	_, found := h.store.Collections.Update(id, func(c *store.Collection) bool {
		setIf(&c.Name, req.Name)
		setIf(&c.Description, req.Description)
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	message(w, "Collection updated successfully")
}

// DeleteCollection handles DELETE /api/collections/{id}.
func (h *Handler) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Collections.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	message(w, "Collection deleted successfully")
}

// AddCollectionProduct handles POST /api/collections/{id}/products.
func (h *Handler) AddCollectionProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req struct {
		ProductID int64 `json:"productId"`
	}
	if !decode(w, r, &req) {
		return
	}
	if _, exists := h.store.Products.Get(req.ProductID); !exists {
		twincore.Error(w, http.StatusNotFound, "Product not found")
		return
	}
	_, found := h.store.Collections.Update(id, func(c *store.Collection) bool {
		if !slices.Contains(c.ProductIDs, req.ProductID) {
			c.ProductIDs = append(c.ProductIDs, req.ProductID)
		}
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Collection not found")
		return
	}
	message(w, "Product added to collection")
}

// RemoveCollectionProduct handles DELETE /api/collections/{id}/products/{productId}.
func (h *Handler) RemoveCollectionProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	pid, ok := idParam(w, r, "productId")
	if !ok {
		return
	}
	var member bool
	_, found := h.store.Collections.Update(id, func(c *store.Collection) bool {
		n := len(c.ProductIDs)
		c.ProductIDs = slices.DeleteFunc(c.ProductIDs, func(x int64) bool { return x == pid })
		member = len(c.ProductIDs) != n
		return true
	})
	switch {
	case !found:
		twincore.Error(w, http.StatusNotFound, "Collection not found")
	case !member:
		twincore.Error(w, http.StatusNotFound, "Product not in collection")
	default:
		message(w, "Product removed from collection")
	}
}

// --- Bundles ---

type bundleRequest struct {
	Name               *string  `json:"name"`
	Description        *string  `json:"description"`
	DiscountPercentage *float64 `json:"discount_percentage"`
}

type bundleFieldRequest struct {
	Label     *string `json:"label"`
	FieldType *string `json:"field_type"`
	Options   *string `json:"options"`
	Required  *bool   `json:"required"`
	Position  *int    `json:"position"`
}

type bundleDetail struct {
	store.Bundle
	Fields []store.BundleField `json:"fields"`
}

func validDiscount(d float64) bool { return d >= 0 && d <= 100 }

// ListBundles handles GET /api/bundles.
func (h *Handler) ListBundles(w http.ResponseWriter, r *http.Request) {
	bundles := h.store.Bundles.List()
	out := make([]bundleDetail, 0, len(bundles))
	for _, b := range bundles {
		out = append(out, bundleDetail{Bundle: b, Fields: nonNil(h.store.FieldsOf(b.ID))})
	}
	twincore.JSON(w, http.StatusOK, out)
}

// GetBundle handles GET /api/bundles/{id}.
func (h *Handler) GetBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	b, found := h.store.Bundles.Get(id)
	if !found {
		twincore.Error(w, http.StatusNotFound, "Bundle not found")
		return
	}
	twincore.JSON(w, http.StatusOK, bundleDetail{Bundle: b, Fields: nonNil(h.store.FieldsOf(id))})
}

// CreateBundle handles POST /api/bundles.
func (h *Handler) CreateBundle(w http.ResponseWriter, r *http.Request) {
	var req bundleRequest
	if !decode(w, r, &req) {
		return
	}
	b := store.Bundle{CreatedAt: h.store.Clock.Now().UTC()}
	setIf(&b.Name, req.Name)
	setIf(&b.Description, req.Description)
	setIf(&b.DiscountPercentage, req.DiscountPercentage)
	switch {
	case strings.TrimSpace(b.Name) == "":
		twincore.Error(w, http.StatusBadRequest, "Name is required")
		return
	case !validDiscount(b.DiscountPercentage):
		twincore.Error(w, http.StatusBadRequest, "discount_percentage must be between 0 and 100")
		return
	}
	b.ID = h.store.Bundles.NextID()
	h.store.Bundles.Set(b.ID, b)
	created(w, b.ID, "Bundle created successfully")
}

// UpdateBundle handles PUT /api/bundles/{id}.
func (h *Handler) UpdateBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	var req bundleRequest
	if !decode(w, r, &req) {
		return
	}
	if req.DiscountPercentage != nil && !validDiscount(*req.DiscountPercentage) {
		twincore.Error(w, http.StatusBadRequest, "discount_percentage must be between 0 and 100")
		return
	}
	_, found := h.store.Bundles.Update(id, func(b *store.Bundle) bool {
		setIf(&b.Name, req.Name)
		setIf(&b.Description, req.Description)
		setIf(&b.DiscountPercentage, req.DiscountPercentage)
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Bundle not found")
		return
	}
	message(w, "Bundle updated successfully")
}

// DeleteBundle handles DELETE /api/bundles/{id}, removing its fields too.
func (h *Handler) DeleteBundle(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if !h.store.Bundles.Delete(id) {
		twincore.Error(w, http.StatusNotFound, "Bundle not found")
		return
	}
	for _, f := range h.store.FieldsOf(id) {
		h.store.BundleFields.Delete(f.ID)
	}
	message(w, "Bundle deleted successfully")
}

// AddBundleField handles POST /api/bundles/{id}/fields.
func (h *Handler) AddBundleField(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	if _, found := h.store.Bundles.Get(id); !found {
		twincore.Error(w, http.StatusNotFound, "Bundle not found")
		return
	}
	var req bundleFieldRequest
	if !decode(w, r, &req) {
		return
	}
	f := store.BundleField{BundleID: id, FieldType: "product", Position: len(h.store.FieldsOf(id))}
	req.apply(&f)
	if strings.TrimSpace(f.Label) == "" {
		twincore.Error(w, http.StatusBadRequest, "Label is required")
		return
	}
	f.ID = h.store.BundleFields.NextID()
	h.store.BundleFields.Set(f.ID, f)
	created(w, f.ID, "Field added successfully")
}

func (req bundleFieldRequest) apply(f *store.BundleField) {
	setIf(&f.Label, req.Label)
	setIf(&f.FieldType, req.FieldType)
	setIf(&f.Options, req.Options)
	setIf(&f.Required, req.Required)
	setIf(&f.Position, req.Position)
}

// UpdateBundleField handles PUT /api/bundles/{id}/fields/{fieldId}.
func (h *Handler) UpdateBundleField(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fid, ok := idParam(w, r, "fieldId")
	if !ok {
		return
	}
	var req bundleFieldRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Label != nil && strings.TrimSpace(*req.Label) == "" {
		twincore.Error(w, http.StatusBadRequest, "Label is required")
		return
	}
	_, found := h.store.BundleFields.Update(fid, func(f *store.BundleField) bool {
		if f.BundleID != id {
			return false
		}
		req.apply(f)
		return true
	})
	if !found {
		twincore.Error(w, http.StatusNotFound, "Field not found")
		return
	}
	message(w, "Field updated successfully")
}

// DeleteBundleField handles DELETE /api/bundles/{id}/fields/{fieldId}.
func (h *Handler) DeleteBundleField(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}
	fid, ok := idParam(w, r, "fieldId")
	if !ok {
		return
	}
	f, found := h.store.BundleFields.Get(fid)
	if !found || f.BundleID != id {
		twincore.Error(w, http.StatusNotFound, "Field not found")
		return
	}
	h.store.BundleFields.Delete(fid)
	message(w, "Field deleted successfully")
}
