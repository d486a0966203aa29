package views

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/client"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

// Toasts of the product editor.
const (
	MsgProductCreated = "Product created"
	MsgProductUpdated = "Product updated"
	MsgUploadFailed   = "Failed to upload images"
)

// ProductForm creates a product, or edits one when built with an id. It is
// not safe for concurrent use.
type ProductForm struct {
	env Env
	id  int64

	Fields ProductFields
	Images []string
}

// NewProductForm returns an editor for product id, or a blank one for a new
// product when id is 0.
func NewProductForm(env Env, id int64) *ProductForm {
	return &ProductForm{
		env:    env.withDefaults(),
		id:     id,
		Fields: ProductFields{Status: "active"},
	}
}

// Editing reports whether the form updates an existing product.
func (f *ProductForm) Editing() bool { return f.id != 0 }

func (f *ProductForm) key() cache.Key {
	return cache.NewKey(resources.NameProducts, "id="+strconv.FormatInt(f.id, 10))
}

// Load fills the form from the product being edited. It is a no-op for a
// new product.
func (f *ProductForm) Load(ctx context.Context) error {
	if !f.Editing() {
		return nil
	}
	p, err := cache.Fetch(ctx, f.env.Cache, f.key(), func(ctx context.Context) (resources.Product, error) {
		return f.env.API.Products.Get(ctx, f.id)
	})
	if err != nil {
		return err
	}
	f.Fields = productFields(p)
	f.Images = slices.Clone([]string(p.Images))
	return nil
}

// Upload sends files and appends the returned URLs to the form's images.
func (f *ProductForm) Upload(ctx context.Context, files []client.File) error {
	res, err := f.env.API.Uploads.UploadImages(ctx, files)
	if err != nil {
		f.env.Logger.Debug("image upload failed", zap.Error(err))
		f.env.Notify.Error(MsgUploadFailed)
		return err
	}
	f.Images = append(f.Images, res.URLs...)
	f.env.Notify.Success(fmt.Sprintf("%d image(s) uploaded successfully.", len(res.URLs)))
	return nil
}

// RemoveImage drops the image at index i. Out of range indexes are ignored.
func (f *ProductForm) RemoveImage(i int) {
	if i < 0 || i >= len(f.Images) {
		return
	}
	f.Images = slices.Delete(f.Images, i, i+1)
}

// Input converts the form to a request body.
func (f *ProductForm) Input() resources.ProductInput {
	return resources.ProductInput{
		Title:        f.Fields.Title,
		Description:  f.Fields.Description,
		Price:        ParseFloat(f.Fields.Price),
		ComparePrice: ParseOptionalFloat(f.Fields.ComparePrice),
		SKU:          f.Fields.SKU,
		Barcode:      f.Fields.Barcode,
		Stock:        ParseInt(f.Fields.Stock),
		Weight:       ParseOptionalFloat(f.Fields.Weight),
		Status:       f.Fields.Status,
		Vendor:       f.Fields.Vendor,
		ProductType:  f.Fields.ProductType,
		Tags:         f.Fields.Tags,
		Images:       resources.Images(slices.Clone(f.Images)),
	}
}

// Submit saves the form and returns the product id.
func (f *ProductForm) Submit(ctx context.Context) (int64, error) {
	if f.Editing() {
		_, err := f.env.API.Products.Update(ctx, f.id, f.Input())
		return f.id, f.env.mutated(resources.NameProducts, MsgProductUpdated, err)
	}
	c, err := f.env.API.Products.Create(ctx, f.Input())
	if err := f.env.mutated(resources.NameProducts, MsgProductCreated, err); err != nil {
		return 0, err
	}
	f.id = c.ID
	return c.ID, nil
}

// Render writes the form's current values.
func (f *ProductForm) Render(w io.Writer) error {
	title := "Add Product"
	if f.Editing() {
		title = "Edit Product " + ref(f.id)
	}
	rows := [][]string{
		{"Title", f.Fields.Title},
		{"Description", f.Fields.Description},
		{"Price", f.Fields.Price},
		{"Compare price", f.Fields.ComparePrice},
		{"SKU", f.Fields.SKU},
		{"Barcode", f.Fields.Barcode},
		{"Stock", f.Fields.Stock},
		{"Weight", f.Fields.Weight},
		{"Status", f.Fields.Status},
		{"Vendor", f.Fields.Vendor},
		{"Type", f.Fields.ProductType},
		{"Tags", f.Fields.Tags},
	}
	for i, url := range f.Images {
		rows = append(rows, []string{fmt.Sprintf("Image %d", i+1), url})
	}
	return renderTable(w, grid{title: title, headers: []string{"Field", "Value"}}, rows)
}
