package views

import (
	"context"
	"strconv"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

// ProductPageSize is how many products the list screen asks for.
const ProductPageSize = 50

const MsgProductDeleted = "Product deleted successfully"

// Products lists the catalog with a search box and a status filter.
type Products struct {
	*list[resources.ProductList]
	env Env
}

func NewProducts(env Env) *Products {
	env = env.withDefaults()
	s := &Products{env: env}
	s.list = newList(env, grid{
		title:   "Products",
		empty:   "No products found",
		headers: []string{"ID", "Title", "SKU", "Price", "Stock", "Status"},
	}, s.query("", ""), productRows)
	return s
}

func (s *Products) query(search, status string) query[resources.ProductList] {
	limit := ProductPageSize
	f := resources.ProductFilter{Search: &search, Status: &status, Limit: &limit}
	return query[resources.ProductList]{
		key: cache.NewKey(resources.NameProducts, "search="+search, "status="+status, "limit="+strconv.Itoa(limit)),
		fetch: func(ctx context.Context) (resources.ProductList, error) {
			return s.env.API.Products.List(ctx, f)
		},
	}
}

// SetFilter switches the screen to another search and status. Call Load to
// read the new list.
func (s *Products) SetFilter(search, status string) {
	s.set(s.query(search, status))
}

func (s *Products) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Products.Delete(ctx, id)
	return s.env.mutated(resources.NameProducts, MsgProductDeleted, err)
}

func productRows(l resources.ProductList) [][]string {
	rows := make([][]string, 0, len(l.Products))
	for _, p := range l.Products {
		rows = append(rows, []string{ref(p.ID), p.Title, p.SKU, money(p.Price), num(p.Stock), p.Status})
	}
	return rows
}

const (
	MsgCollectionCreated = "Collection created"
	MsgCollectionUpdated = "Collection updated"
	MsgCollectionDeleted = "Collection deleted"
	MsgCollectionAdded   = "Product added to collection"
	MsgCollectionRemoved = "Product removed from collection"
)

// Collections lists product collections.
type Collections struct {
	*list[[]resources.CollectionSummary]
	env Env
}

func NewCollections(env Env) *Collections {
	env = env.withDefaults()
	return &Collections{
		env: env,
		list: newList(env, grid{
			title:   "Collections",
			empty:   "No collections yet",
			headers: []string{"ID", "Name", "Description", "Products"},
		}, query[[]resources.CollectionSummary]{
			key:   cache.NewKey(resources.NameCollections),
			fetch: env.API.Collections.List,
		}, func(cs []resources.CollectionSummary) [][]string {
			rows := make([][]string, 0, len(cs))
			for _, c := range cs {
				rows = append(rows, []string{ref(c.ID), c.Name, c.Description, num(c.ProductCount)})
			}
			return rows
		}),
	}
}

func (s *Collections) Create(ctx context.Context, in resources.CollectionInput) (int64, error) {
	c, err := s.env.API.Collections.Create(ctx, in)
	return c.ID, s.env.mutated(resources.NameCollections, MsgCollectionCreated, err)
}

func (s *Collections) Update(ctx context.Context, id int64, in resources.CollectionInput) error {
	_, err := s.env.API.Collections.Update(ctx, id, in)
	return s.env.mutated(resources.NameCollections, MsgCollectionUpdated, err)
}

func (s *Collections) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Collections.Delete(ctx, id)
	return s.env.mutated(resources.NameCollections, MsgCollectionDeleted, err)
}

func (s *Collections) AddProduct(ctx context.Context, id, productID int64) error {
	_, err := s.env.API.Collections.AddProduct(ctx, id, productID)
	return s.env.mutated(resources.NameCollections, MsgCollectionAdded, err)
}

func (s *Collections) RemoveProduct(ctx context.Context, id, productID int64) error {
	_, err := s.env.API.Collections.RemoveProduct(ctx, id, productID)
	return s.env.mutated(resources.NameCollections, MsgCollectionRemoved, err)
}

const (
	MsgBundleCreated      = "Bundle created"
	MsgBundleUpdated      = "Bundle updated"
	MsgBundleDeleted      = "Bundle deleted"
	MsgBundleFieldAdded   = "Field added"
	MsgBundleFieldUpdated = "Field updated"
	MsgBundleFieldRemoved = "Field removed"
)

// Bundles lists product bundles and their fields.
type Bundles struct {
	*list[[]resources.BundleDetail]
	env Env
}

func NewBundles(env Env) *Bundles {
	env = env.withDefaults()
	return &Bundles{
		env: env,
		list: newList(env, grid{
			title:   "Bundles",
			empty:   "No bundles yet",
			headers: []string{"ID", "Name", "Discount", "Fields"},
		}, query[[]resources.BundleDetail]{
			key:   cache.NewKey(resources.NameBundles),
			fetch: env.API.Bundles.List,
		}, func(bs []resources.BundleDetail) [][]string {
			rows := make([][]string, 0, len(bs))
			for _, b := range bs {
				rows = append(rows, []string{ref(b.ID), b.Name, formatFloat(b.DiscountPercentage) + "%", num(len(b.Fields))})
			}
			return rows
		}),
	}
}

func (s *Bundles) Create(ctx context.Context, f BundleForm) (int64, error) {
	c, err := s.env.API.Bundles.Create(ctx, f.Input())
	return c.ID, s.env.mutated(resources.NameBundles, MsgBundleCreated, err)
}

func (s *Bundles) Update(ctx context.Context, id int64, f BundleForm) error {
	_, err := s.env.API.Bundles.Update(ctx, id, f.Input())
	return s.env.mutated(resources.NameBundles, MsgBundleUpdated, err)
}

func (s *Bundles) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Bundles.Delete(ctx, id)
	return s.env.mutated(resources.NameBundles, MsgBundleDeleted, err)
}

func (s *Bundles) AddField(ctx context.Context, id int64, in resources.BundleFieldInput) (int64, error) {
	c, err := s.env.API.Bundles.AddField(ctx, id, in)
	return c.ID, s.env.mutated(resources.NameBundles, MsgBundleFieldAdded, err)
}

func (s *Bundles) UpdateField(ctx context.Context, id, fieldID int64, in resources.BundleFieldInput) error {
	_, err := s.env.API.Bundles.UpdateField(ctx, id, fieldID, in)
	return s.env.mutated(resources.NameBundles, MsgBundleFieldUpdated, err)
}

func (s *Bundles) DeleteField(ctx context.Context, id, fieldID int64) error {
	_, err := s.env.API.Bundles.DeleteField(ctx, id, fieldID)
	return s.env.mutated(resources.NameBundles, MsgBundleFieldRemoved, err)
}
