package resources

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// ProductFilter narrows a product list. Nil fields are not sent.
type ProductFilter struct {
	Limit  *int
	Offset *int
	Sort   *string // newest, oldest, price_asc, price_desc, title
	Search *string
	Status *string
}

func (f ProductFilter) path() string {
	return query("/products", map[string]*string{
		"limit":  intParam(f.Limit),
		"offset": intParam(f.Offset),
		"sort":   f.Sort,
		"search": f.Search,
		"status": f.Status,
	})
}

// Products manages the catalog.
type Products struct{ c *client.Client }

// List returns one page of products.
func (p *Products) List(ctx context.Context, f ProductFilter) (ProductList, error) {
	return client.Get[ProductList](ctx, p.c, f.path())
}

// Get returns one product.
func (p *Products) Get(ctx context.Context, id int64) (Product, error) {
	return client.Get[Product](ctx, p.c, idPath("/products", id))
}

// Create adds a product.
func (p *Products) Create(ctx context.Context, in ProductInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, p.c, "/products", in)
}

// Update replaces a product's fields.
func (p *Products) Update(ctx context.Context, id int64, in ProductInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, p.c, idPath("/products", id), in)
}

// Delete removes a product.
func (p *Products) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, p.c, idPath("/products", id))
}
