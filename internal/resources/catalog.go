package resources

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// Collections manages product collections and their membership.
type Collections struct{ c *client.Client }

func (c *Collections) List(ctx context.Context) ([]CollectionSummary, error) {
	return client.Get[[]CollectionSummary](ctx, c.c, "/collections")
}

func (c *Collections) Get(ctx context.Context, id int64) (CollectionDetail, error) {
	return client.Get[CollectionDetail](ctx, c.c, idPath("/collections", id))
}

func (c *Collections) Create(ctx context.Context, in CollectionInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, c.c, "/collections", in)
}

func (c *Collections) Update(ctx context.Context, id int64, in CollectionInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, c.c, idPath("/collections", id), in)
}

func (c *Collections) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, c.c, idPath("/collections", id))
}

// AddProduct puts a product in a collection.
func (c *Collections) AddProduct(ctx context.Context, id, productID int64) (Message, error) {
	return client.Post[Message](ctx, c.c, idPath("/collections", id, "products"), map[string]int64{"productId": productID})
}

// RemoveProduct takes a product out of a collection.
func (c *Collections) RemoveProduct(ctx context.Context, id, productID int64) (Message, error) {
	return client.Delete[Message](ctx, c.c, idPath(idPath("/collections", id, "products"), productID))
}

// Bundles manages bundles and their fields.
type Bundles struct{ c *client.Client }

func (b *Bundles) List(ctx context.Context) ([]BundleDetail, error) {
	return client.Get[[]BundleDetail](ctx, b.c, "/bundles")
}

func (b *Bundles) Get(ctx context.Context, id int64) (BundleDetail, error) {
	return client.Get[BundleDetail](ctx, b.c, idPath("/bundles", id))
}

func (b *Bundles) Create(ctx context.Context, in BundleInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, b.c, "/bundles", in)
}

func (b *Bundles) Update(ctx context.Context, id int64, in BundleInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, b.c, idPath("/bundles", id), in)
}

func (b *Bundles) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, b.c, idPath("/bundles", id))
}

// AddField appends a field to a bundle.
func (b *Bundles) AddField(ctx context.Context, id int64, in BundleFieldInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, b.c, idPath("/bundles", id, "fields"), in)
}

// UpdateField replaces a bundle field.
func (b *Bundles) UpdateField(ctx context.Context, id, fieldID int64, in BundleFieldInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, b.c, idPath(idPath("/bundles", id, "fields"), fieldID), in)
}

// DeleteField removes a bundle field.
func (b *Bundles) DeleteField(ctx context.Context, id, fieldID int64) (Message, error) {
	return client.Delete[Message](ctx, b.c, idPath(idPath("/bundles", id, "fields"), fieldID))
}
