package resources

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// Offers manages discounts.
type Offers struct{ c *client.Client }

func (o *Offers) List(ctx context.Context) ([]Offer, error) {
	return client.Get[[]Offer](ctx, o.c, "/offers")
}

func (o *Offers) Get(ctx context.Context, id int64) (Offer, error) {
	return client.Get[Offer](ctx, o.c, idPath("/offers", id))
}

func (o *Offers) Create(ctx context.Context, in OfferInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, o.c, "/offers", in)
}

func (o *Offers) Update(ctx context.Context, id int64, in OfferInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, o.c, idPath("/offers", id), in)
}

func (o *Offers) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, o.c, idPath("/offers", id))
}

// Notifications manages customer broadcasts.
type Notifications struct{ c *client.Client }

func (n *Notifications) List(ctx context.Context) ([]Notification, error) {
	return client.Get[[]Notification](ctx, n.c, "/notifications")
}

func (n *Notifications) Get(ctx context.Context, id int64) (Notification, error) {
	return client.Get[Notification](ctx, n.c, idPath("/notifications", id))
}

func (n *Notifications) Create(ctx context.Context, in NotificationInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, n.c, "/notifications", in)
}

func (n *Notifications) Update(ctx context.Context, id int64, in NotificationInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, n.c, idPath("/notifications", id), in)
}

func (n *Notifications) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, n.c, idPath("/notifications", id))
}

// Trigger sends a notification to customers now.
func (n *Notifications) Trigger(ctx context.Context, id int64) (Message, error) {
	return client.Post[Message](ctx, n.c, idPath("/notifications", id, "trigger"), nil)
}

// Popups manages storefront overlays.
type Popups struct{ c *client.Client }

func (p *Popups) List(ctx context.Context) ([]Popup, error) {
	return client.Get[[]Popup](ctx, p.c, "/popups")
}

func (p *Popups) Get(ctx context.Context, id int64) (Popup, error) {
	return client.Get[Popup](ctx, p.c, idPath("/popups", id))
}

func (p *Popups) Create(ctx context.Context, in PopupInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, p.c, "/popups", in)
}

func (p *Popups) Update(ctx context.Context, id int64, in PopupInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, p.c, idPath("/popups", id), in)
}

func (p *Popups) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, p.c, idPath("/popups", id))
}
