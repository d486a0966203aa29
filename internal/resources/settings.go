package resources

import (
	"context"
	"net/url"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// Shipping manages delivery zones.
type Shipping struct{ c *client.Client }

func (s *Shipping) List(ctx context.Context) ([]ShippingZone, error) {
	return client.Get[[]ShippingZone](ctx, s.c, "/shipping")
}

func (s *Shipping) Create(ctx context.Context, in ShippingInput) (Created, error) {
	if err := validate(in); err != nil {
		return Created{}, err
	}
	return client.Post[Created](ctx, s.c, "/shipping", in)
}

func (s *Shipping) Update(ctx context.Context, id int64, in ShippingInput) (Message, error) {
	if err := validate(in); err != nil {
		return Message{}, err
	}
	return client.Put[Message](ctx, s.c, idPath("/shipping", id), in)
}

func (s *Shipping) Delete(ctx context.Context, id int64) (Message, error) {
	return client.Delete[Message](ctx, s.c, idPath("/shipping", id))
}

// Settings manages store-wide key/value preferences.
type Settings struct{ c *client.Client }

func settingPath(key string) string {
	return "/settings/" + url.PathEscape(key)
}

func (s *Settings) List(ctx context.Context) ([]Setting, error) {
	return client.Get[[]Setting](ctx, s.c, "/settings")
}

func (s *Settings) Get(ctx context.Context, key string) (Setting, error) {
	return client.Get[Setting](ctx, s.c, settingPath(key))
}

// Update sets one key, creating it if absent.
func (s *Settings) Update(ctx context.Context, key, value string) (Message, error) {
	return client.Put[Message](ctx, s.c, settingPath(key), map[string]string{"value": value})
}

// BulkUpdate sets several keys in one call.
func (s *Settings) BulkUpdate(ctx context.Context, values map[string]string) (Message, error) {
	return client.Put[Message](ctx, s.c, "/settings/bulk/update", values)
}

func (s *Settings) Delete(ctx context.Context, key string) (Message, error) {
	return client.Delete[Message](ctx, s.c, settingPath(key))
}
