package views

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

const (
	MsgShippingCreated = "Shipping zone created"
	MsgShippingUpdated = "Shipping zone updated"
	MsgShippingDeleted = "Shipping zone deleted"
)

// Shipping lists delivery zones.
type Shipping struct {
	*list[[]resources.ShippingZone]
	env Env
}

func NewShipping(env Env) *Shipping {
	env = env.withDefaults()
	return &Shipping{
		env: env,
		list: newList(env, grid{
			title:   "Shipping",
			empty:   "No shipping zones yet",
			headers: []string{"ID", "Zone", "Cost", "Estimated days"},
		}, query[[]resources.ShippingZone]{
			key:   cache.NewKey(resources.NameShipping),
			fetch: env.API.Shipping.List,
		}, func(zs []resources.ShippingZone) [][]string {
			rows := make([][]string, 0, len(zs))
			for _, z := range zs {
				rows = append(rows, []string{ref(z.ID), z.Zone, money(z.Cost), num(z.EstimatedDays)})
			}
			return rows
		}),
	}
}

func (s *Shipping) Create(ctx context.Context, f ShippingForm) (int64, error) {
	c, err := s.env.API.Shipping.Create(ctx, f.Input())
	return c.ID, s.env.mutated(resources.NameShipping, MsgShippingCreated, err)
}

func (s *Shipping) Update(ctx context.Context, id int64, f ShippingForm) error {
	_, err := s.env.API.Shipping.Update(ctx, id, f.Input())
	return s.env.mutated(resources.NameShipping, MsgShippingUpdated, err)
}

func (s *Shipping) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Shipping.Delete(ctx, id)
	return s.env.mutated(resources.NameShipping, MsgShippingDeleted, err)
}

const (
	MsgSettingsSaved  = "Settings saved"
	MsgSettingUpdated = "Setting updated"
	MsgSettingDeleted = "Setting deleted"
)

// Settings lists store preferences and saves them in bulk.
type Settings struct {
	*list[[]resources.Setting]
	env Env
}

func NewSettings(env Env) *Settings {
	env = env.withDefaults()
	return &Settings{
		env: env,
		list: newList(env, grid{
			title:   "Settings",
			empty:   "No settings stored",
			headers: []string{"Key", "Value"},
		}, query[[]resources.Setting]{
			key:   cache.NewKey(resources.NameSettings),
			fetch: env.API.Settings.List,
		}, func(ss []resources.Setting) [][]string {
			rows := make([][]string, 0, len(ss))
			for _, st := range ss {
				rows = append(rows, []string{st.Key, st.Value})
			}
			return rows
		}),
	}
}

// Values loads the settings as a map, the shape Save takes.
func (s *Settings) Values(ctx context.Context) (map[string]string, error) {
	all, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string, len(all))
	for _, st := range all {
		values[st.Key] = st.Value
	}
	return values, nil
}

// Save writes every value in one request.
func (s *Settings) Save(ctx context.Context, values map[string]string) error {
	_, err := s.env.API.Settings.BulkUpdate(ctx, values)
	return s.env.mutated(resources.NameSettings, MsgSettingsSaved, err)
}

func (s *Settings) Set(ctx context.Context, key, value string) error {
	_, err := s.env.API.Settings.Update(ctx, key, value)
	return s.env.mutated(resources.NameSettings, MsgSettingUpdated, err)
}

func (s *Settings) Delete(ctx context.Context, key string) error {
	_, err := s.env.API.Settings.Delete(ctx, key)
	return s.env.mutated(resources.NameSettings, MsgSettingDeleted, err)
}
