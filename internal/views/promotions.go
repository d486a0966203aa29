package views

import (
	"context"

	"github.com/fashioneshop/shopadmin/internal/cache"
	"github.com/fashioneshop/shopadmin/internal/resources"
)

const (
	MsgOfferCreated = "Offer created"
	MsgOfferUpdated = "Offer updated"
	MsgOfferDeleted = "Offer deleted"
)

// Offers lists time-boxed discounts.
type Offers struct {
	*list[[]resources.Offer]
	env Env
}

func NewOffers(env Env) *Offers {
	env = env.withDefaults()
	return &Offers{
		env: env,
		list: newList(env, grid{
			title:   "Offers",
			empty:   "No offers yet",
			headers: []string{"ID", "Name", "Discount", "Min purchase", "Starts", "Ends"},
		}, query[[]resources.Offer]{
			key:   cache.NewKey(resources.NameOffers),
			fetch: env.API.Offers.List,
		}, offerRows),
	}
}

func (s *Offers) Create(ctx context.Context, f OfferForm) (int64, error) {
	c, err := s.env.API.Offers.Create(ctx, f.Input())
	return c.ID, s.env.mutated(resources.NameOffers, MsgOfferCreated, err)
}

func (s *Offers) Update(ctx context.Context, id int64, f OfferForm) error {
	_, err := s.env.API.Offers.Update(ctx, id, f.Input())
	return s.env.mutated(resources.NameOffers, MsgOfferUpdated, err)
}

func (s *Offers) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Offers.Delete(ctx, id)
	return s.env.mutated(resources.NameOffers, MsgOfferDeleted, err)
}

func offerRows(offers []resources.Offer) [][]string {
	rows := make([][]string, 0, len(offers))
	for _, o := range offers {
		discount := money(o.Value)
		if o.Type == "percentage" {
			discount = formatFloat(o.Value) + "%"
		}
		rows = append(rows, []string{ref(o.ID), o.Name, discount, optionalMoney(o.MinPurchase), o.StartDate, o.EndDate})
	}
	return rows
}

const (
	MsgNotificationCreated = "Notification created"
	MsgNotificationUpdated = "Notification updated"
	MsgNotificationDeleted = "Notification deleted"
	MsgNotificationSent    = "Notification sent"
)

// Notifications lists customer broadcasts.
type Notifications struct {
	*list[[]resources.Notification]
	env Env
}

func NewNotifications(env Env) *Notifications {
	env = env.withDefaults()
	return &Notifications{
		env: env,
		list: newList(env, grid{
			title:   "Notifications",
			empty:   "No notifications yet",
			headers: []string{"ID", "Title", "Type", "Sent", "Last sent"},
		}, query[[]resources.Notification]{
			key:   cache.NewKey(resources.NameNotifications),
			fetch: env.API.Notifications.List,
		}, func(ns []resources.Notification) [][]string {
			rows := make([][]string, 0, len(ns))
			for _, n := range ns {
				last := "never"
				if n.SentAt != nil {
					last = ago(*n.SentAt)
				}
				rows = append(rows, []string{ref(n.ID), n.Title, n.Type, num(n.SentCount), last})
			}
			return rows
		}),
	}
}

func (s *Notifications) Create(ctx context.Context, in resources.NotificationInput) (int64, error) {
	c, err := s.env.API.Notifications.Create(ctx, in)
	return c.ID, s.env.mutated(resources.NameNotifications, MsgNotificationCreated, err)
}

func (s *Notifications) Update(ctx context.Context, id int64, in resources.NotificationInput) error {
	_, err := s.env.API.Notifications.Update(ctx, id, in)
	return s.env.mutated(resources.NameNotifications, MsgNotificationUpdated, err)
}

func (s *Notifications) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Notifications.Delete(ctx, id)
	return s.env.mutated(resources.NameNotifications, MsgNotificationDeleted, err)
}

// Trigger sends a notification to every customer.
func (s *Notifications) Trigger(ctx context.Context, id int64) error {
	_, err := s.env.API.Notifications.Trigger(ctx, id)
	return s.env.mutated(resources.NameNotifications, MsgNotificationSent, err)
}

const (
	MsgPopupCreated = "Popup created"
	MsgPopupUpdated = "Popup updated"
	MsgPopupDeleted = "Popup deleted"
)

// Popups lists storefront overlays.
type Popups struct {
	*list[[]resources.Popup]
	env Env
}

func NewPopups(env Env) *Popups {
	env = env.withDefaults()
	return &Popups{
		env: env,
		list: newList(env, grid{
			title:   "Popups",
			empty:   "No popups yet",
			headers: []string{"ID", "Title", "Button", "Link", "Active"},
		}, query[[]resources.Popup]{
			key:   cache.NewKey(resources.NamePopups),
			fetch: env.API.Popups.List,
		}, func(ps []resources.Popup) [][]string {
			rows := make([][]string, 0, len(ps))
			for _, p := range ps {
				rows = append(rows, []string{ref(p.ID), p.Title, p.ButtonText, p.ButtonLink, yesNo(p.IsActive)})
			}
			return rows
		}),
	}
}

func (s *Popups) Create(ctx context.Context, in resources.PopupInput) (int64, error) {
	c, err := s.env.API.Popups.Create(ctx, in)
	return c.ID, s.env.mutated(resources.NamePopups, MsgPopupCreated, err)
}

func (s *Popups) Update(ctx context.Context, id int64, in resources.PopupInput) error {
	_, err := s.env.API.Popups.Update(ctx, id, in)
	return s.env.mutated(resources.NamePopups, MsgPopupUpdated, err)
}

func (s *Popups) Delete(ctx context.Context, id int64) error {
	_, err := s.env.API.Popups.Delete(ctx, id)
	return s.env.mutated(resources.NamePopups, MsgPopupDeleted, err)
}
