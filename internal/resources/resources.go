// Package resources holds one typed client per storefront resource. Each
// operation maps to a single API call: inputs are sent as given, and every
// failure from the HTTP layer is returned unchanged.
package resources

import (
	"context"
	"net/url"
	"sort"
	"strconv"
	"strings"

	validator "github.com/asaskevich/govalidator"

	"github.com/fashioneshop/shopadmin/internal/client"
)

// Resource names, used as cache namespaces.
const (
	NameProducts      = "products"
	NameCollections   = "collections"
	NameBundles       = "bundles"
	NameOffers        = "offers"
	NameShipping      = "shipping"
	NameOrders        = "orders"
	NameAnalytics     = "analytics"
	NameNotifications = "notifications"
	NamePopups        = "popups"
	NameSettings      = "settings"
)

// API aggregates every resource client over one HTTP client.
type API struct {
	Auth          *Auth
	Products      *Products
	Uploads       *Uploads
	Collections   *Collections
	Bundles       *Bundles
	Offers        *Offers
	Shipping      *Shipping
	Orders        *Orders
	Analytics     *Analytics
	Notifications *Notifications
	Popups        *Popups
	Settings      *Settings
}

// New builds the resource clients.
func New(c *client.Client) *API {
	return &API{
		Auth:          &Auth{c: c},
		Products:      &Products{c: c},
		Uploads:       &Uploads{c: c},
		Collections:   &Collections{c: c},
		Bundles:       &Bundles{c: c},
		Offers:        &Offers{c: c},
		Shipping:      &Shipping{c: c},
		Orders:        &Orders{c: c},
		Analytics:     &Analytics{c: c},
		Notifications: &Notifications{c: c},
		Popups:        &Popups{c: c},
		Settings:      &Settings{c: c},
	}
}

// ValidationError reports inputs rejected before any request was sent.
type ValidationError struct {
	Fields map[string]string // field name to reason
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// validate checks the valid struct tags of an input.
func validate(input any) error {
	ok, err := validator.ValidateStruct(input)
	if ok || err == nil {
		return nil
	}
	fields := validator.ErrorsByField(err)
	if len(fields) == 0 {
		return &ValidationError{Fields: map[string]string{"input": err.Error()}}
	}
	return &ValidationError{Fields: fields}
}

func idPath(base string, id int64, rest ...string) string {
	p := base + "/" + strconv.FormatInt(id, 10)
	for _, r := range rest {
		p += "/" + r
	}
	return p
}

// query appends set parameters to path. A nil pointer is omitted; a non-nil
// one is always sent, even when empty.
func query(path string, params map[string]*string) string {
	v := url.Values{}
	for k, p := range params {
		if p != nil {
			v.Set(k, *p)
		}
	}
	if len(v) == 0 {
		return path
	}
	return path + "?" + v.Encode()
}

func intParam(n *int) *string {
	if n == nil {
		return nil
	}
	s := strconv.Itoa(*n)
	return &s
}

// --- Auth ---

// Auth logs the admin in and out.
type Auth struct{ c *client.Client }

// Login exchanges credentials for a token.
func (a *Auth) Login(ctx context.Context, username, password string) (LoginResponse, error) {
	return client.Post[LoginResponse](ctx, a.c, "/auth/login", map[string]string{
		"username": username,
		"password": password,
	})
}

// Logout revokes the current token on the server.
func (a *Auth) Logout(ctx context.Context) (Message, error) {
	return client.Post[Message](ctx, a.c, "/auth/logout", nil)
}

// Me returns the identity the server associates with the current token.
func (a *Auth) Me(ctx context.Context) (User, error) {
	return client.Get[User](ctx, a.c, "/auth/me")
}

// --- Uploads ---

// Uploads sends product images.
type Uploads struct{ c *client.Client }

// UploadImages uploads files and returns their URLs in order.
func (u *Uploads) UploadImages(ctx context.Context, files []client.File) (UploadResult, error) {
	return client.Upload[UploadResult](ctx, u.c, "/upload", files)
}
