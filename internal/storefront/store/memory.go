package store

import (
	"encoding/json"
	"sync"

	"golang.org/x/crypto/bcrypt"

	pkgstore "github.com/fashioneshop/shopadmin/pkg/store"
)

// Default admin credentials seeded on every reset.
const (
	DefaultUsername = "admin"
	DefaultPassword = "admin123"
)

var defaultPasswordHash = sync.OnceValue(func() string {
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		panic("hash default password: " + err.Error())
	}
	return string(hash)
})

// DefaultSettings are the store preferences present after a reset.
var DefaultSettings = []Setting{
	{Key: "store_name", Value: "Fashion E-Shop"},
	{Key: "store_email", Value: "support@fashion-eshop.test"},
	{Key: "store_phone", Value: ""},
	{Key: "store_address", Value: ""},
	{Key: "currency", Value: "EGP"},
	{Key: "tax_rate", Value: "14"},
	{Key: "shipping_policy", Value: ""},
	{Key: "return_policy", Value: ""},
}

// MemoryStore holds all storefront twin state in memory.
type MemoryStore struct {
	Users         *pkgstore.Store[string, User]
	Products      *pkgstore.Store[int64, Product]
	Collections   *pkgstore.Store[int64, Collection]
	Bundles       *pkgstore.Store[int64, Bundle]
	BundleFields  *pkgstore.Store[int64, BundleField]
	Offers        *pkgstore.Store[int64, Offer]
	Shipping      *pkgstore.Store[int64, ShippingZone]
	Orders        *pkgstore.Store[int64, Order]
	Notifications *pkgstore.Store[int64, Notification]
	Popups        *pkgstore.Store[int64, Popup]
	Settings      *pkgstore.Store[string, Setting]
	PageViews     *pkgstore.Store[int64, PageView]
	Uploads       *pkgstore.Store[string, Upload]
	RevokedTokens *pkgstore.Store[string, bool] // by token id

	Clock *pkgstore.Clock
}

// New creates a MemoryStore holding the seed data.
func New() *MemoryStore {
	s := &MemoryStore{
		Users:         pkgstore.New[string, User](),
		Products:      pkgstore.New[int64, Product](),
		Collections:   pkgstore.New[int64, Collection](),
		Bundles:       pkgstore.New[int64, Bundle](),
		BundleFields:  pkgstore.New[int64, BundleField](),
		Offers:        pkgstore.New[int64, Offer](),
		Shipping:      pkgstore.New[int64, ShippingZone](),
		Orders:        pkgstore.New[int64, Order](),
		Notifications: pkgstore.New[int64, Notification](),
		Popups:        pkgstore.New[int64, Popup](),
		Settings:      pkgstore.New[string, Setting](),
		PageViews:     pkgstore.New[int64, PageView](),
		Uploads:       pkgstore.New[string, Upload](),
		RevokedTokens: pkgstore.New[string, bool](),
		Clock:         pkgstore.NewClock(),
	}
	s.seed()
	return s
}

func (s *MemoryStore) seed() {
	s.Users.Set(DefaultUsername, User{
		ID:           1,
		Username:     DefaultUsername,
		Role:         "admin",
		PasswordHash: defaultPasswordHash(),
	})
	for _, st := range DefaultSettings {
		s.Settings.Set(st.Key, st)
	}
}

// FieldsOf returns the fields of a bundle ordered by position.
func (s *MemoryStore) FieldsOf(bundleID int64) []BundleField {
	return s.BundleFields.Filter(func(_ int64, f BundleField) bool {
		return f.BundleID == bundleID
	})
}

// stateSnapshot is the JSON-serializable state for admin endpoints.
type stateSnapshot struct {
	Users         map[string]User          `json:"users"`
	Products      map[int64]Product        `json:"products"`
	Collections   map[int64]Collection     `json:"collections"`
	Bundles       map[int64]Bundle         `json:"bundles"`
	BundleFields  map[int64]BundleField    `json:"bundle_fields"`
	Offers        map[int64]Offer          `json:"offers"`
	Shipping      map[int64]ShippingZone   `json:"shipping"`
	Orders        map[int64]Order          `json:"orders"`
	Notifications map[int64]Notification   `json:"notifications"`
	Popups        map[int64]Popup          `json:"popups"`
	Settings      map[string]Setting       `json:"settings"`
	PageViews     map[int64]PageView       `json:"page_views,omitempty"`
	Uploads       map[string]Upload        `json:"uploads,omitempty"`
}

// Snapshot returns the full state as a JSON-serializable value.
func (s *MemoryStore) Snapshot() any {
	return stateSnapshot{
		Users:         s.Users.Snapshot(),
		Products:      s.Products.Snapshot(),
		Collections:   s.Collections.Snapshot(),
		Bundles:       s.Bundles.Snapshot(),
		BundleFields:  s.BundleFields.Snapshot(),
		Offers:        s.Offers.Snapshot(),
		Shipping:      s.Shipping.Snapshot(),
		Orders:        s.Orders.Snapshot(),
		Notifications: s.Notifications.Snapshot(),
		Popups:        s.Popups.Snapshot(),
		Settings:      s.Settings.Snapshot(),
		PageViews:     s.PageViews.Snapshot(),
		Uploads:       s.Uploads.Snapshot(),
	}
}

// LoadState replaces the state from a JSON body. Sections missing from the
// body keep their current contents.
func (s *MemoryStore) LoadState(data []byte) error {
	var snap stateSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	if snap.Users != nil {
		s.Users.LoadSnapshot(snap.Users)
	}
	if snap.Products != nil {
		s.Products.LoadSnapshot(snap.Products)
	}
	if snap.Collections != nil {
		s.Collections.LoadSnapshot(snap.Collections)
	}
	if snap.Bundles != nil {
		s.Bundles.LoadSnapshot(snap.Bundles)
	}
	if snap.BundleFields != nil {
		s.BundleFields.LoadSnapshot(snap.BundleFields)
	}
	if snap.Offers != nil {
		s.Offers.LoadSnapshot(snap.Offers)
	}
	if snap.Shipping != nil {
		s.Shipping.LoadSnapshot(snap.Shipping)
	}
	if snap.Orders != nil {
		s.Orders.LoadSnapshot(snap.Orders)
	}
	if snap.Notifications != nil {
		s.Notifications.LoadSnapshot(snap.Notifications)
	}
	if snap.Popups != nil {
		s.Popups.LoadSnapshot(snap.Popups)
	}
	if snap.Settings != nil {
		s.Settings.LoadSnapshot(snap.Settings)
	}
	if snap.PageViews != nil {
		s.PageViews.LoadSnapshot(snap.PageViews)
	}
	if snap.Uploads != nil {
		s.Uploads.LoadSnapshot(snap.Uploads)
	}
	return nil
}

// Reset clears all state and reloads the seed data.
func (s *MemoryStore) Reset() {
	s.Users.Reset()
	s.Products.Reset()
	s.Collections.Reset()
	s.Bundles.Reset()
	s.BundleFields.Reset()
	s.Offers.Reset()
	s.Shipping.Reset()
	s.Orders.Reset()
	s.Notifications.Reset()
	s.Popups.Reset()
	s.Settings.Reset()
	s.PageViews.Reset()
	s.Uploads.Reset()
	s.RevokedTokens.Reset()
	s.Clock.Reset()
	s.seed()
}
