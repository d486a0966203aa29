// Package store holds the in-memory state of the storefront twin.
package store

import (
	"encoding/json"
	"time"
)

// User is an admin account able to log in to the dashboard.
type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	Role         string `json:"role"`
	PasswordHash string `json:"password_hash"`
}

// Images is a product's image URL list. The storefront persists it as a
// JSON-encoded string, so it is written that way and accepted in either form.
type Images []string

// MarshalJSON encodes the list as a JSON string holding a JSON array.
func (im Images) MarshalJSON() ([]byte, error) {
	list := []string(im)
	if list == nil {
		list = []string{}
	}
	inner, err := json.Marshal(list)
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(inner))
}

// UnmarshalJSON accepts a JSON array, a JSON string holding an array, an
// empty string or null.
func (im *Images) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*im = list
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*im = nil
		return nil
	}
	if err := json.Unmarshal([]byte(s), &list); err != nil {
		return err
	}
	*im = list
	return nil
}

// Product is a catalog item.
type Product struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	ComparePrice *float64  `json:"compare_price"`
	SKU          string    `json:"sku"`
	Barcode      string    `json:"barcode"`
	Stock        int       `json:"stock"`
	Weight       *float64  `json:"weight"`
	Status       string    `json:"status"`
	Vendor       string    `json:"vendor"`
	ProductType  string    `json:"product_type"`
	Tags         string    `json:"tags"`
	Images       Images    `json:"images"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Collection groups products for merchandising.
type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProductIDs  []int64   `json:"product_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// Bundle is a discounted group of products configured by fields.
type Bundle struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage float64   `json:"discount_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

// BundleField is one configurable slot of a bundle.
type BundleField struct {
	ID        int64  `json:"id"`
	BundleID  int64  `json:"bundle_id"`
	Label     string `json:"label"`
	FieldType string `json:"field_type"`
	Options   string `json:"options"`
	Required  bool   `json:"required"`
	Position  int    `json:"position"`
}

// Offer is a time-boxed discount.
type Offer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"` // percentage or fixed
	Value       float64   `json:"value"`
	MinPurchase *float64  `json:"min_purchase"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// ShippingZone is a delivery region with its flat cost.
type ShippingZone struct {
	ID            int64   `json:"id"`
	Zone          string  `json:"zone"`
	Cost          float64 `json:"cost"`
	EstimatedDays int     `json:"estimated_days"`
}

// OrderItem is one line of an order.
type OrderItem struct {
	ProductID int64   `json:"product_id"`
	Title     string  `json:"title"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// Order is a customer purchase.
type Order struct {
	ID           int64       `json:"id"`
	CustomerName string      `json:"customer_name"`
	Phone        string      `json:"phone"`
	Address      string      `json:"address"`
	Items        []OrderItem `json:"items"`
	ShippingCost float64     `json:"shipping_cost"`
	Total        float64     `json:"total"`
	Status       string      `json:"status"`
	CreatedAt    time.Time   `json:"created_at"`
}

// Notification is a broadcast message to storefront customers.
type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"` // info or alert
	SentCount int        `json:"sent_count"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// Popup is a promotional overlay shown on the storefront.
type Popup struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ButtonText string    `json:"button_text"`
	ButtonLink string    `json:"button_link"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// Setting is a store-wide key/value preference.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// PageView is a storefront visit, the source of traffic analytics.
type PageView struct {
	ID        int64     `json:"id"`
	Path      string    `json:"path"`
	VisitorID string    `json:"visitor_id"`
	VisitedAt time.Time `json:"visited_at"`
}

// Upload is a stored image file.
type Upload struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"data"`
}
