package resources

import (
	"encoding/json"
	"time"
)

// User is the authenticated admin.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse is returned by Auth.Login.
type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Created is the reply to every create call.
type Created struct {
	ID      int64  `json:"id"`
	Message string `json:"message"`
}

// Message is the reply to update, delete and action calls.
type Message struct {
	Message string `json:"message"`
}

// Pagination describes one page of a list.
type Pagination struct {
	Total  int `json:"total"`
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// Images is a product's image URLs. The API returns it either as a JSON
// array or as a string holding a JSON array, and stores what it is sent as
// the string form, so it is always written that way.
type Images []string

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

// ProductInput is the body of product create and update.
type ProductInput struct {
	Title        string   `json:"title" valid:"required"`
	Description  string   `json:"description"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"compare_price"`
	SKU          string   `json:"sku"`
	Barcode      string   `json:"barcode"`
	Stock        int      `json:"stock"`
	Weight       *float64 `json:"weight"`
	Status       string   `json:"status,omitempty"`
	Vendor       string   `json:"vendor"`
	ProductType  string   `json:"product_type"`
	Tags         string   `json:"tags"`
	Images       Images   `json:"images"`
}

// ProductList is one page of products.
type ProductList struct {
	Products   []Product  `json:"products"`
	Pagination Pagination `json:"pagination"`
}

// UploadResult lists the URLs of uploaded images.
type UploadResult struct {
	Message string   `json:"message"`
	URLs    []string `json:"urls"`
}

// Collection groups products.
type Collection struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ProductIDs  []int64   `json:"product_ids"`
	CreatedAt   time.Time `json:"created_at"`
}

// CollectionSummary is a collection as listed.
type CollectionSummary struct {
	Collection
	ProductCount int `json:"product_count"`
}

// CollectionDetail is a collection with its products.
type CollectionDetail struct {
	Collection
	Products []Product `json:"products"`
}

// CollectionInput is the body of collection create and update.
type CollectionInput struct {
	Name        string `json:"name" valid:"required"`
	Description string `json:"description"`
}

// Bundle is a discounted product group.
type Bundle struct {
	ID                 int64     `json:"id"`
	Name               string    `json:"name"`
	Description        string    `json:"description"`
	DiscountPercentage float64   `json:"discount_percentage"`
	CreatedAt          time.Time `json:"created_at"`
}

// BundleDetail is a bundle with its fields, as listed and fetched.
type BundleDetail struct {
	Bundle
	Fields []BundleField `json:"fields"`
}

// BundleInput is the body of bundle create and update.
type BundleInput struct {
	Name               string  `json:"name" valid:"required"`
	Description        string  `json:"description"`
	DiscountPercentage float64 `json:"discount_percentage"`
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

// BundleFieldInput is the body of bundle field create and update.
type BundleFieldInput struct {
	Label     string `json:"label" valid:"required"`
	FieldType string `json:"field_type"`
	Options   string `json:"options"`
	Required  bool   `json:"required"`
	Position  int    `json:"position"`
}

// Offer is a time-boxed discount.
type Offer struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Value       float64   `json:"value"`
	MinPurchase *float64  `json:"min_purchase"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	CreatedAt   time.Time `json:"created_at"`
}

// OfferInput is the body of offer create and update.
type OfferInput struct {
	Name        string   `json:"name" valid:"required"`
	Type        string   `json:"type" valid:"required"`
	Value       float64  `json:"value"`
	MinPurchase *float64 `json:"min_purchase"`
	StartDate   string   `json:"start_date" valid:"required"`
	EndDate     string   `json:"end_date" valid:"required"`
}

// ShippingZone is a delivery region.
type ShippingZone struct {
	ID            int64   `json:"id"`
	Zone          string  `json:"zone"`
	Cost          float64 `json:"cost"`
	EstimatedDays int     `json:"estimated_days"`
}

// ShippingInput is the body of shipping zone create and update.
type ShippingInput struct {
	Zone          string  `json:"zone" valid:"required"`
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

// OrderList is one page of orders.
type OrderList struct {
	Orders     []Order    `json:"orders"`
	Pagination Pagination `json:"pagination"`
}

// Notification is a customer broadcast.
type Notification struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Message   string     `json:"message"`
	Type      string     `json:"type"`
	SentCount int        `json:"sent_count"`
	SentAt    *time.Time `json:"sent_at"`
	CreatedAt time.Time  `json:"created_at"`
}

// NotificationInput is the body of notification create and update.
type NotificationInput struct {
	Title   string `json:"title" valid:"required"`
	Message string `json:"message" valid:"required"`
	Type    string `json:"type"`
}

// Popup is a storefront overlay.
type Popup struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	ButtonText string    `json:"button_text"`
	ButtonLink string    `json:"button_link"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// PopupInput is the body of popup create and update.
type PopupInput struct {
	Title      string `json:"title" valid:"required"`
	Content    string `json:"content" valid:"required"`
	ButtonText string `json:"button_text" valid:"required"`
	ButtonLink string `json:"button_link" valid:"required"`
	IsActive   bool   `json:"is_active"`
}

// Setting is a key/value store preference.
type Setting struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Overview is the dashboard summary.
type Overview struct {
	Today struct {
		OrdersToday  int     `json:"orders_today"`
		RevenueToday float64 `json:"revenue_today"`
	} `json:"today"`
	Week struct {
		OrdersWeek  int     `json:"orders_week"`
		RevenueWeek float64 `json:"revenue_week"`
	} `json:"week"`
	PendingOrders    int       `json:"pending_orders"`
	TotalProducts    int       `json:"total_products"`
	TotalOrders      int       `json:"total_orders"`
	RecentOrders     []Order   `json:"recent_orders"`
	LowStockProducts []Product `json:"low_stock_products"`
}

// SalesDay is one day of the sales report.
type SalesDay struct {
	Date    string  `json:"date"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// SalesReport aggregates revenue over a period of days.
type SalesReport struct {
	Period            int        `json:"period"`
	Daily             []SalesDay `json:"daily"`
	TotalOrders       int        `json:"total_orders"`
	TotalRevenue      float64    `json:"total_revenue"`
	AverageOrderValue float64    `json:"average_order_value"`
}

// TrafficDay is one day of the traffic report.
type TrafficDay struct {
	Date     string `json:"date"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// PageCount is a path and how often it was viewed.
type PageCount struct {
	Path  string `json:"path"`
	Views int    `json:"views"`
}

// TrafficReport aggregates page views over a period of days.
type TrafficReport struct {
	Period         int          `json:"period"`
	Daily          []TrafficDay `json:"daily"`
	TotalViews     int          `json:"total_views"`
	UniqueVisitors int          `json:"unique_visitors"`
	TopPages       []PageCount  `json:"top_pages"`
}
