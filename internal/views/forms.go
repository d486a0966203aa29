package views

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fashioneshop/shopadmin/internal/resources"
)

// Form inputs arrive as text. Numbers are read from the longest numeric
// prefix, so "12kg" is 12 and "abc" is 0.
var (
	floatPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)
	intPrefix   = regexp.MustCompile(`^[+-]?\d+`)
)

// ParseFloat reads a number, 0 when there is none.
func ParseFloat(s string) float64 {
	v, _ := parseFloat(s)
	return v
}

// ParseOptionalFloat reads a number, nil when the field is blank or holds
// no number.
func ParseOptionalFloat(s string) *float64 {
	v, ok := parseFloat(s)
	if !ok {
		return nil
	}
	return &v
}

func parseFloat(s string) (float64, bool) {
	m := floatPrefix.FindString(strings.TrimSpace(s))
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseInt reads an integer, 0 when there is none.
func ParseInt(s string) int {
	n, err := strconv.Atoi(intPrefix.FindString(strings.TrimSpace(s)))
	if err != nil {
		return 0
	}
	return n
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return formatFloat(*v)
}

// OfferForm is the text of the new-offer dialog.
type OfferForm struct {
	Name        string
	Type        string // percentage when blank
	Value       string
	MinPurchase string
	StartDate   string
	EndDate     string
}

func (f OfferForm) Input() resources.OfferInput {
	typ := f.Type
	if typ == "" {
		typ = "percentage"
	}
	return resources.OfferInput{
		Name:        f.Name,
		Type:        typ,
		Value:       ParseFloat(f.Value),
		MinPurchase: ParseOptionalFloat(f.MinPurchase),
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
	}
}

// ShippingForm is the text of the new-zone dialog.
type ShippingForm struct {
	Zone          string
	Cost          string
	EstimatedDays string
}

func (f ShippingForm) Input() resources.ShippingInput {
	return resources.ShippingInput{
		Zone:          f.Zone,
		Cost:          ParseFloat(f.Cost),
		EstimatedDays: ParseInt(f.EstimatedDays),
	}
}

// BundleForm is the text of the new-bundle dialog.
type BundleForm struct {
	Name               string
	Description        string
	DiscountPercentage string
}

func (f BundleForm) Input() resources.BundleInput {
	return resources.BundleInput{
		Name:               f.Name,
		Description:        f.Description,
		DiscountPercentage: ParseFloat(f.DiscountPercentage),
	}
}

// ProductFields is the text of the product editor, images aside.
type ProductFields struct {
	Title        string
	Description  string
	Price        string
	ComparePrice string
	SKU          string
	Barcode      string
	Stock        string
	Weight       string
	Status       string
	Vendor       string
	ProductType  string
	Tags         string
}

func productFields(p resources.Product) ProductFields {
	status := p.Status
	if status == "" {
		status = "active"
	}
	return ProductFields{
		Title:        p.Title,
		Description:  p.Description,
		Price:        formatFloat(p.Price),
		ComparePrice: formatOptionalFloat(p.ComparePrice),
		SKU:          p.SKU,
		Barcode:      p.Barcode,
		Stock:        strconv.Itoa(p.Stock),
		Weight:       formatOptionalFloat(p.Weight),
		Status:       status,
		Vendor:       p.Vendor,
		ProductType:  p.ProductType,
		Tags:         p.Tags,
	}
}
