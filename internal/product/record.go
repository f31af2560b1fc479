package product

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Columns – stała kolejność kolumn pliku eksportu
var Columns = []string{
	"id", "ordernumber", "name", "summary", "description",
	"price", "instead", "maxprice", "taxrate",
	"url", "image", "attributes", "keywords", "groups",
	"bonus", "sales_frequency", "date_added", "sort",
	"main_variation_id", "variation_id", "base_unit", "package_size", "price_id",
}

// separatory pól wielowartościowych
const (
	OrderNumberSeparator = "|"
	ListSeparator        = ","
)

// Record – kanoniczny rekord jednego produktu
type Record struct {
	ID           string
	OrderNumbers []string
	Name         string
	Summary      string
	Description  string

	Price    decimal.NullDecimal
	Instead  decimal.NullDecimal
	MaxPrice decimal.NullDecimal
	TaxRate  decimal.NullDecimal
	PriceID  string

	URL        string
	Image      string
	Attributes *Attributes
	Keywords   string
	Groups     string

	Bonus          int
	SalesFrequency int
	DateAdded      string
	Sort           string

	MainVariationID string
	VariationID     string
	BaseUnit        string
	PackageSize     string
}

// Values – wartości w kolejności Columns
func (r Record) Values() []string {
	attrs := ""
	if r.Attributes != nil {
		attrs = r.Attributes.Encode()
	}
	return []string{
		r.ID,
		strings.Join(r.OrderNumbers, OrderNumberSeparator),
		r.Name,
		r.Summary,
		r.Description,
		money(r.Price),
		money(r.Instead),
		money(r.MaxPrice),
		money(r.TaxRate),
		r.URL,
		r.Image,
		attrs,
		r.Keywords,
		r.Groups,
		strconv.Itoa(r.Bonus),
		strconv.Itoa(r.SalesFrequency),
		r.DateAdded,
		r.Sort,
		r.MainVariationID,
		r.VariationID,
		r.BaseUnit,
		r.PackageSize,
		r.PriceID,
	}
}

// Map – rekord jako kolumna -> wartość
func (r Record) Map() map[string]string {
	vals := r.Values()
	out := make(map[string]string, len(Columns))
	for i, c := range Columns {
		out[c] = vals[i]
	}
	return out
}

func money(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.StringFixed(2)
}
