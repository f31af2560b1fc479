package product

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bartek5186/plentyexport/internal/reference"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// shouldProcessVariation: aktywny, widoczny, nie wygasły, dostępny
func (b *Builder) shouldProcessVariation(v gjson.Result) (bool, string) {
	if !v.Get("isActive").Bool() {
		return false, "inactive"
	}
	if vis := v.Get("automaticListVisibility"); vis.Exists() && vis.Type != gjson.Null && vis.Int() < 1 {
		return false, "hidden"
	}
	if until := v.Get("availableUntil").String(); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil && t.Before(b.now()) {
			return false, "expired"
		}
	}
	if b.blocked[id(v.Get("availability"))] {
		return false, "unavailable"
	}
	return true, ""
}

func (p *build) variation(v gjson.Result) {
	vid := id(v.Get("id"))
	if p.rec.VariationID == "" {
		p.rec.VariationID = vid
	}

	p.sortPosition(v)
	p.taxRate(v)
	p.identifiers(v)
	p.categories(v)
	p.storeGroups(v)
	p.prices(v, vid)
	p.variationAttributes(v)
	p.unit(v)
	p.itemProperties(v)
	p.characteristics(v)
	p.variationTags(v)
	p.variationImage(v)
}

func (p *build) sortPosition(v gjson.Result) {
	if !p.sortSet || v.Get("isMain").Bool() {
		p.rec.Sort = id(v.Get("position"))
		p.sortSet = true
	}
}

func (p *build) taxRate(v gjson.Result) {
	if p.refs.vat == nil {
		p.log.Debug().Msg("brak tabeli VAT")
		return
	}
	vatID := id(v.Get("vatId"))
	rate, ok := p.refs.vat.Rate(vatID)
	if !ok {
		p.log.Debug().Str("vat_id", vatID).Msg("nieznana stawka VAT")
		return
	}
	p.rec.TaxRate = decimal.NewNullDecimal(rate)
}

// identifiers: numer, model, id, itemId i kody kreskowe, bez duplikatów
func (p *build) identifiers(v gjson.Result) {
	p.addOrderNumber(v.Get("number"))
	p.addOrderNumber(v.Get("model"))
	p.addOrderNumber(v.Get("id"))
	p.addOrderNumber(v.Get("itemId"))
	for _, bc := range v.Get("variationBarcodes").Array() {
		p.addOrderNumber(bc.Get("code"))
	}
}

func (p *build) addOrderNumber(r gjson.Result) {
	s := strings.TrimSpace(r.String())
	if s == "" || s == p.cfg.DefaultEmpty || p.seenNumbers[s] {
		return
	}
	p.seenNumbers[s] = true
	p.rec.OrderNumbers = append(p.rec.OrderNumbers, s)
}

func (p *build) categories(v gjson.Result) {
	if p.refs.categories == nil {
		p.log.Debug().Msg("brak tabeli kategorii")
		return
	}
	for _, c := range v.Get("variationCategories").Array() {
		cid := id(c.Get("categoryId"))
		names, urlPath, ok := p.refs.categories.Path(cid)
		if !ok {
			p.log.Debug().Str("category_id", cid).Msg("nieznana kategoria")
			continue
		}
		if names != p.cfg.DefaultEmpty {
			p.rec.Attributes.Add(AttrCategory, names)
		}
		if urlPath != p.cfg.DefaultEmpty {
			p.rec.Attributes.Add(AttrCategoryURL, urlPath)
		}
	}
}

// storeGroups: plentyId klienta -> id sklepu z sufiksem "_"
func (p *build) storeGroups(v gjson.Result) {
	if p.refs.stores == nil {
		return
	}
	for _, c := range v.Get("variationClients").Array() {
		sid, ok := p.refs.stores.ID(id(c.Get("plentyId")))
		if !ok {
			continue
		}
		g := sid + "_"
		if !p.seenGroups[g] {
			p.seenGroups[g] = true
			p.groups = append(p.groups, g)
		}
	}
}

// prices: najniższa niezerowa cena sprzedaży (remis: pierwsza zostaje),
// instead = ostatnia cena RRP, maxprice = najwyższa cena sprzedaży
func (p *build) prices(v gjson.Result, vid string) {
	for _, sp := range v.Get("variationSalesPrices").Array() {
		price, err := decimal.NewFromString(strings.TrimSpace(sp.Get("price").String()))
		if err != nil || price.IsZero() {
			continue
		}
		pid := id(sp.Get("salesPriceId"))

		if pid == p.cfg.SellingPriceID {
			if !p.rec.Price.Valid || price.LessThan(p.rec.Price.Decimal) {
				p.rec.Price = decimal.NewNullDecimal(price)
				p.rec.PriceID = pid
				p.rec.VariationID = vid
			}
			if !p.rec.MaxPrice.Valid || price.GreaterThan(p.rec.MaxPrice.Decimal) {
				p.rec.MaxPrice = decimal.NewNullDecimal(price)
			}
		}
		if p.isRRP(pid) {
			p.rec.Instead = decimal.NewNullDecimal(price)
		}
	}
}

// isRRP: skonfigurowane id, a bez niego ceny typu rrp z tabeli
func (p *build) isRRP(priceID string) bool {
	if p.cfg.RRPPriceID != "" {
		return priceID == p.cfg.RRPPriceID
	}
	if p.refs.salesPrices == nil {
		return false
	}
	return slices.Contains(p.refs.salesPrices.RRP(), priceID)
}

// variationAttributes: tylko gdy znany atrybut i jego wartość
func (p *build) variationAttributes(v gjson.Result) {
	attrs := p.refs.attributes
	if attrs == nil {
		return
	}
	for _, av := range v.Get("variationAttributeValues").Array() {
		aid, valID := id(av.Get("attributeId")), id(av.Get("valueId"))
		if valID == reference.NoValue || !attrs.Exists(aid, valID) {
			p.log.Debug().Str("attribute_id", aid).Str("value_id", valID).Msg("nieznany atrybut")
			continue
		}
		name, _ := attrs.Name(aid)
		value, _ := attrs.Value(aid, valID)
		p.rec.Attributes.Add(name, value)
	}
}

func (p *build) unit(v gjson.Result) {
	u := v.Get("unit")
	if !u.Exists() {
		return
	}
	p.rec.PackageSize = strings.TrimSpace(u.Get("content").String())
	if p.refs.units == nil {
		return
	}
	if code, ok := p.refs.units.Code(id(u.Get("unitId"))); ok {
		p.rec.BaseUnit = code
	}
}

func (p *build) variationTags(v gjson.Result) {
	lang := strings.ToLower(p.cfg.Language)
	for _, t := range v.Get("tags").Array() {
		if t.Get("tagType").String() != "variation" {
			continue
		}
		name := t.Get("tag.tagName").String()
		for _, n := range t.Get("tag.names").Array() {
			// porównanie tylko z lowercase, tak przychodzi z API
			if n.Get("tagLang").String() == lang {
				name = n.Get("tagName").String()
				break
			}
		}
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		p.tags = append(p.tags, name)
	}
}

func (p *build) variationImage(v gjson.Result) {
	if p.rec.Image != "" {
		return
	}
	for _, img := range v.Get("images").Array() {
		if u := strings.TrimSpace(img.Get("urlMiddle").String()); u != "" {
			p.rec.Image = u
			return
		}
	}
}

func id(r gjson.Result) string {
	return strings.TrimSpace(r.String())
}

func sameLang(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func itoa(n int64) string {
	return strconv.FormatInt(n, 10)
}
