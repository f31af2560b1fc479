// Package product spłaszcza produkt i jego warianty do jednego rekordu eksportu.
package product

import (
	"strings"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/reference"
	"github.com/bartek5186/plentyexport/internal/registry"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// klucze atrybutów ustawiane przez builder
const (
	AttrCategory    = "cat"
	AttrCategoryURL = "cat_url"
	AttrVendor      = "vendor"
)

type Config struct {
	Language              string
	SellingPriceID        string
	RRPPriceID            string
	NameField             int
	URLPrefix             string
	AvailabilityBlocklist []string
	DefaultEmpty          string
	StoreURL              string
	Protocol              string
	PlentyID              string
}

func ConfigFrom(e conf.ExportConfig) Config {
	return Config{
		Language:              e.Language,
		SellingPriceID:        e.SellingPriceID,
		RRPPriceID:            e.RRPPriceID,
		NameField:             e.ProductNameField,
		URLPrefix:             e.ProductURLPrefix,
		AvailabilityBlocklist: e.AvailabilityBlocklist,
		DefaultEmpty:          e.DefaultEmptyValue,
		StoreURL:              e.StoreURL,
		Protocol:              e.Protocol,
		PlentyID:              e.PlentyID,
	}
}

// Input – surowe dane jednego produktu
type Input struct {
	Item       gjson.Result
	Variations []gjson.Result
	Images     gjson.Result
}

// State – stan końcowy budowania
type State int

const (
	Valid State = iota
	SkippedNoVariation
	SkippedNoCategory
)

func (s State) String() string {
	switch s {
	case Valid:
		return "valid"
	case SkippedNoVariation:
		return "no_variation"
	case SkippedNoCategory:
		return "no_category"
	}
	return "unknown"
}

func (s State) Skipped() bool { return s != Valid }

// tabele z rejestru; nil = brak w sklepie
type tables struct {
	units         *reference.UnitsTable
	manufacturers *reference.ManufacturersTable
	vat           *reference.VatTable
	salesPrices   *reference.SalesPricesTable
	categories    *reference.CategoriesTable
	attributes    *reference.AttributesTable
	itemProps     *reference.ItemPropertiesTable
	groups        *reference.PropertyGroupsTable
	properties    *reference.PropertiesTable
	selections    *reference.PropertySelectionsTable
	stores        *reference.StoresTable
}

// Builder jest bezstanowy między produktami, można go używać z wielu gorutyn
type Builder struct {
	cfg     Config
	log     zerolog.Logger
	refs    tables
	blocked map[string]bool
	now     func() time.Time
}

func NewBuilder(cfg Config, refs registry.Resolver, log zerolog.Logger) *Builder {
	b := &Builder{
		cfg:     cfg,
		log:     log,
		blocked: map[string]bool{},
		now:     time.Now,
	}
	if b.cfg.NameField < 1 || b.cfg.NameField > 3 {
		b.cfg.NameField = 1
	}
	for _, a := range cfg.AvailabilityBlocklist {
		b.blocked[strings.TrimSpace(a)] = true
	}

	b.refs.units, _ = registry.Lookup[*reference.UnitsTable](refs, reference.Units.Key())
	b.refs.manufacturers, _ = registry.Lookup[*reference.ManufacturersTable](refs, reference.Manufacturers.Key())
	b.refs.vat, _ = registry.Lookup[*reference.VatTable](refs, reference.Vat.Key())
	b.refs.salesPrices, _ = registry.Lookup[*reference.SalesPricesTable](refs, reference.SalesPrices.Key())
	b.refs.categories, _ = registry.Lookup[*reference.CategoriesTable](refs, reference.Categories.Key())
	b.refs.attributes, _ = registry.Lookup[*reference.AttributesTable](refs, reference.Attributes.Key())
	b.refs.itemProps, _ = registry.Lookup[*reference.ItemPropertiesTable](refs, reference.ItemProperties.Key())
	b.refs.groups, _ = registry.Lookup[*reference.PropertyGroupsTable](refs, reference.PropertyGroups.Key())
	b.refs.properties, _ = registry.Lookup[*reference.PropertiesTable](refs, reference.Properties.Key())
	b.refs.selections, _ = registry.Lookup[*reference.PropertySelectionsTable](refs, reference.PropertySelections.Key())
	b.refs.stores, _ = registry.Lookup[*reference.StoresTable](refs, reference.Stores.Key())
	return b
}

// build – stan jednego produktu, porzucany po Build
type build struct {
	*Builder
	log zerolog.Logger
	rec Record

	hasValidData bool
	sortSet      bool
	seenNumbers  map[string]bool
	groups       []string
	seenGroups   map[string]bool
	tags         []string
}

// Build składa rekord produktu. Rekord ma sens tylko gdy State == Valid.
func (b *Builder) Build(in Input) (Record, State) {
	itemID := id(in.Item.Get("id"))
	p := &build{
		Builder: b,
		log:     b.log.With().Str("item_id", itemID).Logger(),
		rec: Record{
			ID:         itemID,
			Attributes: NewAttributes(),
		},
		seenNumbers: map[string]bool{},
		seenGroups:  map[string]bool{},
	}

	p.initial(in.Item)
	for _, v := range in.Variations {
		if ok, reason := b.shouldProcessVariation(v); !ok {
			p.log.Debug().Str("variation_id", id(v.Get("id"))).Str("reason", reason).Msg("wariant pominięty")
			continue
		}
		p.hasValidData = true
		p.variation(v)
	}
	p.itemImages(in.Images)
	p.texts(in.Item)

	p.rec.Groups = strings.Join(p.groups, ListSeparator)
	return p.rec, p.state()
}

func (p *build) state() State {
	if !p.hasValidData {
		return SkippedNoVariation
	}
	for _, c := range p.rec.Attributes.Values(AttrCategory) {
		if c != "" && c != p.cfg.DefaultEmpty {
			return Valid
		}
	}
	return SkippedNoCategory
}

// initial: id, data dodania, producent
func (p *build) initial(item gjson.Result) {
	if created := item.Get("createdAt").String(); created != "" {
		if t, err := time.Parse(time.RFC3339, created); err == nil {
			p.rec.DateAdded = itoa(t.Unix())
		} else {
			p.log.Debug().Str("createdAt", created).Msg("nieczytelna data dodania")
		}
	}
	p.rec.MainVariationID = id(item.Get("mainVariationId"))

	mid := id(item.Get("manufacturerId"))
	if mid == "" || mid == "0" {
		return
	}
	if p.refs.manufacturers == nil {
		p.log.Debug().Msg("brak tabeli producentów")
		return
	}
	if name, ok := p.refs.manufacturers.Name(mid); ok {
		p.rec.Attributes.Add(AttrVendor, name)
	}
}

// texts: blok tekstów w skonfigurowanym języku
func (p *build) texts(item gjson.Result) {
	var block gjson.Result
	for _, t := range item.Get("texts").Array() {
		if sameLang(t.Get("lang").String(), p.cfg.Language) {
			block = t
			break
		}
	}

	keywords := ""
	if block.Exists() {
		p.rec.Name = block.Get("name" + itoa(int64(p.cfg.NameField))).String()
		p.rec.Summary = block.Get("shortDescription").String()
		p.rec.Description = block.Get("description").String()
		keywords = strings.TrimSpace(block.Get("keywords").String())
	} else {
		p.log.Debug().Str("lang", p.cfg.Language).Msg("brak tekstów w języku")
	}
	p.rec.URL = p.productURL(block.Get("urlPath"), p.rec.ID)

	parts := make([]string, 0, len(p.tags)+1)
	if keywords != "" {
		parts = append(parts, keywords)
	}
	parts = append(parts, p.tags...)
	p.rec.Keywords = strings.Join(parts, ListSeparator)
}

// itemImages – obrazy produktu, gdy żaden wariant nie dał obrazka
func (p *build) itemImages(images gjson.Result) {
	if p.rec.Image != "" {
		return
	}
	list := images.Array()
	if e := images.Get("entries"); e.IsArray() {
		list = e.Array()
	}
	for _, img := range list {
		if u := strings.TrimSpace(img.Get("urlMiddle").String()); u != "" {
			p.rec.Image = u
			return
		}
	}
}
