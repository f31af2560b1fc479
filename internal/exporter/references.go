package exporter

import (
	"context"
	"net/url"

	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/reference"
	"github.com/bartek5186/plentyexport/internal/registry"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type loader func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error)

// statyczne mapowanie rodzaj -> pobranie i parsowanie
var loaders = map[reference.Kind]loader{
	reference.Units: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewUnits(log)
		return t, e.pages(ctx, "/rest/items/units", nil, func(p gjson.Result) { t.Parse(p) })
	},
	reference.Manufacturers: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewManufacturers(log)
		return t, e.pages(ctx, "/rest/items/manufacturers", nil, func(p gjson.Result) { t.Parse(p) })
	},
	reference.Vat: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewVat(log, e.cfg.Export.TaxCountry)
		return t, e.pages(ctx, "/rest/vat", nil, func(p gjson.Result) { t.Parse(p) })
	},
	reference.SalesPrices: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewSalesPrices(log)
		return t, e.pages(ctx, "/rest/items/sales_prices", nil, func(p gjson.Result) { t.Parse(p) })
	},
	reference.Categories: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewCategories(log, e.cfg.Export.Language, e.cfg.Export.PlentyID)
		q := url.Values{"type": {"item"}, "with": {"details"}}
		return t, e.pages(ctx, "/rest/categories", q, func(p gjson.Result) { t.Parse(p) })
	},
	reference.Attributes: loadAttributes,
	reference.Properties: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewProperties(log, e.cfg.Export.Language)
		q := url.Values{"with": {"names"}}
		return t, e.pages(ctx, "/rest/properties", q, func(p gjson.Result) { t.Parse(p) })
	},
	reference.PropertyGroups: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewPropertyGroups(log, e.cfg.Export.Language)
		q := url.Values{"with": {"names"}}
		return t, e.pages(ctx, "/rest/items/property_groups", q, func(p gjson.Result) { t.Parse(p) })
	},
	reference.ItemProperties: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewItemProperties(log, e.cfg.Export.Language)
		q := url.Values{"with": {"names"}}
		return t, e.pages(ctx, "/rest/items/properties", q, func(p gjson.Result) { t.Parse(p) })
	},
	reference.PropertySelections: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewPropertySelections(log, e.cfg.Export.Language)
		q := url.Values{"with": {"property,relation"}}
		return t, e.pages(ctx, "/rest/properties/selections", q, func(p gjson.Result) { t.Parse(p) })
	},
	reference.Stores: func(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
		t := reference.NewStores(log)
		res, err := e.src.Get(ctx, "/rest/webstores", nil)
		if err != nil {
			return nil, err
		}
		return t.Parse(res), nil
	},
}

// loadAttributes: lista, potem nazwy i wartości każdego atrybutu
func loadAttributes(ctx context.Context, e *Exporter, log zerolog.Logger) (any, error) {
	t := reference.NewAttributes(log, e.cfg.Export.Language)
	if err := e.pages(ctx, "/rest/items/attributes", nil, func(p gjson.Result) { t.ParseAttributes(p) }); err != nil {
		return nil, err
	}

	for _, aid := range t.IDs() {
		base := "/rest/items/attributes/" + aid
		names, err := e.src.Get(ctx, base+"/names", nil)
		if err == nil {
			t.ParseNames(names)
		} else if errs.IsFatal(err) || ctx.Err() != nil {
			return nil, err
		} else {
			log.Warn().Err(err).Str("attribute_id", aid).Msg("brak nazw atrybutu, zostaje backendName")
		}

		err = e.pages(ctx, base+"/values", url.Values{"with": {"names"}}, func(p gjson.Result) { t.ParseValues(p) })
		if err != nil {
			if errs.IsFatal(err) || ctx.Err() != nil {
				return nil, err
			}
			log.Warn().Err(err).Str("attribute_id", aid).Msg("brak wartości atrybutu")
		}
	}
	return t, nil
}

func (e *Exporter) pages(ctx context.Context, path string, q url.Values, parse func(gjson.Result)) error {
	return e.src.Paginate(ctx, path, q, func(page gjson.Result) error {
		parse(page)
		return nil
	})
}

// loadReferences – sekwencyjnie, wszystkie tabele przed pętlą produktów.
// Brak tabeli obowiązkowej przerywa przebieg, pozostałe zostają niezarejestrowane.
func (e *Exporter) loadReferences(ctx context.Context, log zerolog.Logger) (*registry.Registry, error) {
	reg := registry.New()
	for _, kind := range reference.All() {
		load, ok := loaders[kind]
		if !ok {
			continue
		}
		klog := log.With().Str("reference", kind.Key()).Logger()
		table, err := load(ctx, e, klog)
		if err != nil {
			if kind.Mandatory() {
				return nil, errs.Wrap(err, errs.ErrReference, kind.Key())
			}
			if errs.IsFatal(err) || ctx.Err() != nil {
				return nil, err
			}
			klog.Warn().Err(err).Msg("tabela niedostępna, pomijam")
			continue
		}
		reg.Set(kind.Key(), table)
		klog.Debug().Msg("załadowano")
	}
	return reg, nil
}
