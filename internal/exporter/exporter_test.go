package exporter

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/db"
	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/integrations/plentymarkets"
	"github.com/bartek5186/plentyexport/internal/product"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeShop – minimalne API sklepu: 3 produkty na dwóch stronach
func fakeShop(t *testing.T, override map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	routes := map[string]string{
		"/rest/items/units":               `{"entries":[{"id":1,"unitOfMeasurement":"C62"}],"isLastPage":true}`,
		"/rest/items/manufacturers":       `{"entries":[{"id":3,"name":"ACME"}],"isLastPage":true}`,
		"/rest/vat":                       `{"entries":[{"countryId":1,"vatRates":[{"id":0,"vatRate":19}]}],"isLastPage":true}`,
		"/rest/items/sales_prices":        `{"entries":[{"id":1,"type":"default"},{"id":2,"type":"rrp"}],"isLastPage":true}`,
		"/rest/categories":                `{"entries":[{"id":10,"details":[{"lang":"de","name":"Schuhe","nameUrl":"schuhe"}]}],"isLastPage":true}`,
		"/rest/items/attributes":          `{"entries":[{"id":1,"backendName":"color"}],"isLastPage":true}`,
		"/rest/items/attributes/1/names":  `[{"attributeId":1,"lang":"de","name":"Farbe"}]`,
		"/rest/items/attributes/1/values": `{"entries":[{"id":100,"attributeId":1,"valueNames":[{"lang":"de","name":"Rot"}]}],"isLastPage":true}`,
		"/rest/properties":                `{"entries":[],"isLastPage":true}`,
		"/rest/items/property_groups":     `{"entries":[],"isLastPage":true}`,
		"/rest/items/properties":          `{"entries":[],"isLastPage":true}`,
		"/rest/properties/selections":     `{"entries":[],"isLastPage":true}`,
		"/rest/webstores":                 `[{"id":0,"storeIdentifier":1000}]`,
		"/rest/items/1/images":            `[{"urlMiddle":"https://cdn.test/1.jpg"}]`,
		"/rest/items/2/images":            `[]`,
		"/rest/items/3/images":            `[]`,
	}
	variations := map[string]string{
		"1": `{"entries":[{"id":11,"itemId":1,"isActive":true,"number":"A-1","position":1,"vatId":0,
			"variationSalesPrices":[{"salesPriceId":1,"price":10},{"salesPriceId":2,"price":12}],
			"variationCategories":[{"categoryId":10}],"variationClients":[{"plentyId":1000}],
			"variationAttributeValues":[{"attributeId":1,"valueId":100}]}],"isLastPage":true}`,
		"2": `{"entries":[{"id":21,"itemId":2,"isActive":false,"variationCategories":[{"categoryId":10}]}],"isLastPage":true}`,
		"3": `{"entries":[{"id":31,"itemId":3,"isActive":true,"number":"C-1","variationCategories":[{"categoryId":10}],
			"variationSalesPrices":[{"salesPriceId":1,"price":5}]}],"isLastPage":true}`,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rest/login", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"accessToken":"tok"}`)
	})
	mux.HandleFunc("/rest/items", func(w http.ResponseWriter, r *http.Request) {
		if h, ok := override["/rest/items"]; ok {
			h(w, r)
			return
		}
		switch r.URL.Query().Get("page") {
		case "1":
			fmt.Fprint(w, `{"entries":[
				{"id":1,"manufacturerId":3,"createdAt":"2021-05-01T00:00:00+00:00","texts":[{"lang":"de","name1":"Schuh","urlPath":"schuhe/schuh","keywords":"lauf"}]},
				{"id":2,"texts":[{"lang":"de","name1":"Alt"}]}
			],"isLastPage":false}`)
		default:
			fmt.Fprint(w, `{"entries":[{"id":3,"texts":[{"lang":"de","name1":"Socke","urlPath":"socke"}]}],"isLastPage":true}`)
		}
	})
	mux.HandleFunc("/rest/items/variations", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, variations[r.URL.Query().Get("itemId")])
	})
	for path, body := range routes {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			if h, ok := override[path]; ok {
				h(w, r)
				return
			}
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			fmt.Fprint(w, body)
		})
	}
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(t *testing.T, srv *httptest.Server) *conf.Config {
	t.Helper()
	cfg := conf.Default()
	cfg.Source.URL = srv.URL
	cfg.Source.ItemsPerPage = 2
	cfg.Source.Retry.MaxAttempts = 1
	cfg.Export.StoreURL = "shop.test"
	cfg.Export.OutputDir = t.TempDir()
	cfg.Export.Workers = 2
	return cfg
}

func newExporter(t *testing.T, cfg *conf.Config, ledger Ledger) *Exporter {
	t.Helper()
	src, err := plentymarkets.New(zerolog.Nop(), cfg.Source)
	require.NoError(t, err)
	e := New(zerolog.Nop(), cfg, src, ledger)
	e.newID = func() string { return "run-test" }
	return e
}

func openLedger(t *testing.T) *db.Handle {
	t.Helper()
	h, err := db.Open(conf.DBConfig{Driver: "sqlite"}, t.TempDir())
	require.NoError(t, err)
	require.NoError(t, h.Migrate())
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func readRows(t *testing.T, path string) []map[string]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	r := csv.NewReader(f)
	r.Comma = '\t'
	rows, err := r.ReadAll()
	require.NoError(t, err)
	require.NotEmpty(t, rows)
	require.Equal(t, product.Columns, rows[0])

	out := make([]map[string]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := map[string]string{}
		for i, c := range rows[0] {
			m[c] = row[i]
		}
		out = append(out, m)
	}
	return out
}

func TestRunExportsValidProducts(t *testing.T) {
	srv := fakeShop(t, nil)
	cfg := testConfig(t, srv)
	ledger := openLedger(t)

	st, err := newExporter(t, cfg, ledger).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, st.Seen)
	assert.Equal(t, 2, st.Exported)
	assert.Equal(t, map[string]string{"2": "no_variation"}, st.Skipped)

	rows := readRows(t, filepath.Join(cfg.Export.OutputDir, cfg.Export.OutputFile))
	require.Len(t, rows, 2)

	first := rows[0]
	assert.Equal(t, "1", first["id"])
	assert.Equal(t, "Schuh", first["name"])
	assert.Equal(t, "A-1|11|1", first["ordernumber"])
	assert.Equal(t, "10.00", first["price"])
	assert.Equal(t, "12.00", first["instead"])
	assert.Equal(t, "19.00", first["taxrate"])
	assert.Equal(t, "https://shop.test/schuhe/schuh/a-1", first["url"])
	assert.Equal(t, "https://cdn.test/1.jpg", first["image"])
	assert.Equal(t, "vendor=ACME&cat=Schuhe&cat_url=%2Fschuhe%2F&Farbe=Rot", first["attributes"])
	assert.Equal(t, "lauf", first["keywords"])
	assert.Equal(t, "0_", first["groups"])
	assert.Equal(t, "1619827200", first["date_added"])

	assert.Equal(t, "3", rows[1]["id"])
	assert.Equal(t, "5.00", rows[1]["price"])

	run, err := ledger.Run("run-test")
	require.NoError(t, err)
	assert.Equal(t, db.RunDone, run.Status)
	assert.Equal(t, 2, run.ProductsExported)
	assert.Equal(t, 1, run.ProductsSkipped)

	skipped, err := ledger.SkippedFor("run-test")
	require.NoError(t, err)
	require.Len(t, skipped, 1)
	assert.Equal(t, "2", skipped[0].ItemID)

	last, ok := ledger.GetKV(db.KeyLastSuccessfulRun)
	assert.True(t, ok)
	assert.Equal(t, "run-test", last)
}

func TestRunOptionalReferenceDegrades(t *testing.T) {
	srv := fakeShop(t, map[string]http.HandlerFunc{
		"/rest/webstores": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	cfg := testConfig(t, srv)

	st, err := newExporter(t, cfg, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, st.Exported)

	rows := readRows(t, cfg.OutputPath())
	assert.Empty(t, rows[0]["groups"])
}

func TestRunMissingAttributesIsFatal(t *testing.T) {
	srv := fakeShop(t, map[string]http.HandlerFunc{
		"/rest/items/attributes": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
	})
	cfg := testConfig(t, srv)
	ledger := openLedger(t)

	_, err := newExporter(t, cfg, ledger).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrReference))
	assert.True(t, errs.IsFatal(err))

	_, statErr := os.Stat(cfg.OutputPath())
	assert.True(t, os.IsNotExist(statErr))

	run, err := ledger.Run("run-test")
	require.NoError(t, err)
	assert.Equal(t, db.RunError, run.Status)
	_, ok := ledger.GetKV(db.KeyLastSuccessfulRun)
	assert.False(t, ok)
}

func TestRunLoginFailure(t *testing.T) {
	srv := fakeShop(t, nil)
	cfg := testConfig(t, srv)
	cfg.Source.URL = srv.URL + "/missing"

	_, err := newExporter(t, cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrAuthentication))
}

func TestRunProductPageErrorKeepsPreviousFile(t *testing.T) {
	srv := fakeShop(t, map[string]http.HandlerFunc{
		"/rest/items": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
	})
	cfg := testConfig(t, srv)
	require.NoError(t, os.WriteFile(cfg.OutputPath(), []byte("previous"), 0o644))

	_, err := newExporter(t, cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, errs.ErrHTTPResponse))

	data, err := os.ReadFile(cfg.OutputPath())
	require.NoError(t, err)
	assert.Equal(t, "previous", string(data))
}
