package reference

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
)

// DefaultCountryID – kraj używany gdy kodu ISO nie ma w tabeli
const DefaultCountryID = "1"

// ISO 3166 alpha-2 -> id kraju w plentymarkets
var countryIDs = map[string]string{
	"DE": "1", "AT": "2", "BE": "3", "CH": "4", "CY": "5", "CZ": "6",
	"DK": "7", "ES": "8", "EE": "9", "FR": "10", "FI": "11", "GB": "12",
	"GR": "13", "HU": "14", "IT": "15", "IE": "16", "LU": "17", "LV": "18",
	"MT": "19", "NO": "20", "NL": "21", "PT": "22", "PL": "23", "SE": "24",
	"SG": "25", "SK": "26", "SI": "27", "US": "28", "AU": "29", "CA": "30",
	"CN": "31", "JP": "32", "LT": "33", "LI": "34", "MC": "35", "MX": "36",
	"RO": "47", "RU": "48", "BG": "49", "HR": "58", "TR": "197", "UA": "199",
}

func CountryID(iso string) string {
	if cid, ok := countryIDs[strings.ToUpper(strings.TrimSpace(iso))]; ok {
		return cid
	}
	return DefaultCountryID
}

// VatTable: kraj -> id stawki -> stawka
type VatTable struct {
	table
	countryID string
	rates     map[string]map[string]decimal.Decimal
}

func NewVat(log zerolog.Logger, isoCountry string) *VatTable {
	return &VatTable{
		table:     newTable(log, Vat),
		countryID: CountryID(isoCountry),
		rates:     map[string]map[string]decimal.Decimal{},
	}
}

func (t *VatTable) Parse(payload gjson.Result) *VatTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		cid := id(e.Get("countryId"))
		byID, ok := t.rates[cid]
		if !ok {
			byID = map[string]decimal.Decimal{}
			t.rates[cid] = byID
		}
		for _, r := range e.Get("vatRates").Array() {
			rate, err := decimal.NewFromString(r.Get("vatRate").String())
			if err != nil {
				t.log.Debug().Err(err).Str("vat_id", r.Get("id").String()).Msg("nieczytelna stawka")
				continue
			}
			byID[id(r.Get("id"))] = rate
		}
	}
	return t
}

// Rate – stawka dla skonfigurowanego kraju
func (t *VatTable) Rate(vatID string) (decimal.Decimal, bool) {
	return t.RateFor(t.countryID, vatID)
}

func (t *VatTable) RateFor(countryID, vatID string) (decimal.Decimal, bool) {
	r, ok := t.rates[countryID][vatID]
	return r, ok
}

func (t *VatTable) CountryID() string { return t.countryID }
