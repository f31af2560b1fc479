package reference

import (
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const priceTypeRRP = "rrp"

type SalesPricesTable struct {
	table
	ids   []string
	types map[string]string

	mu  sync.Mutex
	rrp []string
}

func NewSalesPrices(log zerolog.Logger) *SalesPricesTable {
	return &SalesPricesTable{table: newTable(log, SalesPrices), types: map[string]string{}}
}

func (t *SalesPricesTable) Parse(payload gjson.Result) *SalesPricesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		pid := id(e.Get("id"))
		if _, seen := t.types[pid]; !seen {
			t.ids = append(t.ids, pid)
		}
		t.types[pid] = e.Get("type").String()
	}

	t.mu.Lock()
	t.rrp = nil
	t.mu.Unlock()
	return t
}

// RRP – id cen typu "rrp" w kolejności wystąpienia, liczone raz; zwraca kopię
func (t *SalesPricesTable) RRP() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.rrp == nil {
		t.rrp = []string{}
		for _, pid := range t.ids {
			if t.types[pid] == priceTypeRRP {
				t.rrp = append(t.rrp, pid)
			}
		}
	}
	return slices.Clone(t.rrp)
}

func (t *SalesPricesTable) Type(priceID string) (string, bool) {
	v, ok := t.types[priceID]
	return v, ok
}
