package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// StoresTable: plentyId (identyfikator sklepu) -> wewnętrzne id webstore
type StoresTable struct {
	table
	ids map[string]string
}

func NewStores(log zerolog.Logger) *StoresTable {
	return &StoresTable{table: newTable(log, Stores), ids: map[string]string{}}
}

func (t *StoresTable) Parse(payload gjson.Result) *StoresTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		plentyID := id(e.Get("storeIdentifier"))
		if plentyID == "" {
			continue
		}
		t.ids[plentyID] = id(e.Get("id"))
	}
	return t
}

func (t *StoresTable) ID(plentyID string) (string, bool) {
	v, ok := t.ids[plentyID]
	return v, ok
}

func (t *StoresTable) Len() int { return len(t.ids) }
