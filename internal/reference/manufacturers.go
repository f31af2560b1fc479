package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type ManufacturersTable struct {
	table
	names map[string]string
}

func NewManufacturers(log zerolog.Logger) *ManufacturersTable {
	return &ManufacturersTable{table: newTable(log, Manufacturers), names: map[string]string{}}
}

func (t *ManufacturersTable) Parse(payload gjson.Result) *ManufacturersTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		name := e.Get("name").String()
		if name == "" {
			name = e.Get("externalName").String()
		}
		t.names[id(e.Get("id"))] = name
	}
	return t
}

func (t *ManufacturersTable) Name(manufacturerID string) (string, bool) {
	n, ok := t.names[manufacturerID]
	return n, ok && n != ""
}

func (t *ManufacturersTable) Len() int { return len(t.names) }
