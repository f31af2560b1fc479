package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// UnitsTable: id jednostki -> kod ISO
type UnitsTable struct {
	table
	codes map[string]string
}

func NewUnits(log zerolog.Logger) *UnitsTable {
	return &UnitsTable{table: newTable(log, Units), codes: map[string]string{}}
}

func (t *UnitsTable) Parse(payload gjson.Result) *UnitsTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		t.codes[id(e.Get("id"))] = e.Get("unitOfMeasurement").String()
	}
	return t
}

func (t *UnitsTable) Code(unitID string) (string, bool) {
	c, ok := t.codes[unitID]
	return c, ok && c != ""
}

func (t *UnitsTable) Len() int { return len(t.codes) }
