package reference

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// IsMultiSelection – "multiSelection" albo "multi-selection"
func IsMultiSelection(cast string) bool {
	return strings.EqualFold(strings.ReplaceAll(cast, "-", ""), "multiselection")
}

// PropertySelectionsTable: id cechy -> id opcji -> wartość w języku.
// Tylko cechy wielokrotnego wyboru, zwykły wybór jest w danych wariantu.
type PropertySelectionsTable struct {
	table
	lang   string
	values map[string]map[string]string
}

func NewPropertySelections(log zerolog.Logger, lang string) *PropertySelectionsTable {
	return &PropertySelectionsTable{
		table:  newTable(log, PropertySelections),
		lang:   lang,
		values: map[string]map[string]string{},
	}
}

func (t *PropertySelectionsTable) Parse(payload gjson.Result) *PropertySelectionsTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		if !IsMultiSelection(e.Get("property.cast").String()) {
			continue
		}
		value, found := localized(e.Get("relation.relationValues"), t.lang, "value")
		if !found {
			continue
		}
		pid := id(e.Get("propertyId"))
		byID, ok := t.values[pid]
		if !ok {
			byID = map[string]string{}
			t.values[pid] = byID
		}
		byID[id(e.Get("id"))] = value
	}
	return t
}

func (t *PropertySelectionsTable) Value(propertyID, selectionID string) (string, bool) {
	v, ok := t.values[propertyID][selectionID]
	return v, ok
}

func (t *PropertySelectionsTable) Len() int { return len(t.values) }
