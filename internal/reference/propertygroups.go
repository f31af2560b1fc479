package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type PropertyGroupsTable struct {
	table
	lang  string
	names map[string]string
}

func NewPropertyGroups(log zerolog.Logger, lang string) *PropertyGroupsTable {
	return &PropertyGroupsTable{table: newTable(log, PropertyGroups), lang: lang, names: map[string]string{}}
}

func (t *PropertyGroupsTable) Parse(payload gjson.Result) *PropertyGroupsTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		name, found := localized(e.Get("names"), t.lang, "name")
		if !found || name == "" {
			name = e.Get("backendName").String()
		}
		t.names[id(e.Get("id"))] = name
	}
	return t
}

func (t *PropertyGroupsTable) Name(groupID string) (string, bool) {
	n, ok := t.names[groupID]
	return n, ok && n != ""
}

func (t *PropertyGroupsTable) Len() int { return len(t.names) }
