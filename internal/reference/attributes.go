package reference

import (
	"sort"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

type attribute struct {
	name       string
	translated bool
	values     map[string]string
}

// AttributesTable – atrybuty wariantów z wartościami.
// Budowa w trzech krokach: ParseAttributes, ParseNames, ParseValues.
type AttributesTable struct {
	table
	lang  string
	attrs map[string]*attribute
}

func NewAttributes(log zerolog.Logger, lang string) *AttributesTable {
	return &AttributesTable{table: newTable(log, Attributes), lang: lang, attrs: map[string]*attribute{}}
}

// ParseAttributes – id -> backendName
func (t *AttributesTable) ParseAttributes(payload gjson.Result) *AttributesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		aid := id(e.Get("id"))
		if _, exists := t.attrs[aid]; exists {
			continue
		}
		t.attrs[aid] = &attribute{name: e.Get("backendName").String(), values: map[string]string{}}
	}
	return t
}

// ParseNames nadpisuje nazwę tłumaczeniem w skonfigurowanym języku (pierwsze trafienie)
func (t *AttributesTable) ParseNames(payload gjson.Result) *AttributesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		a, known := t.attrs[id(e.Get("attributeId"))]
		if !known || a.translated || !sameLang(e.Get("lang").String(), t.lang) {
			continue
		}
		if name := e.Get("name").String(); name != "" {
			a.name = name
			a.translated = true
		}
	}
	return t
}

// ParseValues – wartości atrybutu (with=names), nazwa w języku albo backendName
func (t *AttributesTable) ParseValues(payload gjson.Result) *AttributesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		a, known := t.attrs[id(e.Get("attributeId"))]
		if !known {
			continue
		}
		name, found := localized(e.Get("valueNames"), t.lang, "name")
		if !found || name == "" {
			name = e.Get("backendName").String()
		}
		a.values[id(e.Get("id"))] = name
	}
	return t
}

// Exists: atrybut znany i (gdy podano valueID) wartość znana pod nim
func (t *AttributesTable) Exists(attrID, valueID string) bool {
	a, ok := t.attrs[attrID]
	if !ok {
		return false
	}
	if valueID == NoValue {
		return true
	}
	_, ok = a.values[valueID]
	return ok
}

func (t *AttributesTable) Name(attrID string) (string, bool) {
	a, ok := t.attrs[attrID]
	if !ok {
		return "", false
	}
	return a.name, true
}

func (t *AttributesTable) Value(attrID, valueID string) (string, bool) {
	a, ok := t.attrs[attrID]
	if !ok {
		return "", false
	}
	v, ok := a.values[valueID]
	return v, ok
}

// IDs – znane id atrybutów, posortowane (do pobierania nazw i wartości)
func (t *AttributesTable) IDs() []string {
	out := make([]string, 0, len(t.attrs))
	for k := range t.attrs {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (t *AttributesTable) Len() int { return len(t.attrs) }
