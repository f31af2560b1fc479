package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Property – cecha (v2, /rest/properties)
type Property struct {
	ID   string
	Name string
	Cast string
}

type PropertiesTable struct {
	table
	lang  string
	props map[string]Property
}

func NewProperties(log zerolog.Logger, lang string) *PropertiesTable {
	return &PropertiesTable{table: newTable(log, Properties), lang: lang, props: map[string]Property{}}
}

func (t *PropertiesTable) Parse(payload gjson.Result) *PropertiesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		p := Property{ID: id(e.Get("id")), Cast: e.Get("cast").String()}
		if n, found := localized(e.Get("names"), t.lang, "name"); found {
			p.Name = n
		}
		t.props[p.ID] = p
	}
	return t
}

func (t *PropertiesTable) Get(propertyID string) (Property, bool) {
	p, ok := t.props[propertyID]
	return p, ok
}

func (t *PropertiesTable) Len() int { return len(t.props) }
