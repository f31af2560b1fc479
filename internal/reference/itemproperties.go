package reference

import (
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// typ właściwości bez wartości: nazwa grupy -> nazwa właściwości
const PropertyTypeEmpty = "empty"

// ItemProperty – definicja właściwości (v1, /rest/items/properties)
type ItemProperty struct {
	ID          string
	BackendName string
	Name        string
	ValueType   string
	Searchable  bool
	GroupID     string
}

type ItemPropertiesTable struct {
	table
	lang  string
	props map[string]ItemProperty
}

func NewItemProperties(log zerolog.Logger, lang string) *ItemPropertiesTable {
	return &ItemPropertiesTable{table: newTable(log, ItemProperties), lang: lang, props: map[string]ItemProperty{}}
}

func (t *ItemPropertiesTable) Parse(payload gjson.Result) *ItemPropertiesTable {
	list, ok := t.entries(payload)
	if !ok {
		return t
	}
	for _, e := range list {
		p := ItemProperty{
			ID:          id(e.Get("id")),
			BackendName: e.Get("backendName").String(),
			ValueType:   e.Get("valueType").String(),
			Searchable:  e.Get("isSearchable").Bool(),
			GroupID:     id(e.Get("propertyGroupId")),
		}
		if p.GroupID == "0" {
			p.GroupID = ""
		}
		p.Name = p.BackendName
		if n, found := localized(e.Get("names"), t.lang, "name"); found && n != "" {
			p.Name = n
		}
		t.props[p.ID] = p
	}
	return t
}

func (t *ItemPropertiesTable) Get(propertyID string) (ItemProperty, bool) {
	p, ok := t.props[propertyID]
	return p, ok
}

func (t *ItemPropertiesTable) Len() int { return len(t.props) }
