package product

import (
	"strings"

	"github.com/bartek5186/plentyexport/internal/reference"
	"github.com/tidwall/gjson"
)

// typy wartości cech v1
const (
	valueText      = "text"
	valueSelection = "selection"
	valueInt       = "int"
	valueFloat     = "float"
)

// itemProperties – wyszukiwalne właściwości wariantu (v1)
func (p *build) itemProperties(v gjson.Result) {
	if p.refs.itemProps == nil {
		return
	}
	for _, vp := range v.Get("variationProperties").Array() {
		pid := id(vp.Get("propertyId"))
		def, ok := p.refs.itemProps.Get(pid)
		if !ok || !def.Searchable {
			continue
		}

		if def.ValueType == reference.PropertyTypeEmpty {
			if def.GroupID == "" {
				continue
			}
			name, value := p.groupAsName(def)
			p.applyProperty(name, value)
			continue
		}

		value, ok := p.typedValue(vp, def.ValueType)
		name := def.Name
		if !ok || value == p.cfg.DefaultEmpty {
			// część sklepów trzyma treść w nazwie, nie w wartości
			// TODO: ta sama ścieżka co dla typu "empty", do scalenia
			name, value = p.groupAsName(def)
		}
		p.applyProperty(name, value)
	}
}

// groupAsName: nazwa grupy jako klucz, nazwa właściwości jako wartość
func (p *build) groupAsName(def reference.ItemProperty) (string, string) {
	name := p.cfg.DefaultEmpty
	if p.refs.groups != nil {
		if g, ok := p.refs.groups.Name(def.GroupID); ok {
			name = g
		}
	}
	value := def.Name
	if value == "" {
		value = def.BackendName
	}
	return name, value
}

func (p *build) typedValue(vp gjson.Result, valueType string) (string, bool) {
	switch valueType {
	case valueText:
		for _, t := range vp.Get("valueTexts").Array() {
			if sameLang(t.Get("lang").String(), p.cfg.Language) {
				v := strings.TrimSpace(t.Get("value").String())
				return v, v != ""
			}
		}
	case valueSelection:
		for _, s := range vp.Get("propertySelection").Array() {
			if sameLang(s.Get("lang").String(), p.cfg.Language) {
				v := strings.TrimSpace(s.Get("name").String())
				return v, v != ""
			}
		}
	case valueInt:
		if r := vp.Get("valueInt"); r.Exists() && r.Type != gjson.Null {
			return r.String(), true
		}
	case valueFloat:
		if r := vp.Get("valueFloat"); r.Exists() && r.Type != gjson.Null {
			return r.String(), true
		}
	}
	return "", false
}

func (p *build) applyProperty(name, value string) {
	if !p.usable(name) || !p.usable(value) {
		p.log.Debug().Str("name", name).Str("value", value).Msg("pusta właściwość")
		return
	}
	p.rec.Attributes.Add(name, value)
}

func (p *build) usable(s string) bool {
	return s != "" && !strings.EqualFold(s, "null") && s != p.cfg.DefaultEmpty
}

// characteristics – cechy v2 (properties na wariancie)
func (p *build) characteristics(v gjson.Result) {
	if p.refs.properties == nil {
		return
	}
	for _, vp := range v.Get("properties").Array() {
		pid := id(vp.Get("propertyId"))
		def, ok := p.refs.properties.Get(pid)
		if !ok || def.Name == "" {
			continue
		}

		switch cast := def.Cast; {
		case reference.IsMultiSelection(cast):
			if p.refs.selections == nil {
				continue
			}
			for _, rv := range vp.Get("relationValues").Array() {
				if val, ok := p.refs.selections.Value(pid, id(rv.Get("value"))); ok {
					p.applyProperty(def.Name, val)
				}
			}
		case cast == "selection":
			for _, s := range vp.Get("propertySelection").Array() {
				if sameLang(s.Get("lang").String(), p.cfg.Language) {
					p.applyProperty(def.Name, strings.TrimSpace(s.Get("name").String()))
					break
				}
			}
		case cast == "shortText", cast == "longText", cast == "string", cast == "text", cast == "html":
			for _, rv := range vp.Get("relationValues").Array() {
				if sameLang(rv.Get("lang").String(), p.cfg.Language) {
					p.applyProperty(def.Name, strings.TrimSpace(rv.Get("value").String()))
					break
				}
			}
		case cast == "int", cast == "float":
			if rv := vp.Get("relationValues.0.value"); rv.Exists() {
				p.applyProperty(def.Name, rv.String())
			}
		}
	}
}
