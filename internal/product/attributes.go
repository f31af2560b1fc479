package product

import (
	"net/url"
	"strings"
)

// Attributes – nazwa -> lista wartości, kolejność wstawiania zachowana,
// wartości bez duplikatów w obrębie nazwy
type Attributes struct {
	names  []string
	values map[string][]string
}

func NewAttributes() *Attributes {
	return &Attributes{values: map[string][]string{}}
}

// Add dopisuje wartość; false gdy pusta albo już była
func (a *Attributes) Add(name, value string) bool {
	if name == "" || value == "" {
		return false
	}
	existing, ok := a.values[name]
	if !ok {
		a.names = append(a.names, name)
	}
	for _, v := range existing {
		if v == value {
			return false
		}
	}
	a.values[name] = append(existing, value)
	return true
}

func (a *Attributes) Values(name string) []string {
	return a.values[name]
}

func (a *Attributes) Names() []string {
	return a.names
}

func (a *Attributes) Len() int { return len(a.names) }

// Encode: name=value&name=value2, nazwy i wartości przez QueryEscape
func (a *Attributes) Encode() string {
	var sb strings.Builder
	for _, name := range a.names {
		for _, v := range a.values[name] {
			if sb.Len() > 0 {
				sb.WriteByte('&')
			}
			sb.WriteString(url.QueryEscape(name))
			sb.WriteByte('=')
			sb.WriteString(url.QueryEscape(v))
		}
	}
	return sb.String()
}
