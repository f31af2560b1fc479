package reference

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// NoValue – "nie podano id wartości" w Attributes.Exists
const NoValue = ""

type table struct {
	log  zerolog.Logger
	kind Kind
}

func newTable(log zerolog.Logger, kind Kind) table {
	return table{log: log.With().Str("reference", kind.Key()).Logger(), kind: kind}
}

// entries wyciąga listę wpisów: tablica w korzeniu albo klucz "entries".
// Brak kontenera to tylko ostrzeżenie.
func (t table) entries(payload gjson.Result) ([]gjson.Result, bool) {
	if payload.IsArray() {
		return payload.Array(), true
	}
	if e := payload.Get("entries"); e.IsArray() {
		return e.Array(), true
	}
	t.log.Warn().Msg("brak danych w odpowiedzi, tabela bez zmian")
	return nil, false
}

func sameLang(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// localized – pierwsze tłumaczenie w danym języku
func localized(list gjson.Result, lang, field string) (string, bool) {
	for _, e := range list.Array() {
		if sameLang(e.Get("lang").String(), lang) {
			return e.Get(field).String(), true
		}
	}
	return "", false
}

func id(r gjson.Result) string {
	return strings.TrimSpace(r.String())
}
