package product

import (
	"strings"

	"github.com/tidwall/gjson"
)

// productURL: protocol + host + [/prefix] + /path + /a-id.
// Pusta albo nie-tekstowa ścieżka daje wartość domyślną.
func (b *Builder) productURL(path gjson.Result, itemID string) string {
	if path.Type != gjson.String || strings.Trim(path.String(), "/ ") == "" {
		b.log.Debug().Str("item_id", itemID).Msg("brak ścieżki URL")
		return b.cfg.DefaultEmpty
	}
	return BuildURL(b.cfg.Protocol, b.cfg.StoreURL, b.cfg.URLPrefix, path.String(), itemID)
}

func BuildURL(protocol, host, prefix, path, itemID string) string {
	host = strings.TrimPrefix(strings.TrimPrefix(host, "https://"), "http://")
	host = strings.TrimRight(host, "/")

	var sb strings.Builder
	sb.WriteString(protocol)
	sb.WriteString(host)
	if prefix = strings.Trim(prefix, "/ "); prefix != "" {
		sb.WriteString("/")
		sb.WriteString(prefix)
	}
	sb.WriteString("/")
	sb.WriteString(strings.Trim(path, "/ "))
	sb.WriteString("/a-")
	sb.WriteString(itemID)
	return sb.String()
}
