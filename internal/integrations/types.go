// internal/integrations/types.go
package integrations

import (
	"context"
	"net/url"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

// Source – źródło danych sklepu (REST API). Wszystkie odpowiedzi jako gjson.
type Source interface {
	Name() string
	Login(ctx context.Context) error
	// Get – pojedyncze zapytanie GET, zwraca całe body
	Get(ctx context.Context, path string, query url.Values) (gjson.Result, error)
	// Paginate woła fn dla każdej strony aż do ostatniej
	Paginate(ctx context.Context, path string, query url.Values, fn func(page gjson.Result) error) error
}

type Factory func(log zerolog.Logger, cfg conf.SourceConfig) (Source, error)
