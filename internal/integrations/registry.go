// internal/integrations/registry.go
package integrations

import (
	"fmt"
	"sort"
	"sync"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/rs/zerolog"
)

var (
	regMu    sync.RWMutex
	registry = map[string]Factory{}
)

func Register(name string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	registry[name] = f
}

func Get(name string) (Factory, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	f, ok := registry[name]
	return f, ok
}

// Names – zarejestrowane typy źródeł, posortowane
func Names() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// New buduje źródło wg cfg.Type
func New(log zerolog.Logger, cfg conf.SourceConfig) (Source, error) {
	f, ok := Get(cfg.Type)
	if !ok {
		return nil, errs.Wrap(fmt.Errorf("unknown source type %q (known: %v)", cfg.Type, Names()), errs.ErrConfiguration, "source")
	}
	return f(log.With().Str("integration", cfg.Type).Logger(), cfg)
}
