// Package exporter prowadzi jeden przebieg eksportu: logowanie, tabele
// referencyjne, produkty strona po stronie i zapis do pliku.
package exporter

import (
	"context"
	"net/url"
	"strings"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/errs"
	"github.com/bartek5186/plentyexport/internal/integrations"
	"github.com/bartek5186/plentyexport/internal/product"
	"github.com/bartek5186/plentyexport/internal/wrapper"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"
)

// relacje wariantu potrzebne builderowi
var variationRelations = strings.Join([]string{
	"variationSalesPrices",
	"variationCategories",
	"variationClients",
	"variationBarcodes",
	"variationAttributeValues",
	"variationProperties",
	"properties",
	"unit",
	"images",
	"tags",
}, ",")

const skipFetchError = "fetch_error"

// Ledger – dziennik przebiegów (db.Handle)
type Ledger interface {
	BeginRun(runID, outputPath string, startedAt time.Time) error
	FinishRun(runID string, seen, exported, skipped int, runErr error) error
	RecordSkipped(runID string, skipped map[string]string) error
}

type Stats struct {
	RunID      string
	OutputPath string
	Seen       int
	Exported   int
	Skipped    map[string]string // item id -> powód
	Duration   time.Duration
}

type Exporter struct {
	log    zerolog.Logger
	cfg    *conf.Config
	src    integrations.Source
	ledger Ledger
	newID  func() string
}

// New; ledger może być nil
func New(log zerolog.Logger, cfg *conf.Config, src integrations.Source, ledger Ledger) *Exporter {
	return &Exporter{
		log:    log,
		cfg:    cfg,
		src:    src,
		ledger: ledger,
		newID:  func() string { return uuid.New().String() },
	}
}

// wynik budowania jednego produktu
type built struct {
	itemID string
	rec    product.Record
	skip   string
}

func (e *Exporter) Run(ctx context.Context) (st Stats, err error) {
	start := time.Now()
	st = Stats{
		RunID:      e.newID(),
		OutputPath: e.cfg.OutputPath(),
		Skipped:    map[string]string{},
	}
	log := e.log.With().Str("run_id", st.RunID).Logger()
	log.Info().Str("source", e.src.Name()).Str("output", st.OutputPath).Msg("start eksportu")

	if e.ledger != nil {
		if lerr := e.ledger.BeginRun(st.RunID, st.OutputPath, start); lerr != nil {
			log.Warn().Err(lerr).Msg("ledger: begin run")
		}
	}
	defer func() {
		st.Duration = time.Since(start)
		e.finish(log, st, err)
	}()

	if err = e.src.Login(ctx); err != nil {
		return st, err
	}

	reg, err := e.loadReferences(ctx, log)
	if err != nil {
		return st, err
	}
	builder := product.NewBuilder(product.ConfigFrom(e.cfg.Export), reg, log)

	out, err := wrapper.Create(st.OutputPath)
	if err != nil {
		return st, err
	}

	q := url.Values{"lang": {strings.ToLower(e.cfg.Export.Language)}}
	err = e.src.Paginate(ctx, "/rest/items", q, func(page gjson.Result) error {
		return e.processPage(ctx, log, builder, page, out, &st)
	})
	if err != nil {
		out.Abort()
		return st, err
	}
	if err = out.Close(); err != nil {
		return st, err
	}
	return st, nil
}

// processPage buduje produkty strony równolegle, zapisuje w kolejności źródła
func (e *Exporter) processPage(ctx context.Context, log zerolog.Logger, b *product.Builder, page gjson.Result, out *wrapper.TSV, st *Stats) error {
	items := page.Array()
	if entries := page.Get("entries"); entries.IsArray() {
		items = entries.Array()
	}

	results := make([]built, len(items))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(e.cfg.Export.Workers, 1))
	for i, item := range items {
		g.Go(func() error {
			r, err := e.buildOne(gctx, log, b, item)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, r := range results {
		st.Seen++
		if r.skip != "" {
			st.Skipped[r.itemID] = r.skip
			log.Debug().Str("item_id", r.itemID).Str("reason", r.skip).Msg("produkt pominięty")
			continue
		}
		if err := out.Write(r.rec); err != nil {
			return err
		}
		st.Exported++
	}
	return nil
}

func (e *Exporter) buildOne(ctx context.Context, log zerolog.Logger, b *product.Builder, item gjson.Result) (built, error) {
	itemID := strings.TrimSpace(item.Get("id").String())

	var variations []gjson.Result
	q := url.Values{"itemId": {itemID}, "with": {variationRelations}}
	err := e.src.Paginate(ctx, "/rest/items/variations", q, func(page gjson.Result) error {
		list := page.Array()
		if entries := page.Get("entries"); entries.IsArray() {
			list = entries.Array()
		}
		variations = append(variations, list...)
		return nil
	})
	if err != nil {
		if errs.IsFatal(err) || ctx.Err() != nil {
			return built{}, err
		}
		log.Warn().Err(err).Str("item_id", itemID).Msg("nie udało się pobrać wariantów")
		return built{itemID: itemID, skip: skipFetchError}, nil
	}

	images, err := e.src.Get(ctx, "/rest/items/"+itemID+"/images", nil)
	if err != nil {
		if errs.IsFatal(err) || ctx.Err() != nil {
			return built{}, err
		}
		log.Debug().Err(err).Str("item_id", itemID).Msg("brak obrazków produktu")
		images = gjson.Result{}
	}

	rec, state := b.Build(product.Input{Item: item, Variations: variations, Images: images})
	if state.Skipped() {
		return built{itemID: itemID, skip: state.String()}, nil
	}
	return built{itemID: itemID, rec: rec}, nil
}

func (e *Exporter) finish(log zerolog.Logger, st Stats, runErr error) {
	if e.ledger != nil {
		if err := e.ledger.RecordSkipped(st.RunID, st.Skipped); err != nil {
			log.Warn().Err(err).Msg("ledger: skipped products")
		}
		if err := e.ledger.FinishRun(st.RunID, st.Seen, st.Exported, len(st.Skipped), runErr); err != nil {
			log.Warn().Err(err).Msg("ledger: finish run")
		}
	}

	if runErr != nil {
		log.Error().Err(runErr).Bool("fatal", errs.IsFatal(runErr)).Dur("took", st.Duration).Msg("eksport przerwany")
		return
	}
	log.Info().
		Int("seen", st.Seen).
		Int("exported", st.Exported).
		Int("skipped", len(st.Skipped)).
		Dur("took", st.Duration).
		Msg("eksport zakończony")
}
