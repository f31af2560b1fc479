package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/bartek5186/plentyexport/internal/db"
	"github.com/bartek5186/plentyexport/internal/exporter"
	"github.com/bartek5186/plentyexport/internal/integrations"
	_ "github.com/bartek5186/plentyexport/internal/integrations/plentymarkets" // rejestracja
	logs "github.com/bartek5186/plentyexport/internal/logs"
	syncer "github.com/bartek5186/plentyexport/internal/syncer"
	"github.com/joho/godotenv"
)

// wersję możesz nadpisać przez: -ldflags "-X 'main.ver=1.0.1'"
var ver = "1.0.0"

func main() {
	os.Exit(run())
}

func run() int {
	cfgPath := flag.String("config", filepath.Join(mustAppDataDir("plentyexport"), "config.yaml"), "ścieżka do pliku konfiguracji")
	once := flag.Bool("once", false, "jeden eksport i koniec")
	flag.Parse()

	// .env jest opcjonalny
	_ = godotenv.Load()

	appDir := filepath.Dir(*cfgPath)
	cfg, firstRun, err := conf.LoadOrCreate(*cfgPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		return 1
	}
	if !filepath.IsAbs(cfg.Export.OutputDir) {
		cfg.Export.OutputDir = filepath.Join(appDir, cfg.Export.OutputDir)
	}

	log := logs.New(cfg.Log, appDir)
	if firstRun {
		log.Info().Msgf("Utworzono domyślną konfigurację: %s", *cfgPath)
	}
	log.Info().Str("version", ver).Str("config", *cfgPath).Msg("PlentyExport start")

	dbh, err := db.Open(cfg.Database, appDir)
	if err != nil {
		log.Error().Err(err).Msg("DB open error")
		return 1
	}
	defer dbh.Close()
	if err := dbh.Migrate(); err != nil {
		log.Error().Err(err).Msg("DB migrate error")
		return 1
	}
	log.Info().Str("db", dbh.Path).Msg("DB ready")

	src, err := integrations.New(log, cfg.Source)
	if err != nil {
		log.Error().Err(err).Msg("źródło danych")
		return 1
	}
	exp := exporter.New(log, cfg, src, dbh)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if *once || cfg.Schedule.IntervalSeconds == 0 {
		if _, err := exp.Run(ctx); err != nil {
			return 1
		}
		return 0
	}

	s := syncer.New(log, exp, time.Duration(cfg.Schedule.IntervalSeconds)*time.Second)
	if err := s.Start(ctx); err != nil {
		log.Error().Err(err).Msg("Syncer start error")
		return 1
	}
	<-ctx.Done()
	s.Stop()
	log.Info().Msg("PlentyExport stop")
	return 0
}

func mustAppDataDir(name string) string {
	base, err := os.UserConfigDir()
	if err != nil {
		panic(err)
	}
	p := filepath.Join(base, name)
	_ = os.MkdirAll(p, 0o755)
	return p
}
