package logs

import (
	"io"
	"os"
	"path/filepath"
	"time"

	conf "github.com/bartek5186/plentyexport/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// New buduje logger: plik z rotacją (lumberjack) + opcjonalnie konsola.
// Względna ścieżka pliku jest liczona od baseDir.
func New(cfg conf.LogConfig, baseDir string) zerolog.Logger {
	// Format czasu
	zerolog.TimeFieldFormat = time.RFC3339

	writers := make([]io.Writer, 0, 2)
	if cfg.File != "" {
		path := cfg.File
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		_ = os.MkdirAll(filepath.Dir(path), 0o755)
		writers = append(writers, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		})
	}
	if cfg.Console || len(writers) == 0 {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	var writer io.Writer = writers[0]
	if len(writers) > 1 {
		writer = zerolog.MultiLevelWriter(writers...)
	}

	// Logger z timestampem i info o miejscu wywołania
	logger := zerolog.New(writer).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Caller().
		Logger()

	// Ustaw globalny logger
	log.Logger = logger

	return logger
}

// ParseLevel – nieznany lub pusty poziom to info
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}
