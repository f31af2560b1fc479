package db

import (
	"fmt"
	"path/filepath"

	conf "github.com/bartek5186/plentyexport/internal/config"
	puresqlite "github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	cgosqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Handle struct {
	DB   *gorm.DB
	Path string
}

// Open otwiera bazę dziennika eksportów. Domyślnie plik sqlite w katalogu aplikacji.
func Open(cfg conf.DBConfig, dir string) (*Handle, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	dsn := cfg.DSN
	if dsn == "" && (driver == "sqlite" || driver == "sqlite3") {
		dsn = filepath.Join(dir, "plentyexport.db")
	}

	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		// czysty Go, bez cgo
		dialector = puresqlite.Open(dsn)
	case "sqlite3":
		dialector = cgosqlite.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent), // włącz logger.Info jeśli chcesz verbose SQL
	})
	if err != nil {
		return nil, err
	}
	return &Handle{DB: gdb, Path: dsn}, nil
}

func (h *Handle) Close() error {
	sqlDB, err := h.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
