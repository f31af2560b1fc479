package db

import (
	"fmt"
)

// Migrate tworzy/aktualizuje schemat dziennika eksportów.
func (h *Handle) Migrate() error {
	if err := h.DB.AutoMigrate(
		&ExportRun{},
		&SkippedProduct{},
		&KV{},
	); err != nil {
		return fmt.Errorf("AutoMigrate error: %w", err)
	}
	return nil
}
