// internal/db/models.go
package db

import "time"

const (
	RunRunning = "running"
	RunDone    = "done"
	RunError   = "error"
)

// export_runs – jeden wiersz na przebieg eksportu
type ExportRun struct {
	RunID            string    `gorm:"primaryKey;size:36"`
	StartedAt        time.Time `gorm:"index"`
	FinishedAt       *time.Time
	Status           string `gorm:"index;size:16"` // running/done/error
	ProductsSeen     int
	ProductsExported int
	ProductsSkipped  int
	OutputPath       string
	LastError        string `gorm:"type:text"`
}

// skipped_products – produkty odrzucone w danym przebiegu (brak wariantów / kategorii)
type SkippedProduct struct {
	ID        uint      `gorm:"primaryKey"`
	RunID     string    `gorm:"index;size:36"`
	ItemID    string    `gorm:"index;size:32"`
	Reason    string    `gorm:"size:64"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type KV struct {
	K string `gorm:"primaryKey;size:64"`
	V string
}
