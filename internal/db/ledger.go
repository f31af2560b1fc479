package db

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KeyLastSuccessfulRun – klucz KV z identyfikatorem ostatniego udanego przebiegu
const KeyLastSuccessfulRun = "last_successful_run"

func (h *Handle) BeginRun(runID, outputPath string, startedAt time.Time) error {
	return h.DB.Create(&ExportRun{
		RunID:      runID,
		StartedAt:  startedAt,
		Status:     RunRunning,
		OutputPath: outputPath,
	}).Error
}

// FinishRun zamyka przebieg: liczniki, status i (opcjonalnie) błąd
func (h *Handle) FinishRun(runID string, seen, exported, skipped int, runErr error) error {
	now := time.Now()
	status := RunDone
	lastErr := ""
	if runErr != nil {
		status = RunError
		lastErr = runErr.Error()
	}

	return h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&ExportRun{}).Where("run_id = ?", runID).Updates(map[string]any{
			"finished_at":       now,
			"status":            status,
			"products_seen":     seen,
			"products_exported": exported,
			"products_skipped":  skipped,
			"last_error":        lastErr,
		}).Error; err != nil {
			return err
		}
		if runErr != nil {
			return nil
		}
		return setKV(tx, KeyLastSuccessfulRun, runID)
	})
}

func (h *Handle) RecordSkipped(runID string, skipped map[string]string) error {
	if len(skipped) == 0 {
		return nil
	}
	rows := make([]SkippedProduct, 0, len(skipped))
	for itemID, reason := range skipped {
		rows = append(rows, SkippedProduct{RunID: runID, ItemID: itemID, Reason: reason})
	}
	return h.DB.CreateInBatches(&rows, 500).Error
}

func (h *Handle) SkippedFor(runID string) ([]SkippedProduct, error) {
	var rows []SkippedProduct
	err := h.DB.Where("run_id = ?", runID).Order("item_id").Find(&rows).Error
	return rows, err
}

func (h *Handle) Run(runID string) (*ExportRun, error) {
	var run ExportRun
	if err := h.DB.Where("run_id = ?", runID).Take(&run).Error; err != nil {
		return nil, err
	}
	return &run, nil
}

func (h *Handle) GetKV(k string) (string, bool) {
	var kv KV
	if err := h.DB.Where("k = ?", k).Take(&kv).Error; err != nil {
		return "", false
	}
	return kv.V, true
}

func setKV(tx *gorm.DB, k, v string) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "k"}},
		DoUpdates: clause.AssignmentColumns([]string{"v"}),
	}).Create(&KV{K: k, V: v}).Error
}
