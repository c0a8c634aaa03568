package listsync

import (
	"context"
	"fmt"
	"unicode/utf8"

	"list-sync/feature/listsync/models"

	"gorm.io/gorm"
)

const maxErrorLength = 1024

// Journal records run reports in a SQL database.
type Journal struct {
	db *gorm.DB
}

// NewJournal creates a journal sink on top of an open connection.
func NewJournal(db *gorm.DB) *Journal {
	return &Journal{db: db}
}

// Name implements Sink.
func (j *Journal) Name() string {
	return "journal"
}

// Prepare creates or updates the journal tables.
func (j *Journal) Prepare(ctx context.Context) error {
	if err := j.db.WithContext(ctx).AutoMigrate(&models.SyncRun{}, &models.SyncFailure{}); err != nil {
		return fmt.Errorf("failed to migrate journal tables: %w", err)
	}
	return nil
}

// Record stores the report and its failures in one transaction.
func (j *Journal) Record(ctx context.Context, report *Report) error {
	return j.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		run := models.SyncRun{
			RunID:       report.RunID,
			Target:      report.Target,
			ListID:      report.ListID,
			Account:     report.Account,
			DryRun:      report.DryRun,
			StartedAt:   report.StartedAt,
			FinishedAt:  report.FinishedAt,
			ListSize:    report.ListSize,
			DesiredSize: report.DesiredSize,
			ToAdd:       len(report.ToAdd),
			ToRemove:    len(report.ToRemove),
			Added:       len(report.Added),
			Removed:     len(report.Removed),
			Failed:      report.Failed(),
		}
		if err := tx.Create(&run).Error; err != nil {
			return fmt.Errorf("failed to insert run: %w", err)
		}

		if len(report.Failures) == 0 {
			return nil
		}

		failures := make([]models.SyncFailure, 0, len(report.Failures))
		for _, f := range report.Failures {
			failures = append(failures, models.SyncFailure{
				SyncRunID: run.ID,
				UserID:    string(f.ID),
				Op:        string(f.Op),
				Error:     truncate(f.Error, maxErrorLength),
			})
		}
		if err := tx.Create(&failures).Error; err != nil {
			return fmt.Errorf("failed to insert failures: %w", err)
		}
		return nil
	})
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
