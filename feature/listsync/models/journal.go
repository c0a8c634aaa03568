package models

import "time"

// SyncRun is one reconciled target of one run.
type SyncRun struct {
	ID          uint      `gorm:"primaryKey;column:id"`
	RunID       string    `gorm:"column:run_id;type:varchar(36);index"`
	Target      string    `gorm:"column:target;type:varchar(32)"`
	ListID      string    `gorm:"column:list_id;type:varchar(32)"`
	Account     string    `gorm:"column:account;type:varchar(64)"`
	DryRun      bool      `gorm:"column:dry_run"`
	StartedAt   time.Time `gorm:"column:started_at"`
	FinishedAt  time.Time `gorm:"column:finished_at"`
	ListSize    int       `gorm:"column:list_size;default:0"`
	DesiredSize int       `gorm:"column:desired_size;default:0"`
	ToAdd       int       `gorm:"column:to_add;default:0"`
	ToRemove    int       `gorm:"column:to_remove;default:0"`
	Added       int       `gorm:"column:added;default:0"`
	Removed     int       `gorm:"column:removed;default:0"`
	Failed      int       `gorm:"column:failed;default:0"`
}

func (SyncRun) TableName() string {
	return "sync_runs"
}

// SyncFailure is a membership change that could not be applied.
type SyncFailure struct {
	ID        uint   `gorm:"primaryKey;column:id"`
	SyncRunID uint   `gorm:"column:sync_run_id;index"`
	UserID    string `gorm:"column:user_id;type:varchar(32)"`
	Op        string `gorm:"column:op;type:varchar(8)"`
	Error     string `gorm:"column:error;type:varchar(1024)"`
}

func (SyncFailure) TableName() string {
	return "sync_failures"
}
