// Package models contains the GORM models of the run journal.
//
// Each reconciled target of a run becomes one row in 'sync_runs'. Every
// membership change that could not be applied becomes one row in
// 'sync_failures' pointing back at its run.
//
// The journal is write-only audit output: a run never reads it back, so the
// membership computed for a list always comes from live API data.
package models
