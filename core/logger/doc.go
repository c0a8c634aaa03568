// Package logger provides a structured logging facility based on Zap.
//
// Every entry goes to stderr and, unless disabled, is appended to a log file.
// The file is the feedback channel for unattended (cron) runs.
//
// # Run correlation
//
// Each sync run is tagged with a run id. WithRunID attaches it to a logger so
// that all entries of one run can be grepped together.
//
// # Configuration
//
//   - Level: debug, info, warn, error
//   - Format: json or console
//   - File: path of the log file, empty to log to stderr only
//
// # Usage
//
//	log, _ := logger.New(&cfg.Log)
//	log = logger.WithRunID(log, runID)
//	log.Info("Starting update")
package logger
