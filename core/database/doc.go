// Package database handles the connection to the optional run journal.
//
// It wraps GORM and supports two drivers: sqlite (a local file, the default)
// and MySQL. The journal is append-only audit output; the sync never reads it
// back to decide what to change.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    return fmt.Errorf("failed to connect to database: %w", err)
//	}
//	defer database.Close(db)
package database
