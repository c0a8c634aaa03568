// Package config loads the settings of list-sync.
//
// Defaults come from the 'default' struct tags of every section. A .env file,
// an optional yaml/toml/json config file and environment variables are layered
// on top, with the environment winning. Nested keys map to upper-case
// variables joined by underscores, e.g. sync.following_list_id becomes
// SYNC_FOLLOWING_LIST_ID.
//
// # Configuration Structure
//
//   - Twitter: API base URL, credentials file and request timeout
//   - Sync: account, target list ids, concurrency and dry-run
//   - Retry: exponential backoff policy for API calls
//   - Log: level, format and log file
//   - Database: optional run journal (sqlite or mysql)
//   - Storage: optional report archive bucket (S3/MinIO)
//
// # Usage
//
//	cfg, err := config.LoadConfig(".", "")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.FollowingListID)
package config
