// Package storage provides the object storage client used to archive run reports.
//
// It wraps the MinIO Go client, so both AWS S3 and self-hosted MinIO work.
// The Client interface only exposes what the archive needs, which keeps the
// mock in core/storage/mocks small.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	err = storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region)
package storage
