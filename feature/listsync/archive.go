package listsync

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"list-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

const archiveTimeFormat = "20060102T150405Z"

// Archive uploads run reports as JSON objects to a bucket.
type Archive struct {
	client storage.Client
	bucket string
	region string
	prefix string
	ready  bool
}

// NewArchive creates an archive sink for the configured bucket.
func NewArchive(client storage.Client, cfg storage.Config) *Archive {
	return &Archive{
		client: client,
		bucket: cfg.Bucket,
		region: cfg.Region,
		prefix: cfg.Prefix,
	}
}

// Name implements Sink.
func (a *Archive) Name() string {
	return "archive"
}

// ObjectKey returns the key a report is stored under.
func (a *Archive) ObjectKey(report *Report) string {
	name := fmt.Sprintf("%s-%s.json", report.StartedAt.UTC().Format(archiveTimeFormat), report.RunID)
	return path.Join(a.prefix, report.Target, name)
}

// Record uploads the report, creating the bucket on first use.
func (a *Archive) Record(ctx context.Context, report *Report) error {
	if !a.ready {
		if err := storage.EnsureBucket(ctx, a.client, a.bucket, a.region); err != nil {
			return err
		}
		a.ready = true
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}

	key := a.ObjectKey(report)
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}
