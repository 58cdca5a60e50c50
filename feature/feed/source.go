package feed

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"feed-sync/core/storage"

	"github.com/minio/minio-go/v7"
)

// Open resolves a feed location into a byte stream and its size in bytes.
// Locations of the form s3://bucket/object are fetched from object storage;
// anything else is treated as a local file path. The size is -1 when the
// source cannot report it.
func Open(ctx context.Context, client storage.Client, location string) (io.ReadCloser, int64, error) {
	if bucket, object, ok := strings.Cut(strings.TrimPrefix(location, "s3://"), "/"); ok && strings.HasPrefix(location, "s3://") {
		if client == nil {
			return nil, 0, fmt.Errorf("feed location %q requires object storage, but no client is configured", location)
		}
		return openObject(ctx, client, bucket, object)
	}

	f, err := os.Open(location)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open feed file: %w", err)
	}
	size := int64(-1)
	if info, err := f.Stat(); err == nil {
		size = info.Size()
	}
	return f, size, nil
}

func openObject(ctx context.Context, client storage.Client, bucket, object string) (io.ReadCloser, int64, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to check feed bucket %q: %w", bucket, err)
	}
	if !exists {
		return nil, 0, fmt.Errorf("feed bucket %q does not exist", bucket)
	}

	size := int64(-1)
	if info, err := client.StatObject(ctx, bucket, object, minio.StatObjectOptions{}); err == nil {
		size = info.Size
	}

	reader, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to fetch feed object %q: %w", object, err)
	}
	return reader, size, nil
}
