package contracts

import (
	"context"
	"io"
)

// ObjectInfo describes a stored object returned by List.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified string
}

// BlobStore abstracts the object store so pipeline use cases can run against
// S3 in Lambda mode, MinIO in worker mode, and fakes in tests.
type BlobStore interface {
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error
	CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error
	ListObjects(ctx context.Context, bucket, prefix string, max int) ([]ObjectInfo, error)
}
