package storage

import (
	"context"
	"io"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/exceptions"

	"github.com/minio/minio-go/v7"
)

var (
	minioStorageInstance contracts.BlobStore
	onceMinioStorage     sync.Once
)

type minioStorage struct {
	MinioClient *minio.Client
}

// NewMinioStorage returns a BlobStore over MinIO for worker-mode deployments.
func NewMinioStorage(minioClient *minio.Client) contracts.BlobStore {
	onceMinioStorage.Do(func() {
		minioStorageInstance = &minioStorage{MinioClient: minioClient}
	})
	return minioStorageInstance
}

func (m *minioStorage) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	object, err := m.MinioClient.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, exceptions.ErrStorageGetObject(err, bucket)
	}
	defer object.Close()

	data, err := io.ReadAll(object)
	if err != nil {
		return nil, exceptions.ErrStorageGetObject(err, bucket)
	}
	return data, nil
}

func (m *minioStorage) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := m.MinioClient.PutObject(ctx, bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return exceptions.ErrStoragePutObject(err, bucket)
	}
	return nil
}

func (m *minioStorage) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := m.MinioClient.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: dstBucket, Object: dstKey},
		minio.CopySrcOptions{Bucket: srcBucket, Object: srcKey},
	)
	if err != nil {
		return exceptions.ErrStorageCopyObject(err, dstBucket)
	}
	return nil
}

func (m *minioStorage) ListObjects(ctx context.Context, bucket, prefix string, max int) ([]contracts.ObjectInfo, error) {
	objects := make([]contracts.ObjectInfo, 0)
	for object := range m.MinioClient.ListObjects(ctx, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if object.Err != nil {
			return nil, exceptions.ErrStorageListObjects(object.Err, bucket)
		}
		objects = append(objects, contracts.ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			ETag:         object.ETag,
			LastModified: object.LastModified.UTC().Format("2006-01-02T15:04:05Z"),
		})
		if max > 0 && len(objects) >= max {
			break
		}
	}
	return objects, nil
}
