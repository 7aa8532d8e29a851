package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/exceptions"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var (
	s3StorageInstance contracts.BlobStore
	onceS3Storage     sync.Once
)

type s3Storage struct {
	client *s3.Client
}

func NewS3Storage(client *s3.Client) contracts.BlobStore {
	onceS3Storage.Do(func() {
		s3StorageInstance = &s3Storage{client: client}
	})
	return s3StorageInstance
}

func (s *s3Storage) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	output, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, exceptions.ErrStorageGetObject(err, bucket)
	}
	defer output.Body.Close()

	data, err := io.ReadAll(output.Body)
	if err != nil {
		return nil, exceptions.ErrStorageGetObject(err, bucket)
	}
	return data, nil
}

func (s *s3Storage) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return exceptions.ErrStoragePutObject(err, bucket)
	}
	return nil
}

func (s *s3Storage) CopyObject(ctx context.Context, srcBucket, srcKey, dstBucket, dstKey string) error {
	_, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(dstBucket),
		Key:        aws.String(dstKey),
		CopySource: aws.String(copySource(srcBucket, srcKey)),
	})
	if err != nil {
		return exceptions.ErrStorageCopyObject(err, dstBucket)
	}
	return nil
}

// copySource builds the CopySource header value. S3 requires it URL-encoded,
// so keys with spaces or other reserved characters survive the copy.
func copySource(srcBucket, srcKey string) string {
	return url.PathEscape(fmt.Sprintf("%s/%s", srcBucket, srcKey))
}

func (s *s3Storage) ListObjects(ctx context.Context, bucket, prefix string, max int) ([]contracts.ObjectInfo, error) {
	if max <= 0 {
		max = 1000
	}
	output, err := s.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
		Bucket:  aws.String(bucket),
		Prefix:  aws.String(prefix),
		MaxKeys: aws.Int32(int32(max)),
	})
	if err != nil {
		return nil, exceptions.ErrStorageListObjects(err, bucket)
	}

	objects := make([]contracts.ObjectInfo, 0, len(output.Contents))
	for _, item := range output.Contents {
		info := contracts.ObjectInfo{
			Key:  aws.ToString(item.Key),
			Size: aws.ToInt64(item.Size),
			ETag: aws.ToString(item.ETag),
		}
		if item.LastModified != nil {
			info.LastModified = item.LastModified.UTC().Format("2006-01-02T15:04:05Z")
		}
		objects = append(objects, info)
	}
	return objects, nil
}
