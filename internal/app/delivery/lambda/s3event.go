package lambda

import (
	"fmt"
	"net/url"

	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/exceptions"

	"github.com/aws/aws-lambda-go/events"
)

// ParseS3Event flattens an S3 notification into object events. Object keys
// arrive URL-encoded and are decoded here once, so downstream code always
// sees the real key.
func ParseS3Event(event events.S3Event) ([]models.ObjectEvent, error) {
	if len(event.Records) == 0 {
		return nil, exceptions.ErrInvalidObjectEvent(fmt.Errorf("event has no records"))
	}

	objectEvents := make([]models.ObjectEvent, 0, len(event.Records))
	for _, record := range event.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, exceptions.ErrInvalidObjectEvent(err)
		}
		if record.S3.Bucket.Name == "" || key == "" {
			return nil, exceptions.ErrInvalidObjectEvent(fmt.Errorf("record missing bucket or key"))
		}

		objectEvents = append(objectEvents, models.ObjectEvent{
			Bucket:    record.S3.Bucket.Name,
			Key:       key,
			ETag:      record.S3.Object.ETag,
			Size:      record.S3.Object.Size,
			EventTime: record.EventTime.UTC(),
		})
	}
	return objectEvents, nil
}
