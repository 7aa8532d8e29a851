package lambda

import (
	"testing"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/stretchr/testify/assert"
)

func TestParseS3Event(t *testing.T) {
	t.Run("decodes URL-encoded keys", func(t *testing.T) {
		event := events.S3Event{
			Records: []events.S3EventRecord{{
				EventTime: time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC),
				S3: events.S3Entity{
					Bucket: events.S3Bucket{Name: "source"},
					Object: events.S3Object{
						Key:  "clinical-notes/visit+notes+%281%29.txt",
						ETag: "abc123",
						Size: 42,
					},
				},
			}},
		}

		objectEvents, err := ParseS3Event(event)
		assert.NoError(t, err)
		assert.Len(t, objectEvents, 1)
		assert.Equal(t, "source", objectEvents[0].Bucket)
		assert.Equal(t, "clinical-notes/visit notes (1).txt", objectEvents[0].Key)
		assert.Equal(t, "abc123", objectEvents[0].ETag)
		assert.Equal(t, int64(42), objectEvents[0].Size)
	})

	t.Run("rejects an empty event", func(t *testing.T) {
		_, err := ParseS3Event(events.S3Event{})
		assert.Error(t, err)
	})

	t.Run("rejects a record without a bucket", func(t *testing.T) {
		event := events.S3Event{
			Records: []events.S3EventRecord{{
				S3: events.S3Entity{Object: events.S3Object{Key: "some/key"}},
			}},
		}
		_, err := ParseS3Event(event)
		assert.Error(t, err)
	})
}
