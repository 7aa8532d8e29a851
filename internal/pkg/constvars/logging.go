package constvars

const (
	LoggingRequestIDKey     = "request_id"
	LoggingBucketKey        = "bucket"
	LoggingObjectKeyKey     = "object_key"
	LoggingJobIDKey         = "job_id"
	LoggingJobNameKey       = "job_name"
	LoggingJobStatusKey     = "job_status"
	LoggingDatastoreIDKey   = "datastore_id"
	LoggingResourceTypeKey  = "resource_type"
	LoggingResourceIDKey    = "resource_id"
	LoggingProcessingIDKey  = "processing_id"
	LoggingEntityCountKey   = "entity_count"
	LoggingOutputKeyKey     = "output_key"
	LoggingQueueKey         = "queue"
	LoggingRedisKey         = "redis_key"
	LoggingDataKey          = "data"
	LoggingResponseKey      = "response"
)

// CONTEXT_REQUEST_ID_KEY carries the per-invocation correlation id through context.
type contextKey string

const CONTEXT_REQUEST_ID_KEY contextKey = "requestID"
