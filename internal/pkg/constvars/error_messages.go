package constvars

// Client-facing messages stay generic; dev messages carry the detail.
const (
	ErrClientCannotProcessRequest          = "We cannot process your request, please try again"
	ErrClientSomethingWrongWithApplication = "Something went wrong with the application, please contact the administrator"
	ErrClientNotAuthorized                 = "You are not authorized to perform this action"
	ErrClientServerLongRespond             = "Server took too long to respond, please try again"
	ErrClientResourceNotFound              = "The requested resource could not be found"
)

const (
	ErrDevCannotMarshalJSON     = "Failed to marshal JSON"
	ErrDevCannotUnmarshalJSON   = "Failed to unmarshal JSON"
	ErrDevBuildRequest          = "Failed to build request"
	ErrDevCreateHTTPRequest     = "Failed to create HTTP request"
	ErrDevSendHTTPRequest       = "Failed to send HTTP request"
	ErrDevDecodeResponse        = "Failed to decode response for resource: %s"
	ErrDevValidationFailed      = "Validation failed"
	ErrDevAPIKeyMissing         = "API key header missing"
	ErrDevAPIKeyInvalid         = "API key does not match configured value"
	ErrDevSignRequest           = "Failed to sign request with SigV4"
	ErrDevRetrieveCredentials   = "Failed to retrieve AWS credentials"
	ErrDevGetObject             = "Failed to get object from bucket: %s"
	ErrDevPutObject             = "Failed to put object into bucket: %s"
	ErrDevCopyObject            = "Failed to copy object into bucket: %s"
	ErrDevListObjects           = "Failed to list objects in bucket: %s"
	ErrDevStartImportJob        = "Failed to start datastore import job"
	ErrDevDescribeImportJob     = "Failed to describe datastore import job: %s"
	ErrDevDescribeDatastore     = "Failed to describe datastore: %s"
	ErrDevListDatastores        = "Failed to list datastores"
	ErrDevDetectEntities        = "Failed to detect medical entities"
	ErrDevDetectPHI             = "Failed to detect PHI entities"
	ErrDevInferCoding           = "Failed to infer %s codings"
	ErrDevStartTranscription    = "Failed to start medical transcription job: %s"
	ErrDevGetTranscription      = "Failed to get medical transcription job: %s"
	ErrDevTranscriptionFailed   = "Medical transcription job failed: %s"
	ErrDevTranscriptionTimedOut = "Medical transcription job did not complete in time: %s"
	ErrDevCreateFHIRResource    = "Failed to create FHIR resource: %s"
	ErrDevReadFHIRResource      = "Failed to read FHIR resource: %s"
	ErrDevSearchFHIRResources   = "Failed to search FHIR resources: %s"
	ErrDevInvalidFHIRResource   = "Object is not a valid FHIR resource: %s"
	ErrDevInvalidObjectEvent    = "Object event payload is invalid"
	ErrDevInvalidS3URI          = "Invalid S3 URI: %s"
	ErrDevRabbitMQConsume       = "Failed to consume from queue: %s"
	ErrDevRedisSet              = "Failed to set redis key"
	ErrDevRedisGet              = "Failed to get redis key"
)
