package config

import (
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/joho/godotenv"
)

func init() {
	godotenv.Load()
}

func NewDriverConfig() *DriverConfig {
	return &DriverConfig{
		AWS: AWS{
			Region:  utils.GetEnvString("AWS_REGION", "us-east-1"),
			Profile: utils.GetEnvString("AWS_PROFILE", ""),
		},
		Redis: Redis{
			Host:     utils.GetEnvString("REDIS_HOST", "localhost"),
			Port:     utils.GetEnvString("REDIS_PORT", "6379"),
			Password: utils.GetEnvString("REDIS_PASSWORD", ""),
		},
		Logger: Logger{
			Level:               utils.GetEnvString("LOGGER_LEVEL", "debug"),
			OutputFileName:      utils.GetEnvString("LOGGER_OUTPUT_FILENAME", "logger.log"),
			OutputErrorFileName: utils.GetEnvString("LOGGER_OUTPUT_ERROR_FILENAME", "logger_error.log"),
		},
		RabbitMQ: RabbitMQ{
			Port:     utils.GetEnvString("RABBITMQ_PORT", "5672"),
			Host:     utils.GetEnvString("RABBITMQ_HOST", "localhost"),
			Username: utils.GetEnvString("RABBITMQ_USERNAME", "guest"),
			Password: utils.GetEnvString("RABBITMQ_PASSWORD", "guest"),
		},
		Minio: Minio{
			Port:     utils.GetEnvString("MINIO_PORT", "9000"),
			Host:     utils.GetEnvString("MINIO_HOST", "localhost"),
			Username: utils.GetEnvString("MINIO_USERNAME", "minioadmin"),
			Password: utils.GetEnvString("MINIO_PASSWORD", "minioadmin"),
			UseSSL:   utils.GetEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func NewInternalConfig() *InternalConfig {
	return &InternalConfig{
		App: App{
			Env:                    utils.GetEnvString("APP_ENV", "development"),
			Port:                   utils.GetEnvString("APP_PORT", ":8080"),
			Version:                utils.GetEnvString("APP_VERSION", "v1.0"),
			EndpointPrefix:         utils.GetEnvString("APP_ENDPOINT_PREFIX", "api"),
			APIKey:                 utils.GetEnvString("APP_API_KEY", ""),
			MaxRequests:            utils.GetEnvInt("APP_MAX_REQUESTS", 100),
			ShutdownTimeout:        utils.GetEnvInt("APP_SHUTDOWN_TIMEOUT", 10),
			RequestWindowInSeconds: utils.GetEnvInt("APP_REQUEST_WINDOW_IN_SECONDS", 60),
		},
		Datastore: Datastore{
			ID:            utils.GetEnvString("HEALTHLAKE_DATASTORE_ID", ""),
			Endpoint:      utils.GetEnvString("HEALTHLAKE_ENDPOINT", ""),
			ImportRoleArn: utils.GetEnvString("HEALTHLAKE_IMPORT_ROLE_ARN", ""),
			KmsKeyID:      utils.GetEnvString("HEALTHLAKE_KMS_KEY_ID", "alias/aws/s3"),
		},
		Pipeline: Pipeline{
			SourceBucket:                       utils.GetEnvString("PIPELINE_SOURCE_BUCKET", ""),
			StagingBucket:                      utils.GetEnvString("PIPELINE_STAGING_BUCKET", ""),
			OutputBucket:                       utils.GetEnvString("PIPELINE_OUTPUT_BUCKET", ""),
			ConfidenceThreshold:                utils.GetEnvFloat("PIPELINE_CONFIDENCE_THRESHOLD", 0.5),
			MaxResourcesPerCategory:            utils.GetEnvInt("PIPELINE_MAX_RESOURCES_PER_CATEGORY", 5),
			TranscriptionTimeoutInSeconds:      utils.GetEnvInt("PIPELINE_TRANSCRIPTION_TIMEOUT_IN_SECONDS", 900),
			TranscriptionPollIntervalInSeconds: utils.GetEnvInt("PIPELINE_TRANSCRIPTION_POLL_INTERVAL_IN_SECONDS", 30),
		},
		Worker: Worker{
			Queue:                    utils.GetEnvString("WORKER_QUEUE", "bucket_events_queue"),
			Prefetch:                 utils.GetEnvInt("WORKER_PREFETCH", 8),
			DedupeRetentionInSeconds: utils.GetEnvInt("WORKER_DEDUPE_RETENTION_IN_SECONDS", 86400),
		},
	}
}
