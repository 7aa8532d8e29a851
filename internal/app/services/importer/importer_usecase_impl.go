package importer

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/metrics"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	importUsecaseInstance contracts.ImportUsecase
	onceImportUsecase     sync.Once
)

type importUsecase struct {
	Storage          contracts.BlobStore
	DatastoreService contracts.DatastoreService
	InternalConfig   *config.InternalConfig
	Log              *zap.Logger
}

func NewImportUsecase(
	storage contracts.BlobStore,
	datastoreService contracts.DatastoreService,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ImportUsecase {
	onceImportUsecase.Do(func() {
		instance := &importUsecase{
			Storage:          storage,
			DatastoreService: datastoreService,
			InternalConfig:   internalConfig,
			Log:              logger,
		}
		importUsecaseInstance = instance
	})
	return importUsecaseInstance
}

func (uc *importUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ImportJob, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("importUsecase.ProcessObject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketKey, event.Bucket),
		zap.String(constvars.LoggingObjectKeyKey, event.Key),
	)

	if utils.ObjectExtension(event.Key) != "json" {
		uc.Log.Info("importUsecase.ProcessObject skipping non-JSON object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return nil, nil
	}

	data, err := uc.Storage.GetObject(ctx, event.Bucket, event.Key)
	if err != nil {
		return nil, err
	}

	resourceType, resourceID, err := inspectResource(data, event.Key)
	if err != nil {
		return nil, err
	}
	if resourceType == "" {
		uc.Log.Info("importUsecase.ProcessObject skipping object without resourceType",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return nil, nil
	}

	now := time.Now()
	stagingKey := stagingKeyFor(event.Key, now)
	err = uc.Storage.CopyObject(ctx, event.Bucket, event.Key, uc.InternalConfig.Pipeline.StagingBucket, stagingKey)
	if err != nil {
		return nil, err
	}

	job, err := uc.submitImport(ctx, utils.FormatS3URI(uc.InternalConfig.Pipeline.StagingBucket, stagingKey), resourceType, now)
	if err != nil {
		return nil, err
	}
	job.SourceFile = utils.FormatS3URI(event.Bucket, event.Key)
	job.ResourceType = resourceType
	job.ResourceID = resourceID

	if err := uc.trackJob(ctx, job); err != nil {
		uc.Log.Warn("importUsecase.ProcessObject error persisting job record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, job.JobID),
			zap.Error(err),
		)
	}

	uc.Log.Info("importUsecase.ProcessObject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.String(constvars.LoggingResourceTypeKey, resourceType),
	)
	return job, nil
}

func (uc *importUsecase) ProcessBatch(ctx context.Context, bucket, prefix string) (*models.ImportJob, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("importUsecase.ProcessBatch called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketKey, bucket),
		zap.String(constvars.LoggingObjectKeyKey, prefix),
	)

	objects, err := uc.Storage.ListObjects(ctx, bucket, prefix, 0)
	if err != nil {
		return nil, err
	}
	if len(objects) == 0 {
		return nil, exceptions.ErrInvalidObjectEvent(fmt.Errorf("no objects under prefix %s", prefix))
	}

	now := time.Now()
	job, err := uc.submitImport(ctx, utils.FormatS3URI(bucket, prefix), batchResourceType(prefix), now)
	if err != nil {
		return nil, err
	}
	job.SourceFile = utils.FormatS3URI(bucket, prefix)

	if err := uc.trackJob(ctx, job); err != nil {
		uc.Log.Warn("importUsecase.ProcessBatch error persisting job record",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, job.JobID),
			zap.Error(err),
		)
	}
	return job, nil
}

func (uc *importUsecase) JobStatus(ctx context.Context, jobID string) (*models.ImportJob, error) {
	job, err := uc.DatastoreService.DescribeImportJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	// Enrich the live status with the tracked submission record when present.
	data, getErr := uc.Storage.GetObject(ctx, uc.InternalConfig.Pipeline.StagingBucket, trackingKeyFor(jobID))
	if getErr == nil {
		tracked := new(models.ImportJob)
		if err := json.Unmarshal(data, tracked); err == nil {
			job.SourceFile = tracked.SourceFile
			job.StagingFile = tracked.StagingFile
			job.ResourceType = tracked.ResourceType
			job.ResourceID = tracked.ResourceID
			if job.OutputPath == "" {
				job.OutputPath = tracked.OutputPath
			}
		}
	}
	return job, nil
}

func (uc *importUsecase) submitImport(ctx context.Context, inputS3Uri, resourceType string, now time.Time) (*models.ImportJob, error) {
	job, err := uc.DatastoreService.StartImportJob(ctx, contracts.StartImportJobInput{
		JobName:     utils.GenerateImportJobName(strings.ToLower(resourceType), now),
		InputS3Uri:  inputS3Uri,
		OutputS3Uri: utils.FormatS3URI(uc.InternalConfig.Pipeline.StagingBucket, constvars.PrefixImportResults),
		KmsKeyID:    uc.InternalConfig.Datastore.KmsKeyID,
		RoleArn:     uc.InternalConfig.Datastore.ImportRoleArn,
		ClientToken: uuid.NewString(),
	})
	if err != nil {
		return nil, err
	}
	metrics.ImportJobsSubmitted.Inc()
	return job, nil
}

func (uc *importUsecase) trackJob(ctx context.Context, job *models.ImportJob) error {
	data, err := json.Marshal(job)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return uc.Storage.PutObject(
		ctx,
		uc.InternalConfig.Pipeline.StagingBucket,
		trackingKeyFor(job.JobID),
		bytes.NewReader(data),
		int64(len(data)),
		constvars.MIMEApplicationJSON,
	)
}

// inspectResource pulls resourceType and id from an uploaded document. A JSON
// object without resourceType is not an importable FHIR resource and yields
// empty strings. Malformed JSON is an error.
func inspectResource(data []byte, objectKey string) (resourceType, resourceID string, err error) {
	var envelope struct {
		ResourceType string `json:"resourceType"`
		ID           string `json:"id"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return "", "", exceptions.ErrInvalidFHIRResource(err, objectKey)
	}
	return envelope.ResourceType, envelope.ID, nil
}

// stagingKeyFor builds the date-partitioned staging key for an uploaded object.
func stagingKeyFor(objectKey string, now time.Time) string {
	return fmt.Sprintf("%s%s/%s", constvars.PrefixImportReady, now.UTC().Format("2006/01/02"), path.Base(objectKey))
}

func trackingKeyFor(jobID string) string {
	return fmt.Sprintf("%s%s.json", constvars.PrefixImportJobs, jobID)
}

// batchResourceType names the batch job after the top-level prefix.
func batchResourceType(prefix string) string {
	trimmed := strings.Trim(prefix, "/")
	if idx := strings.Index(trimmed, "/"); idx > 0 {
		trimmed = trimmed[:idx]
	}
	if trimmed == "" {
		return "batch"
	}
	return trimmed
}
