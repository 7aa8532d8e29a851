package resourcecreator

import (
	"bytes"
	"context"
	"fmt"
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
	"go.uber.org/zap"
)

var (
	resourceCreatorUsecaseInstance contracts.ResourceCreatorUsecase
	onceResourceCreatorUsecase     sync.Once
)

type resourceCreatorUsecase struct {
	Storage        contracts.BlobStore
	FhirClient     contracts.FhirClient
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewResourceCreatorUsecase(
	storage contracts.BlobStore,
	fhirClient contracts.FhirClient,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ResourceCreatorUsecase {
	onceResourceCreatorUsecase.Do(func() {
		instance := &resourceCreatorUsecase{
			Storage:        storage,
			FhirClient:     fhirClient,
			InternalConfig: internalConfig,
			Log:            logger,
		}
		resourceCreatorUsecaseInstance = instance
	})
	return resourceCreatorUsecaseInstance
}

func (uc *resourceCreatorUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ProcessingSummary, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("resourceCreatorUsecase.ProcessObject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketKey, event.Bucket),
		zap.String(constvars.LoggingObjectKeyKey, event.Key),
	)

	if !isNLPResultKey(event.Key) {
		uc.Log.Info("resourceCreatorUsecase.ProcessObject skipping non-result object",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return nil, nil
	}

	data, err := uc.Storage.GetObject(ctx, event.Bucket, event.Key)
	if err != nil {
		return nil, err
	}

	result := new(models.NLPResult)
	if err := json.Unmarshal(data, result); err != nil {
		return nil, exceptions.ErrCannotUnmarshalJSON(err)
	}
	if result.ProcessingID == "" {
		return nil, exceptions.ErrInvalidObjectEvent(fmt.Errorf("result %s has no processing id", event.Key))
	}

	resources := buildResources(result, mapperConfig{
		ConfidenceThreshold:     uc.InternalConfig.Pipeline.ConfidenceThreshold,
		MaxResourcesPerCategory: uc.InternalConfig.Pipeline.MaxResourcesPerCategory,
	}, time.Now())

	summary := &models.ProcessingSummary{
		Timestamp:         utils.FhirDateTimeNow(),
		ProcessingID:      result.ProcessingID,
		SourceKey:         result.SourceKey,
		EntitiesProcessed: len(result.Entities) + len(result.PHIEntities),
		ResourcesCreated:  len(resources),
		ResourceBreakdown: make(map[string]int),
	}

	for _, resource := range resources {
		summary.ResourceBreakdown[resource.ResourceType]++

		err := uc.FhirClient.CreateResource(ctx, resource.ResourceType, resource.ID, resource.Resource)
		if err != nil {
			summary.FailedStores++
			uc.Log.Error("resourceCreatorUsecase.ProcessObject error storing resource",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingResourceTypeKey, resource.ResourceType),
				zap.String(constvars.LoggingResourceIDKey, resource.ID),
				zap.Error(err),
			)
			continue
		}
		summary.SuccessfulStores++
		metrics.ResourcesStored.WithLabelValues(resource.ResourceType).Inc()
	}

	if err := uc.writeSummary(ctx, summary); err != nil {
		uc.Log.Warn("resourceCreatorUsecase.ProcessObject error persisting summary",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingProcessingIDKey, summary.ProcessingID),
			zap.Error(err),
		)
	}

	uc.Log.Info("resourceCreatorUsecase.ProcessObject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProcessingIDKey, summary.ProcessingID),
		zap.Int(constvars.LoggingEntityCountKey, summary.EntitiesProcessed),
	)
	return summary, nil
}

func (uc *resourceCreatorUsecase) writeSummary(ctx context.Context, summary *models.ProcessingSummary) error {
	key := fmt.Sprintf("%ssummary_%s.json", constvars.PrefixFhirProcessing, summary.ProcessingID)
	data, err := json.Marshal(summary)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}
	return uc.Storage.PutObject(
		ctx,
		uc.InternalConfig.Pipeline.OutputBucket,
		key,
		bytes.NewReader(data),
		int64(len(data)),
		constvars.MIMEApplicationJSON,
	)
}

// isNLPResultKey matches the two result layouts produced upstream.
func isNLPResultKey(key string) bool {
	return strings.HasSuffix(key, constvars.SuffixProcessed) ||
		strings.HasSuffix(key, constvars.SuffixTranscriptionResults)
}
