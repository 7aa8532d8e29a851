package clinicalnotes

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/app/services/shared/nlp"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

var (
	clinicalNotesUsecaseInstance contracts.ClinicalNotesUsecase
	onceClinicalNotesUsecase     sync.Once
)

type clinicalNotesUsecase struct {
	Storage        contracts.BlobStore
	Analyzer       *nlp.Analyzer
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewClinicalNotesUsecase(
	storage contracts.BlobStore,
	analyzer *nlp.Analyzer,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.ClinicalNotesUsecase {
	onceClinicalNotesUsecase.Do(func() {
		instance := &clinicalNotesUsecase{
			Storage:        storage,
			Analyzer:       analyzer,
			InternalConfig: internalConfig,
			Log:            logger,
		}
		clinicalNotesUsecaseInstance = instance
	})
	return clinicalNotesUsecaseInstance
}

func (uc *clinicalNotesUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("clinicalNotesUsecase.ProcessObject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketKey, event.Bucket),
		zap.String(constvars.LoggingObjectKeyKey, event.Key),
	)

	data, err := uc.Storage.GetObject(ctx, event.Bucket, event.Key)
	if err != nil {
		return "", err
	}

	text := string(data)
	if len(bytes.TrimSpace(data)) == 0 {
		return "", exceptions.ErrInvalidObjectEvent(fmt.Errorf("empty note %s", event.Key))
	}

	result := &models.NLPResult{
		Timestamp:    utils.FhirDateTimeNow(),
		ProcessingID: utils.GenerateProcessingID(),
		SourceKey:    event.Key,
		OriginalText: text,
	}

	if err := uc.Analyzer.Analyze(ctx, result, text); err != nil {
		return "", err
	}

	outputKey := fmt.Sprintf("%s%s%s", constvars.PrefixProcessed, utils.ObjectBaseName(event.Key), constvars.SuffixProcessed)
	payload, err := json.Marshal(result)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	err = uc.Storage.PutObject(
		ctx,
		uc.InternalConfig.Pipeline.OutputBucket,
		outputKey,
		bytes.NewReader(payload),
		int64(len(payload)),
		constvars.MIMEApplicationJSON,
	)
	if err != nil {
		return "", err
	}

	uc.Log.Info("clinicalNotesUsecase.ProcessObject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingProcessingIDKey, result.ProcessingID),
		zap.String(constvars.LoggingOutputKeyKey, outputKey),
	)
	return outputKey, nil
}
