package transcription

import (
	"bytes"
	"context"
	"fmt"
	"sync"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/app/services/shared/nlp"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/goccy/go-json"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const transcriptionJobStatusCompleted = "COMPLETED"
const transcriptionJobStatusFailed = "FAILED"

var supportedAudioFormats = map[string]bool{
	"wav":  true,
	"mp3":  true,
	"mp4":  true,
	"m4a":  true,
	"flac": true,
	"ogg":  true,
}

var (
	transcriptionUsecaseInstance contracts.TranscriptionUsecase
	onceTranscriptionUsecase     sync.Once
)

type transcriptionUsecase struct {
	Storage        contracts.BlobStore
	Transcriber    contracts.Transcriber
	Analyzer       *nlp.Analyzer
	InternalConfig *config.InternalConfig
	Log            *zap.Logger
}

func NewTranscriptionUsecase(
	storage contracts.BlobStore,
	transcriber contracts.Transcriber,
	analyzer *nlp.Analyzer,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) contracts.TranscriptionUsecase {
	onceTranscriptionUsecase.Do(func() {
		instance := &transcriptionUsecase{
			Storage:        storage,
			Transcriber:    transcriber,
			Analyzer:       analyzer,
			InternalConfig: internalConfig,
			Log:            logger,
		}
		transcriptionUsecaseInstance = instance
	})
	return transcriptionUsecaseInstance
}

func (uc *transcriptionUsecase) ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	uc.Log.Info("transcriptionUsecase.ProcessObject called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingBucketKey, event.Bucket),
		zap.String(constvars.LoggingObjectKeyKey, event.Key),
	)

	mediaFormat := utils.ObjectExtension(event.Key)
	if !supportedAudioFormats[mediaFormat] {
		uc.Log.Info("transcriptionUsecase.ProcessObject skipping unsupported media format",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return "", nil
	}

	jobName := utils.GenerateTranscriptionJobName(time.Now())
	err := uc.Transcriber.StartTranscription(
		ctx,
		jobName,
		utils.FormatS3URI(event.Bucket, event.Key),
		mediaFormat,
		uc.InternalConfig.Pipeline.OutputBucket,
		fmt.Sprintf("%sraw/%s.json", constvars.PrefixTranscriptions, jobName),
	)
	if err != nil {
		return "", err
	}

	job, err := uc.waitForCompletion(ctx, jobName)
	if err != nil {
		return "", err
	}

	transcript, err := uc.fetchTranscript(ctx, job.TranscriptURI)
	if err != nil {
		return "", err
	}

	result := &models.NLPResult{
		Timestamp:         utils.FhirDateTimeNow(),
		ProcessingID:      utils.GenerateProcessingID(),
		SourceKey:         event.Key,
		OriginalAudioFile: utils.FormatS3URI(event.Bucket, event.Key),
		TranscriptionText: transcript,
	}

	if err := uc.Analyzer.Analyze(ctx, result, transcript); err != nil {
		return "", err
	}

	outputKey := fmt.Sprintf("%s%s%s", constvars.PrefixTranscriptions, utils.ObjectBaseName(event.Key), constvars.SuffixTranscriptionResults)
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

	uc.Log.Info("transcriptionUsecase.ProcessObject succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobNameKey, jobName),
		zap.String(constvars.LoggingOutputKeyKey, outputKey),
	)
	return outputKey, nil
}

// waitForCompletion polls the transcription job until it finishes or the
// configured timeout elapses.
func (uc *transcriptionUsecase) waitForCompletion(ctx context.Context, jobName string) (*contracts.TranscriptionJob, error) {
	timeout := time.Duration(uc.InternalConfig.Pipeline.TranscriptionTimeoutInSeconds) * time.Second
	interval := time.Duration(uc.InternalConfig.Pipeline.TranscriptionPollIntervalInSeconds) * time.Second
	deadline := time.Now().Add(timeout)

	for {
		job, err := uc.Transcriber.GetTranscription(ctx, jobName)
		if err != nil {
			return nil, err
		}

		switch job.Status {
		case transcriptionJobStatusCompleted:
			return job, nil
		case transcriptionJobStatusFailed:
			return nil, exceptions.ErrTranscriptionFailed(fmt.Errorf("%s", job.FailureReason), jobName)
		}

		if time.Now().After(deadline) {
			return nil, exceptions.ErrTranscriptionTimedOut(fmt.Errorf("no result after %s", timeout), jobName)
		}

		select {
		case <-ctx.Done():
			return nil, exceptions.ErrTranscriptionTimedOut(ctx.Err(), jobName)
		case <-time.After(interval):
		}
	}
}

// fetchTranscript downloads the raw transcription result and extracts the
// transcript text from it.
func (uc *transcriptionUsecase) fetchTranscript(ctx context.Context, transcriptURI string) (string, error) {
	bucket, key, err := utils.ParseS3URI(transcriptURI)
	if err != nil {
		return "", err
	}

	data, err := uc.Storage.GetObject(ctx, bucket, key)
	if err != nil {
		return "", err
	}

	transcript := gjson.GetBytes(data, "results.transcripts.0.transcript")
	if !transcript.Exists() {
		return "", exceptions.ErrInvalidObjectEvent(fmt.Errorf("transcript missing from %s", transcriptURI))
	}
	return transcript.String(), nil
}
