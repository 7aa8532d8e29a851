package queue

import (
	"context"
	"net/url"
	"strings"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/metrics"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	stageImport          = "import"
	stageClinicalNotes   = "clinical_notes"
	stageTranscription   = "transcription"
	stageResourceCreator = "resource_creator"
	stageUnknown         = "unknown"

	outcomeProcessed = "processed"
	outcomeFailed    = "failed"
)

// bucketNotification is the MinIO bucket-notification envelope, which reuses
// the S3 event record layout.
type bucketNotification struct {
	EventName string `json:"EventName"`
	Records   []struct {
		EventTime string `json:"eventTime"`
		S3        struct {
			Bucket struct {
				Name string `json:"name"`
			} `json:"bucket"`
			Object struct {
				Key  string `json:"key"`
				ETag string `json:"eTag"`
				Size int64  `json:"size"`
			} `json:"object"`
		} `json:"s3"`
	} `json:"Records"`
}

// Worker consumes bucket notifications and routes each object event to the
// pipeline stage owning its key prefix.
type Worker struct {
	Channel                *amqp091.Channel
	Guard                  contracts.IdempotencyGuard
	ImportUsecase          contracts.ImportUsecase
	ClinicalNotesUsecase   contracts.ClinicalNotesUsecase
	TranscriptionUsecase   contracts.TranscriptionUsecase
	ResourceCreatorUsecase contracts.ResourceCreatorUsecase
	InternalConfig         *config.InternalConfig
	Log                    *zap.Logger
}

func NewWorker(
	channel *amqp091.Channel,
	guard contracts.IdempotencyGuard,
	importUsecase contracts.ImportUsecase,
	clinicalNotesUsecase contracts.ClinicalNotesUsecase,
	transcriptionUsecase contracts.TranscriptionUsecase,
	resourceCreatorUsecase contracts.ResourceCreatorUsecase,
	internalConfig *config.InternalConfig,
	logger *zap.Logger,
) *Worker {
	return &Worker{
		Channel:                channel,
		Guard:                  guard,
		ImportUsecase:          importUsecase,
		ClinicalNotesUsecase:   clinicalNotesUsecase,
		TranscriptionUsecase:   transcriptionUsecase,
		ResourceCreatorUsecase: resourceCreatorUsecase,
		InternalConfig:         internalConfig,
		Log:                    logger,
	}
}

// Run blocks consuming the configured queue until the context is cancelled or
// the channel closes.
func (w *Worker) Run(ctx context.Context) error {
	queue := w.InternalConfig.Worker.Queue

	if err := w.Channel.Qos(w.InternalConfig.Worker.Prefetch, 0, false); err != nil {
		return exceptions.ErrRabbitMQConsume(err, queue)
	}

	deliveries, err := w.Channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return exceptions.ErrRabbitMQConsume(err, queue)
	}

	w.Log.Info("worker consuming",
		zap.String(constvars.LoggingQueueKey, queue),
	)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return exceptions.ErrRabbitMQConsume(amqp091.ErrClosed, queue)
			}
			w.handleDelivery(ctx, delivery)
		}
	}
}

func (w *Worker) handleDelivery(ctx context.Context, delivery amqp091.Delivery) {
	requestID := uuid.NewString()
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)

	events, err := parseNotification(delivery.Body)
	if err != nil {
		w.Log.Error("worker dropping undecodable delivery",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		delivery.Nack(false, false)
		return
	}

	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.Log.Error("worker event processing failed",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.String(constvars.LoggingBucketKey, event.Bucket),
				zap.String(constvars.LoggingObjectKeyKey, event.Key),
				zap.Error(err),
			)
			delivery.Nack(false, false)
			return
		}
	}
	delivery.Ack(false)
}

func (w *Worker) processEvent(ctx context.Context, event models.ObjectEvent) error {
	claimed, err := w.Guard.MarkProcessed(ctx, event.DedupeKey())
	if err != nil {
		return err
	}
	if !claimed {
		metrics.DuplicateDeliveries.Inc()
		w.Log.Info("worker skipping duplicate delivery",
			zap.String(constvars.LoggingBucketKey, event.Bucket),
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return nil
	}

	stage, err := w.dispatch(ctx, event)
	if err != nil {
		// Release the claim so a redelivery of a transient failure can retry.
		if releaseErr := w.Guard.Release(ctx, event.DedupeKey()); releaseErr != nil {
			w.Log.Warn("worker failed to release dedupe claim",
				zap.String(constvars.LoggingObjectKeyKey, event.Key),
				zap.Error(releaseErr),
			)
		}
		metrics.ObjectsProcessed.WithLabelValues(stage, outcomeFailed).Inc()
		return err
	}
	metrics.ObjectsProcessed.WithLabelValues(stage, outcomeProcessed).Inc()
	return nil
}

// dispatch routes an event by key prefix and returns the stage that handled it.
func (w *Worker) dispatch(ctx context.Context, event models.ObjectEvent) (string, error) {
	switch {
	case strings.HasPrefix(event.Key, constvars.PrefixClinicalNotes):
		_, err := w.ClinicalNotesUsecase.ProcessObject(ctx, event)
		return stageClinicalNotes, err

	case strings.HasPrefix(event.Key, constvars.PrefixAudio):
		_, err := w.TranscriptionUsecase.ProcessObject(ctx, event)
		return stageTranscription, err

	case strings.HasPrefix(event.Key, constvars.PrefixProcessed),
		strings.HasPrefix(event.Key, constvars.PrefixTranscriptions):
		_, err := w.ResourceCreatorUsecase.ProcessObject(ctx, event)
		return stageResourceCreator, err

	case strings.HasPrefix(event.Key, constvars.PrefixPatients),
		strings.HasPrefix(event.Key, constvars.PrefixObservations),
		strings.HasPrefix(event.Key, constvars.PrefixProcedures):
		_, err := w.ImportUsecase.ProcessObject(ctx, event)
		return stageImport, err

	default:
		w.Log.Info("worker ignoring key outside pipeline prefixes",
			zap.String(constvars.LoggingObjectKeyKey, event.Key),
		)
		return stageUnknown, nil
	}
}

func parseNotification(body []byte) ([]models.ObjectEvent, error) {
	notification := new(bucketNotification)
	if err := json.Unmarshal(body, notification); err != nil {
		return nil, exceptions.ErrCannotUnmarshalJSON(err)
	}
	if len(notification.Records) == 0 {
		return nil, exceptions.ErrInvalidObjectEvent(nil)
	}

	events := make([]models.ObjectEvent, 0, len(notification.Records))
	for _, record := range notification.Records {
		key, err := url.QueryUnescape(record.S3.Object.Key)
		if err != nil {
			return nil, exceptions.ErrInvalidObjectEvent(err)
		}

		event := models.ObjectEvent{
			Bucket: record.S3.Bucket.Name,
			Key:    key,
			ETag:   record.S3.Object.ETag,
			Size:   record.S3.Object.Size,
		}
		if parsed, parseErr := time.Parse(time.RFC3339, record.EventTime); parseErr == nil {
			event.EventTime = parsed.UTC()
		}
		events = append(events, event)
	}
	return events, nil
}
