package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/delivery/queue"
	"healthlake-pipeline/internal/app/drivers/cloud"
	"healthlake-pipeline/internal/app/drivers/database"
	"healthlake-pipeline/internal/app/drivers/logger"
	"healthlake-pipeline/internal/app/drivers/messaging"
	miniodriver "healthlake-pipeline/internal/app/drivers/storage"
	"healthlake-pipeline/internal/app/services/clinicalnotes"
	"healthlake-pipeline/internal/app/services/importer"
	"healthlake-pipeline/internal/app/services/resourcecreator"
	"healthlake-pipeline/internal/app/services/shared/comprehendmedical"
	"healthlake-pipeline/internal/app/services/shared/dedupe"
	"healthlake-pipeline/internal/app/services/shared/healthlake"
	"healthlake-pipeline/internal/app/services/shared/nlp"
	sharedredis "healthlake-pipeline/internal/app/services/shared/redis"
	"healthlake-pipeline/internal/app/services/shared/storage"
	"healthlake-pipeline/internal/app/services/shared/transcribemedical"
	"healthlake-pipeline/internal/app/services/transcription"

	"github.com/sirupsen/logrus"
)

func main() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()

	log := logger.NewZapLogger(driverConfig, internalConfig)

	awsConfig := cloud.NewAWSConfig(driverConfig)
	minioClient := miniodriver.NewMinio(driverConfig)
	redisClient := database.NewRedisClient(driverConfig)
	rabbitConn := messaging.NewRabbitMQ(driverConfig)

	channel, err := rabbitConn.Channel()
	if err != nil {
		logrus.Fatalf("Failed to open RabbitMQ channel: %v", err)
	}

	blobStore := storage.NewMinioStorage(minioClient)
	redisRepository := sharedredis.NewRedisRepository(redisClient)
	guard := dedupe.NewRedisDedupeGuard(
		redisRepository,
		time.Duration(internalConfig.Worker.DedupeRetentionInSeconds)*time.Second,
		log,
	)

	datastoreService := healthlake.NewDatastoreService(cloud.NewHealthLakeClient(awsConfig), internalConfig.Datastore.ID, log)
	fhirClient := healthlake.NewFhirClient(internalConfig.Datastore.Endpoint, driverConfig.AWS.Region, awsConfig.Credentials, log)
	extractor := comprehendmedical.NewEntityExtractor(cloud.NewComprehendMedicalClient(awsConfig), log)
	transcriber := transcribemedical.NewMedicalTranscriber(cloud.NewTranscribeClient(awsConfig), log)
	analyzer := nlp.NewAnalyzer(extractor, log)

	worker := queue.NewWorker(
		channel,
		guard,
		importer.NewImportUsecase(blobStore, datastoreService, internalConfig, log),
		clinicalnotes.NewClinicalNotesUsecase(blobStore, analyzer, internalConfig, log),
		transcription.NewTranscriptionUsecase(blobStore, transcriber, analyzer, internalConfig, log),
		resourcecreator.NewResourceCreatorUsecase(blobStore, fhirClient, internalConfig, log),
		internalConfig,
		log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bootstrap := config.Bootstrap{
		Redis:          redisClient,
		RabbitMQ:       rabbitConn,
		Logger:         log,
		DriverConfig:   driverConfig,
		InternalConfig: internalConfig,
	}

	if err := worker.Run(ctx); err != nil {
		logrus.Printf("Worker stopped with error: %v", err)
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Second*time.Duration(internalConfig.App.ShutdownTimeout),
	)
	defer cancel()

	if err := bootstrap.Shutdown(shutdownCtx); err != nil {
		logrus.Printf("Error during shutdown: %v", err)
	}
	logrus.Println("Worker exiting")
}
