package main

import (
	"context"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	s3events "healthlake-pipeline/internal/app/delivery/lambda"
	"healthlake-pipeline/internal/app/drivers/cloud"
	"healthlake-pipeline/internal/app/drivers/logger"
	"healthlake-pipeline/internal/app/services/shared/comprehendmedical"
	"healthlake-pipeline/internal/app/services/shared/nlp"
	"healthlake-pipeline/internal/app/services/shared/storage"
	"healthlake-pipeline/internal/app/services/shared/transcribemedical"
	"healthlake-pipeline/internal/app/services/transcription"
	"healthlake-pipeline/internal/pkg/constvars"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

var transcriptionUsecase contracts.TranscriptionUsecase

func init() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewZapLogger(driverConfig, internalConfig)

	awsConfig := cloud.NewAWSConfig(driverConfig)
	blobStore := storage.NewS3Storage(cloud.NewS3Client(awsConfig))
	extractor := comprehendmedical.NewEntityExtractor(cloud.NewComprehendMedicalClient(awsConfig), log)
	transcriber := transcribemedical.NewMedicalTranscriber(cloud.NewTranscribeClient(awsConfig), log)
	analyzer := nlp.NewAnalyzer(extractor, log)

	transcriptionUsecase = transcription.NewTranscriptionUsecase(blobStore, transcriber, analyzer, internalConfig, log)
}

func handler(ctx context.Context, event events.S3Event) error {
	requestID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		requestID = lc.AwsRequestID
	}
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, requestID)

	objectEvents, err := s3events.ParseS3Event(event)
	if err != nil {
		return err
	}

	for _, objectEvent := range objectEvents {
		if _, err := transcriptionUsecase.ProcessObject(ctx, objectEvent); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
