package main

import (
	"context"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	s3events "healthlake-pipeline/internal/app/delivery/lambda"
	"healthlake-pipeline/internal/app/drivers/cloud"
	"healthlake-pipeline/internal/app/drivers/logger"
	"healthlake-pipeline/internal/app/services/resourcecreator"
	"healthlake-pipeline/internal/app/services/shared/healthlake"
	"healthlake-pipeline/internal/app/services/shared/storage"
	"healthlake-pipeline/internal/pkg/constvars"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

var resourceCreatorUsecase contracts.ResourceCreatorUsecase

func init() {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewZapLogger(driverConfig, internalConfig)

	awsConfig := cloud.NewAWSConfig(driverConfig)
	blobStore := storage.NewS3Storage(cloud.NewS3Client(awsConfig))
	fhirClient := healthlake.NewFhirClient(internalConfig.Datastore.Endpoint, driverConfig.AWS.Region, awsConfig.Credentials, log)

	resourceCreatorUsecase = resourcecreator.NewResourceCreatorUsecase(blobStore, fhirClient, internalConfig, log)
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
		if _, err := resourceCreatorUsecase.ProcessObject(ctx, objectEvent); err != nil {
			return err
		}
	}
	return nil
}

func main() {
	lambda.Start(handler)
}
