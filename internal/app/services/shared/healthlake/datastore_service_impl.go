package healthlake

import (
	"context"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/healthlake"
	"github.com/aws/aws-sdk-go-v2/service/healthlake/types"
	"go.uber.org/zap"
)

var (
	datastoreServiceInstance contracts.DatastoreService
	onceDatastoreService     sync.Once
)

type datastoreService struct {
	client      *healthlake.Client
	datastoreID string
	Log         *zap.Logger
}

func NewDatastoreService(client *healthlake.Client, datastoreID string, logger *zap.Logger) contracts.DatastoreService {
	onceDatastoreService.Do(func() {
		instance := &datastoreService{
			client:      client,
			datastoreID: datastoreID,
			Log:         logger,
		}
		datastoreServiceInstance = instance
	})
	return datastoreServiceInstance
}

func (s *datastoreService) StartImportJob(ctx context.Context, input contracts.StartImportJobInput) (*models.ImportJob, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("datastoreService.StartImportJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobNameKey, input.JobName),
	)

	output, err := s.client.StartFHIRImportJob(ctx, &healthlake.StartFHIRImportJobInput{
		DatastoreId:       aws.String(s.datastoreID),
		DataAccessRoleArn: aws.String(input.RoleArn),
		JobName:           aws.String(input.JobName),
		ClientToken:       aws.String(input.ClientToken),
		InputDataConfig:   &types.InputDataConfigMemberS3Uri{Value: input.InputS3Uri},
		JobOutputDataConfig: &types.OutputDataConfigMemberS3Configuration{
			Value: types.S3Configuration{
				S3Uri:    aws.String(input.OutputS3Uri),
				KmsKeyId: aws.String(input.KmsKeyID),
			},
		},
	})
	if err != nil {
		s.Log.Error("datastoreService.StartImportJob error submitting job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobNameKey, input.JobName),
			zap.Error(err),
		)
		return nil, exceptions.ErrStartImportJob(err)
	}

	job := &models.ImportJob{
		JobID:       aws.ToString(output.JobId),
		JobName:     input.JobName,
		Status:      string(output.JobStatus),
		SubmittedAt: utils.FhirDateTimeNow(),
		StagingFile: input.InputS3Uri,
		OutputPath:  input.OutputS3Uri,
	}

	s.Log.Info("datastoreService.StartImportJob succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, job.JobID),
		zap.String(constvars.LoggingJobStatusKey, job.Status),
	)
	return job, nil
}

func (s *datastoreService) DescribeImportJob(ctx context.Context, jobID string) (*models.ImportJob, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("datastoreService.DescribeImportJob called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingJobIDKey, jobID),
	)

	output, err := s.client.DescribeFHIRImportJob(ctx, &healthlake.DescribeFHIRImportJobInput{
		DatastoreId: aws.String(s.datastoreID),
		JobId:       aws.String(jobID),
	})
	if err != nil {
		s.Log.Error("datastoreService.DescribeImportJob error describing job",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingJobIDKey, jobID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDescribeImportJob(err, jobID)
	}

	properties := output.ImportJobProperties
	job := &models.ImportJob{
		JobID:   aws.ToString(properties.JobId),
		JobName: aws.ToString(properties.JobName),
		Status:  string(properties.JobStatus),
		Message: aws.ToString(properties.Message),
	}
	if properties.SubmitTime != nil {
		job.SubmittedAt = utils.FhirDateTime(*properties.SubmitTime)
	}
	if properties.EndTime != nil {
		job.EndedAt = utils.FhirDateTime(*properties.EndTime)
	}
	return job, nil
}

func (s *datastoreService) DescribeDatastore(ctx context.Context, datastoreID string) (*models.Datastore, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("datastoreService.DescribeDatastore called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingDatastoreIDKey, datastoreID),
	)

	if datastoreID == "" {
		datastoreID = s.datastoreID
	}

	output, err := s.client.DescribeFHIRDatastore(ctx, &healthlake.DescribeFHIRDatastoreInput{
		DatastoreId: aws.String(datastoreID),
	})
	if err != nil {
		s.Log.Error("datastoreService.DescribeDatastore error describing datastore",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.String(constvars.LoggingDatastoreIDKey, datastoreID),
			zap.Error(err),
		)
		return nil, exceptions.ErrDescribeDatastore(err, datastoreID)
	}

	return mapDatastoreProperties(output.DatastoreProperties), nil
}

func (s *datastoreService) ListDatastores(ctx context.Context) ([]models.Datastore, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)
	s.Log.Info("datastoreService.ListDatastores called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
	)

	datastores := make([]models.Datastore, 0)
	var nextToken *string
	for {
		output, err := s.client.ListFHIRDatastores(ctx, &healthlake.ListFHIRDatastoresInput{
			NextToken: nextToken,
		})
		if err != nil {
			s.Log.Error("datastoreService.ListDatastores error listing datastores",
				zap.String(constvars.LoggingRequestIDKey, requestID),
				zap.Error(err),
			)
			return nil, exceptions.ErrListDatastores(err)
		}

		for i := range output.DatastorePropertiesList {
			datastores = append(datastores, *mapDatastoreProperties(&output.DatastorePropertiesList[i]))
		}

		if output.NextToken == nil {
			break
		}
		nextToken = output.NextToken
	}
	return datastores, nil
}

func mapDatastoreProperties(properties *types.DatastoreProperties) *models.Datastore {
	datastore := &models.Datastore{
		ID:          aws.ToString(properties.DatastoreId),
		Arn:         aws.ToString(properties.DatastoreArn),
		Name:        aws.ToString(properties.DatastoreName),
		Status:      string(properties.DatastoreStatus),
		TypeVersion: string(properties.DatastoreTypeVersion),
		Endpoint:    aws.ToString(properties.DatastoreEndpoint),
	}
	if properties.CreatedAt != nil {
		datastore.CreatedAt = utils.FhirDateTime(*properties.CreatedAt)
	}
	return datastore
}
