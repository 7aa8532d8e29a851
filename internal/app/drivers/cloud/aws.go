package cloud

import (
	"context"
	"log"

	appconfig "healthlake-pipeline/internal/app/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/comprehendmedical"
	"github.com/aws/aws-sdk-go-v2/service/healthlake"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/transcribe"
)

// NewAWSConfig resolves the shared AWS configuration used by every service
// client. It fails fast so misconfiguration never reaches event handling.
func NewAWSConfig(driverConfig *appconfig.DriverConfig) aws.Config {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(driverConfig.AWS.Region),
	}
	if driverConfig.AWS.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(driverConfig.AWS.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), opts...)
	if err != nil {
		log.Fatalf("Failed to load AWS configuration: %s", err.Error())
	}
	return cfg
}

func NewS3Client(cfg aws.Config) *s3.Client {
	return s3.NewFromConfig(cfg)
}

func NewHealthLakeClient(cfg aws.Config) *healthlake.Client {
	return healthlake.NewFromConfig(cfg)
}

func NewComprehendMedicalClient(cfg aws.Config) *comprehendmedical.Client {
	return comprehendmedical.NewFromConfig(cfg)
}

func NewTranscribeClient(cfg aws.Config) *transcribe.Client {
	return transcribe.NewFromConfig(cfg)
}
