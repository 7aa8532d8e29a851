package contracts

import (
	"context"

	"healthlake-pipeline/internal/app/models"
)

// EntityExtractor is the medical NLP surface consumed by the pipeline:
// general entity extraction, PHI detection, and coded-vocabulary inference.
type EntityExtractor interface {
	DetectEntities(ctx context.Context, text string) ([]models.Entity, error)
	DetectPHI(ctx context.Context, text string) ([]models.Entity, error)
	InferICD10CM(ctx context.Context, text string) ([]models.CodedEntity, error)
	InferRxNorm(ctx context.Context, text string) ([]models.CodedEntity, error)
	InferSNOMEDCT(ctx context.Context, text string) ([]models.CodedEntity, error)
}
