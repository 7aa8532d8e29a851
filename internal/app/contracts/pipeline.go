package contracts

import (
	"context"

	"healthlake-pipeline/internal/app/models"
)

// ImportUsecase orchestrates FHIR bulk imports from object-created events.
type ImportUsecase interface {
	// ProcessObject stages the uploaded FHIR document and submits an import
	// job. Non-FHIR objects are skipped with a nil error.
	ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ImportJob, error)
	// ProcessBatch submits one import job covering a whole prefix.
	ProcessBatch(ctx context.Context, bucket, prefix string) (*models.ImportJob, error)
	JobStatus(ctx context.Context, jobID string) (*models.ImportJob, error)
}

// ClinicalNotesUsecase runs the NLP pass over uploaded text notes.
type ClinicalNotesUsecase interface {
	// ProcessObject analyzes the note and writes the result object, returning
	// the output key.
	ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error)
}

// TranscriptionUsecase transcribes uploaded audio and runs the NLP pass over
// the transcript.
type TranscriptionUsecase interface {
	ProcessObject(ctx context.Context, event models.ObjectEvent) (string, error)
}

// ResourceCreatorUsecase converts NLP result objects into FHIR resources.
type ResourceCreatorUsecase interface {
	ProcessObject(ctx context.Context, event models.ObjectEvent) (*models.ProcessingSummary, error)
}
