package contracts

import "context"

// TranscriptionJob reports the state of an asynchronous transcription.
type TranscriptionJob struct {
	Name          string
	Status        string
	TranscriptURI string
	FailureReason string
}

// Transcriber is the asynchronous medical transcription surface.
type Transcriber interface {
	// StartTranscription submits a job over the media object and returns the
	// job name used for polling.
	StartTranscription(ctx context.Context, jobName, mediaURI, mediaFormat, outputBucket, outputKey string) error
	GetTranscription(ctx context.Context, jobName string) (*TranscriptionJob, error)
	ListTranscriptions(ctx context.Context, status string) ([]TranscriptionJob, error)
}
