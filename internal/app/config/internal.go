package config

type InternalConfig struct {
	App       App
	Datastore Datastore
	Pipeline  Pipeline
	Worker    Worker
}

type App struct {
	Env                    string
	Port                   string
	Version                string
	EndpointPrefix         string
	APIKey                 string
	MaxRequests            int
	ShutdownTimeout        int
	RequestWindowInSeconds int
}

type Datastore struct {
	ID string
	// Endpoint is the FHIR REST base, e.g.
	// https://healthlake.us-east-1.amazonaws.com/datastore/<id>/r4
	Endpoint      string
	ImportRoleArn string
	KmsKeyID      string
}

type Pipeline struct {
	SourceBucket  string
	StagingBucket string
	OutputBucket  string
	// ConfidenceThreshold drops extracted entities scoring below it.
	ConfidenceThreshold float64
	// MaxResourcesPerCategory caps resources created per entity bucket.
	MaxResourcesPerCategory int
	// TranscriptionTimeoutInSeconds bounds the wait for a transcription job.
	TranscriptionTimeoutInSeconds int
	// TranscriptionPollIntervalInSeconds is the delay between status checks.
	TranscriptionPollIntervalInSeconds int
}

type Worker struct {
	Queue                    string
	Prefetch                 int
	DedupeRetentionInSeconds int
}
