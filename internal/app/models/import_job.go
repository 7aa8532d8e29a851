package models

// ImportJob tracks a datastore bulk import submitted for one staged object.
// A copy is persisted to the staging bucket under import-jobs/<jobID>.json.
type ImportJob struct {
	JobID        string `json:"jobId"`
	JobName      string `json:"jobName"`
	Status       string `json:"status"`
	SubmittedAt  string `json:"submittedAt"`
	EndedAt      string `json:"endedAt,omitempty"`
	SourceFile   string `json:"sourceFile"`
	StagingFile  string `json:"stagingFile"`
	OutputPath   string `json:"outputPath,omitempty"`
	ResourceType string `json:"resourceType"`
	ResourceID   string `json:"resourceId"`
	Message      string `json:"message,omitempty"`
}

// Datastore describes a FHIR datastore as reported by the managed service.
type Datastore struct {
	ID          string `json:"id"`
	Arn         string `json:"arn,omitempty"`
	Name        string `json:"name,omitempty"`
	Status      string `json:"status,omitempty"`
	TypeVersion string `json:"typeVersion,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
}
