package contracts

import (
	"context"
	"net/url"

	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
)

// StartImportJobInput carries everything the datastore needs to run a bulk
// import from the staging bucket.
type StartImportJobInput struct {
	JobName     string
	InputS3Uri  string
	OutputS3Uri string
	KmsKeyID    string
	RoleArn     string
	ClientToken string
}

// DatastoreService is the managed-service control plane: import jobs and
// datastore lifecycle queries.
type DatastoreService interface {
	StartImportJob(ctx context.Context, input StartImportJobInput) (*models.ImportJob, error)
	DescribeImportJob(ctx context.Context, jobID string) (*models.ImportJob, error)
	DescribeDatastore(ctx context.Context, datastoreID string) (*models.Datastore, error)
	ListDatastores(ctx context.Context) ([]models.Datastore, error)
}

// FhirClient is the datastore data plane: individual resource operations over
// the signed FHIR REST endpoint.
type FhirClient interface {
	// CreateResource upserts a resource by type and id (PUT semantics).
	CreateResource(ctx context.Context, resourceType, id string, resource interface{}) error
	// ReadResource fetches a resource by type and id into out.
	ReadResource(ctx context.Context, resourceType, id string, out interface{}) error
	// Search runs a GET search with query parameters.
	Search(ctx context.Context, resourceType string, params url.Values) (*fhir_dto.Bundle, error)
	// SearchPost runs a POST _search with form-encoded parameters.
	SearchPost(ctx context.Context, resourceType string, params url.Values) (*fhir_dto.Bundle, error)
	// RawRequest sends a signed request to an arbitrary path under the FHIR
	// endpoint and returns the raw response body.
	RawRequest(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, int, error)
}
