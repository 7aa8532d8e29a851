package healthlake

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/fhir_dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestFhirClient(serverURL string) *fhirClient {
	return &fhirClient{
		endpoint: strings.TrimRight(serverURL, "/"),
		region:   "us-east-1",
		credentials: aws.CredentialsProviderFunc(func(ctx context.Context) (aws.Credentials, error) {
			return aws.Credentials{AccessKeyID: "test-key", SecretAccessKey: "test-secret"}, nil
		}),
		signer:     v4.NewSigner(),
		httpClient: &http.Client{},
		Log:        zap.NewNop(),
	}
}

func TestFhirClientRoundTrip(t *testing.T) {
	stored := map[string][]byte{}
	var lastAuthorization string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lastAuthorization = r.Header.Get("Authorization")

		switch r.Method {
		case http.MethodPut:
			body, err := io.ReadAll(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			stored[r.URL.Path] = body
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			body, ok := stored[r.URL.Path]
			if !ok {
				w.WriteHeader(http.StatusNotFound)
				w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"not-found","diagnostics":"Resource not found"}]}`))
				return
			}
			w.WriteHeader(http.StatusOK)
			w.Write(body)
		}
	}))
	defer server.Close()

	client := newTestFhirClient(server.URL)
	ctx := context.Background()

	t.Run("created patient is readable with identical clinical fields", func(t *testing.T) {
		patient := &fhir_dto.Patient{
			ResourceType: constvars.ResourcePatient,
			ID:           "patient-42",
			Active:       true,
			Name:         []fhir_dto.HumanName{{Use: "official", Text: "Jane Doe"}},
			Gender:       "female",
			BirthDate:    "1963-01-01",
			Identifier: []fhir_dto.Identifier{{
				Use:    "usual",
				System: constvars.FhirPatientIdentitySystem,
				Value:  "MRN12345",
			}},
		}

		err := client.CreateResource(ctx, constvars.ResourcePatient, patient.ID, patient)
		require.NoError(t, err)
		assert.Contains(t, lastAuthorization, "AWS4-HMAC-SHA256")

		fetched := new(fhir_dto.Patient)
		err = client.ReadResource(ctx, constvars.ResourcePatient, patient.ID, fetched)
		require.NoError(t, err)

		assert.Equal(t, patient.ID, fetched.ID)
		assert.Equal(t, patient.Name, fetched.Name)
		assert.Equal(t, patient.Gender, fetched.Gender)
		assert.Equal(t, patient.BirthDate, fetched.BirthDate)
		assert.Equal(t, patient.Identifier, fetched.Identifier)
	})

	t.Run("reading a missing resource surfaces the outcome diagnostics", func(t *testing.T) {
		err := client.ReadResource(ctx, constvars.ResourcePatient, "missing-id", new(fhir_dto.Patient))

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 404")
		assert.Contains(t, err.Error(), "Resource not found")
	})
}

func TestFhirClientSearch(t *testing.T) {
	bundleJSON := []byte(`{"resourceType":"Bundle","type":"searchset","total":1,"entry":[{"resource":{"resourceType":"Condition","id":"cond-1"}}]}`)

	t.Run("GET search encodes the parameters into the query", func(t *testing.T) {
		var gotQuery url.Values
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = r.URL.Query()
			w.WriteHeader(http.StatusOK)
			w.Write(bundleJSON)
		}))
		defer server.Close()

		params := url.Values{}
		params.Set("patient", "patient-42")
		bundle, err := newTestFhirClient(server.URL).Search(context.Background(), constvars.ResourceCondition, params)

		require.NoError(t, err)
		assert.Equal(t, "patient-42", gotQuery.Get("patient"))
		assert.Equal(t, 1, bundle.Total)
		require.Len(t, bundle.Entry, 1)
	})

	t.Run("POST search sends form-encoded parameters to _search", func(t *testing.T) {
		var gotPath, gotContentType, gotBody string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			gotContentType = r.Header.Get(constvars.HeaderContentType)
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusOK)
			w.Write(bundleJSON)
		}))
		defer server.Close()

		params := url.Values{}
		params.Set("code", "8867-4")
		bundle, err := newTestFhirClient(server.URL).SearchPost(context.Background(), constvars.ResourceObservation, params)

		require.NoError(t, err)
		assert.Equal(t, "/Observation/_search", gotPath)
		assert.Equal(t, constvars.MIMEApplicationForm, gotContentType)
		assert.Equal(t, "code=8867-4", gotBody)
		assert.Equal(t, 1, bundle.Total)
	})

	t.Run("non-200 search surfaces the outcome diagnostics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"invalid","diagnostics":"Unknown search parameter"}]}`))
		}))
		defer server.Close()

		_, err := newTestFhirClient(server.URL).Search(context.Background(), constvars.ResourcePatient, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Contains(t, err.Error(), "Unknown search parameter")
	})
}

func TestFhirClientCreateError(t *testing.T) {
	t.Run("rejected create surfaces the outcome diagnostics", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"resourceType":"OperationOutcome","issue":[{"severity":"error","code":"invariant","diagnostics":"Invalid resource content"}]}`))
		}))
		defer server.Close()

		err := newTestFhirClient(server.URL).CreateResource(context.Background(), constvars.ResourcePatient, "patient-1", &fhir_dto.Patient{ResourceType: constvars.ResourcePatient, ID: "patient-1"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "status 400")
		assert.Contains(t, err.Error(), "Invalid resource content")
	})
}
