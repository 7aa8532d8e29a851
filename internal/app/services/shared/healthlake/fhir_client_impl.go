package healthlake

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/fhir_dto"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

const signingServiceName = "healthlake"

var (
	fhirClientInstance contracts.FhirClient
	onceFhirClient     sync.Once
)

type fhirClient struct {
	endpoint    string
	region      string
	credentials aws.CredentialsProvider
	signer      *v4.Signer
	httpClient  *http.Client
	Log         *zap.Logger
}

// NewFhirClient builds a data-plane client for the datastore FHIR endpoint.
// Every request is signed with SigV4 before it leaves the process.
func NewFhirClient(endpoint, region string, credentials aws.CredentialsProvider, logger *zap.Logger) contracts.FhirClient {
	onceFhirClient.Do(func() {
		instance := &fhirClient{
			endpoint:    strings.TrimRight(endpoint, "/"),
			region:      region,
			credentials: credentials,
			signer:      v4.NewSigner(),
			httpClient:  &http.Client{Timeout: 30 * time.Second},
			Log:         logger,
		}
		fhirClientInstance = instance
	})
	return fhirClientInstance
}

func (c *fhirClient) CreateResource(ctx context.Context, resourceType, id string, resource interface{}) error {
	requestJSON, err := json.Marshal(resource)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	body, statusCode, err := c.send(ctx, constvars.MethodPut, fmt.Sprintf("%s/%s", resourceType, id), requestJSON, constvars.MIMEApplicationFHIRJSON)
	if err != nil {
		return err
	}

	if statusCode != constvars.StatusOK && statusCode != constvars.StatusCreated {
		return exceptions.ErrCreateFHIRResource(operationOutcomeError(body, statusCode), resourceType)
	}
	return nil
}

func (c *fhirClient) ReadResource(ctx context.Context, resourceType, id string, out interface{}) error {
	body, statusCode, err := c.send(ctx, constvars.MethodGet, fmt.Sprintf("%s/%s", resourceType, id), nil, "")
	if err != nil {
		return err
	}

	if statusCode != constvars.StatusOK {
		return exceptions.ErrReadFHIRResource(operationOutcomeError(body, statusCode), resourceType)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return exceptions.ErrDecodeResponse(err, resourceType)
	}
	return nil
}

func (c *fhirClient) Search(ctx context.Context, resourceType string, params url.Values) (*fhir_dto.Bundle, error) {
	path := resourceType
	if encoded := params.Encode(); encoded != "" {
		path = fmt.Sprintf("%s?%s", resourceType, encoded)
	}

	body, statusCode, err := c.send(ctx, constvars.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}
	return decodeBundle(body, statusCode, resourceType)
}

func (c *fhirClient) SearchPost(ctx context.Context, resourceType string, params url.Values) (*fhir_dto.Bundle, error) {
	body, statusCode, err := c.send(ctx, constvars.MethodPost, fmt.Sprintf("%s/_search", resourceType), []byte(params.Encode()), constvars.MIMEApplicationForm)
	if err != nil {
		return nil, err
	}
	return decodeBundle(body, statusCode, resourceType)
}

func (c *fhirClient) RawRequest(ctx context.Context, method, path string, body json.RawMessage) (json.RawMessage, int, error) {
	contentType := ""
	if len(body) > 0 {
		contentType = constvars.MIMEApplicationFHIRJSON
	}
	return c.send(ctx, method, strings.TrimLeft(path, "/"), body, contentType)
}

func (c *fhirClient) send(ctx context.Context, method, path string, payload []byte, contentType string) (json.RawMessage, int, error) {
	requestID, _ := ctx.Value(constvars.CONTEXT_REQUEST_ID_KEY).(string)

	var reader io.Reader
	if len(payload) > 0 {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", c.endpoint, path), reader)
	if err != nil {
		return nil, 0, exceptions.ErrCreateHTTPRequest(err)
	}
	if contentType != "" {
		req.Header.Set(constvars.HeaderContentType, contentType)
	}

	payloadHash := sha256.Sum256(payload)
	credentials, err := c.credentials.Retrieve(ctx)
	if err != nil {
		return nil, 0, exceptions.ErrRetrieveCredentials(err)
	}

	err = c.signer.SignHTTP(ctx, credentials, req, hex.EncodeToString(payloadHash[:]), signingServiceName, c.region, time.Now())
	if err != nil {
		return nil, 0, exceptions.ErrSignRequest(err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.Log.Error("fhirClient.send error sending request",
			zap.String(constvars.LoggingRequestIDKey, requestID),
			zap.Error(err),
		)
		return nil, 0, exceptions.ErrSendHTTPRequest(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, exceptions.ErrSendHTTPRequest(err)
	}
	return body, resp.StatusCode, nil
}

func decodeBundle(body json.RawMessage, statusCode int, resourceType string) (*fhir_dto.Bundle, error) {
	if statusCode != constvars.StatusOK {
		return nil, exceptions.ErrSearchFHIRResources(operationOutcomeError(body, statusCode), resourceType)
	}

	bundle := new(fhir_dto.Bundle)
	if err := json.Unmarshal(body, bundle); err != nil {
		return nil, exceptions.ErrDecodeResponse(err, resourceType)
	}
	return bundle, nil
}

// operationOutcomeError turns a non-2xx FHIR response into a readable error,
// pulling diagnostics out of the OperationOutcome when the body carries one.
func operationOutcomeError(body json.RawMessage, statusCode int) error {
	outcome := new(fhir_dto.OperationOutcome)
	if err := json.Unmarshal(body, outcome); err == nil && len(outcome.Issue) > 0 {
		issue := outcome.Issue[0]
		return fmt.Errorf("status %d: %s %s: %s", statusCode, issue.Severity, issue.Code, issue.Diagnostics)
	}
	return fmt.Errorf("status %d: %s", statusCode, string(body))
}
