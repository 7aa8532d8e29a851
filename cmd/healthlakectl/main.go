package main

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"healthlake-pipeline/internal/app/config"
	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/app/drivers/cloud"
	"healthlake-pipeline/internal/app/drivers/logger"
	"healthlake-pipeline/internal/app/services/shared/healthlake"
	"healthlake-pipeline/internal/app/services/shared/transcribemedical"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/fhir_dto"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

type cli struct {
	datastoreService contracts.DatastoreService
	fhirClient       contracts.FhirClient
	transcriber      contracts.Transcriber
}

func newCLI() *cli {
	driverConfig := config.NewDriverConfig()
	internalConfig := config.NewInternalConfig()
	log := logger.NewZapLogger(driverConfig, internalConfig)

	awsConfig := cloud.NewAWSConfig(driverConfig)
	return &cli{
		datastoreService: healthlake.NewDatastoreService(cloud.NewHealthLakeClient(awsConfig), internalConfig.Datastore.ID, log),
		fhirClient:       healthlake.NewFhirClient(internalConfig.Datastore.Endpoint, driverConfig.AWS.Region, awsConfig.Credentials, log),
		transcriber:      transcribemedical.NewMedicalTranscriber(cloud.NewTranscribeClient(awsConfig), log),
	}
}

// parseSearchParams turns repeated key=value flags into FHIR search params.
func parseSearchParams(pairs []string) (url.Values, error) {
	params := url.Values{}
	for _, pair := range pairs {
		key, value, found := strings.Cut(pair, "=")
		if !found || key == "" {
			return nil, fmt.Errorf("invalid search parameter %q, expected key=value", pair)
		}
		params.Add(key, value)
	}
	return params, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	ctx = context.WithValue(ctx, constvars.CONTEXT_REQUEST_ID_KEY, uuid.NewString())
	return ctx, cancel
}

func printJSON(v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func newDatastoresCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "datastores",
		Short: "Inspect FHIR datastores",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List all datastores",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			datastores, err := c.datastoreService.ListDatastores(ctx)
			if err != nil {
				return err
			}
			return printJSON(datastores)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "describe [datastore-id]",
		Short: "Describe one datastore (defaults to the configured one)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			datastoreID := ""
			if len(args) == 1 {
				datastoreID = args[0]
			}
			datastore, err := c.datastoreService.DescribeDatastore(ctx, datastoreID)
			if err != nil {
				return err
			}
			return printJSON(datastore)
		},
	})

	return cmd
}

func newJobsCommand(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Inspect bulk import jobs",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "describe <job-id>",
		Short: "Describe an import job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			job, err := c.datastoreService.DescribeImportJob(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(job)
		},
	})

	var transcriptionStatus string
	listTranscriptions := &cobra.Command{
		Use:   "list-transcriptions",
		Short: "List medical transcription jobs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			jobs, err := c.transcriber.ListTranscriptions(ctx, transcriptionStatus)
			if err != nil {
				return err
			}
			return printJSON(jobs)
		},
	}
	listTranscriptions.Flags().StringVar(&transcriptionStatus, "status", "", "filter by job status (QUEUED, IN_PROGRESS, COMPLETED, FAILED)")
	cmd.AddCommand(listTranscriptions)

	return cmd
}

func newPatientCommand(c *cli) *cobra.Command {
	var gender, birthDate, mrn string

	cmd := &cobra.Command{
		Use:   "patient",
		Short: "Manage patients in the datastore",
	}

	create := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a patient resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			patient := &fhir_dto.Patient{
				ResourceType: constvars.ResourcePatient,
				ID:           uuid.NewString(),
				Active:       true,
				Name: []fhir_dto.HumanName{{
					Use:  "official",
					Text: args[0],
				}},
				Gender:    gender,
				BirthDate: birthDate,
			}
			if mrn != "" {
				patient.Identifier = []fhir_dto.Identifier{{
					Use:    "usual",
					System: constvars.FhirPatientIdentitySystem,
					Value:  mrn,
					Type: fhir_dto.CodeableConcept{
						Coding: []fhir_dto.Coding{{
							System: constvars.FhirIdentifierTypeSystem,
							Code:   constvars.FhirIdentifierTypeMrnCode,
						}},
					},
				}}
			}

			err := c.fhirClient.CreateResource(ctx, constvars.ResourcePatient, patient.ID, patient)
			if err != nil {
				return err
			}
			return printJSON(patient)
		},
	}
	create.Flags().StringVar(&gender, "gender", "", "patient gender (male, female, other, unknown)")
	create.Flags().StringVar(&birthDate, "birth-date", "", "birth date (YYYY-MM-DD)")
	create.Flags().StringVar(&mrn, "mrn", "", "medical record number")

	get := &cobra.Command{
		Use:   "get <patient-id>",
		Short: "Read a patient resource by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			patient := new(fhir_dto.Patient)
			if err := c.fhirClient.ReadResource(ctx, constvars.ResourcePatient, args[0], patient); err != nil {
				return err
			}
			return printJSON(patient)
		},
	}

	cmd.AddCommand(create, get)
	return cmd
}

func newSearchCommand(c *cli) *cobra.Command {
	var paramPairs []string
	var usePost bool

	cmd := &cobra.Command{
		Use:   "search <resource-type>",
		Short: "Search the datastore for resources",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			params, err := parseSearchParams(paramPairs)
			if err != nil {
				return err
			}

			var bundle *fhir_dto.Bundle
			if usePost {
				bundle, err = c.fhirClient.SearchPost(ctx, args[0], params)
			} else {
				bundle, err = c.fhirClient.Search(ctx, args[0], params)
			}
			if err != nil {
				return err
			}
			return printJSON(bundle)
		},
	}
	cmd.Flags().StringArrayVar(&paramPairs, "param", nil, "search parameter as key=value (repeatable)")
	cmd.Flags().BoolVar(&usePost, "post", false, "send the search as POST _search instead of GET")
	return cmd
}

func newRequestCommand(c *cli) *cobra.Command {
	var method string

	cmd := &cobra.Command{
		Use:   "request <path> [body]",
		Short: "Send a signed raw request to the FHIR endpoint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext()
			defer cancel()

			var body json.RawMessage
			if len(args) == 2 {
				body = json.RawMessage(args[1])
			}

			response, statusCode, err := c.fhirClient.RawRequest(ctx, method, args[0], body)
			if err != nil {
				return err
			}
			fmt.Fprintf(os.Stderr, "status: %d\n", statusCode)

			var pretty interface{}
			if err := json.Unmarshal(response, &pretty); err != nil {
				fmt.Println(string(response))
				return nil
			}
			return printJSON(pretty)
		},
	}
	cmd.Flags().StringVar(&method, "method", constvars.MethodGet, "HTTP method")
	return cmd
}

func main() {
	root := &cobra.Command{
		Use:           "healthlakectl",
		Short:         "Operate the clinical data pipeline datastore",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	c := newCLI()
	root.AddCommand(
		newDatastoresCommand(c),
		newJobsCommand(c),
		newPatientCommand(c),
		newSearchCommand(c),
		newRequestCommand(c),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
