package controllers

import (
	"net/http"
	"sync"

	"healthlake-pipeline/internal/app/contracts"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/dto/requests"
	"healthlake-pipeline/internal/pkg/exceptions"
	"healthlake-pipeline/internal/pkg/fhir_dto"
	"healthlake-pipeline/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type PipelineController struct {
	Log           *zap.Logger
	ImportUsecase contracts.ImportUsecase
	FhirClient    contracts.FhirClient
}

var (
	pipelineControllerInstance *PipelineController
	oncePipelineController     sync.Once
)

func NewPipelineController(logger *zap.Logger, importUsecase contracts.ImportUsecase, fhirClient contracts.FhirClient) *PipelineController {
	oncePipelineController.Do(func() {
		instance := &PipelineController{
			Log:           logger,
			ImportUsecase: importUsecase,
			FhirClient:    fhirClient,
		}
		pipelineControllerInstance = instance
	})
	return pipelineControllerInstance
}

func (ctrl *PipelineController) TriggerBatchImport(w http.ResponseWriter, r *http.Request) {
	request := new(requests.BatchImport)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotUnmarshalJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	job, err := ctrl.ImportUsecase.ProcessBatch(r.Context(), request.Bucket, request.Prefix)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, "import job submitted", job)
}

func (ctrl *PipelineController) DescribeImportJob(w http.ResponseWriter, r *http.Request) {
	jobID := chi.URLParam(r, "jobID")

	job, err := ctrl.ImportUsecase.JobStatus(r.Context(), jobID)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, "import job retrieved", job)
}

func (ctrl *PipelineController) CreatePatient(w http.ResponseWriter, r *http.Request) {
	request := new(requests.CreatePatient)
	if err := json.NewDecoder(r.Body).Decode(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotUnmarshalJSON(err))
		return
	}
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(err))
		return
	}

	patient := buildPatientResource(request)
	err := ctrl.FhirClient.CreateResource(r.Context(), constvars.ResourcePatient, patient.ID, patient)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusCreated, "patient created", patient)
}

func buildPatientResource(request *requests.CreatePatient) *fhir_dto.Patient {
	patient := &fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		ID:           uuid.NewString(),
		Active:       true,
		Name: []fhir_dto.HumanName{{
			Use:  "official",
			Text: request.Name,
		}},
		Gender:    request.Gender,
		BirthDate: request.BirthDate,
	}

	if request.MRN != "" {
		patient.Identifier = []fhir_dto.Identifier{{
			Use:    "usual",
			System: constvars.FhirPatientIdentitySystem,
			Value:  request.MRN,
			Type: fhir_dto.CodeableConcept{
				Coding: []fhir_dto.Coding{{
					System: constvars.FhirIdentifierTypeSystem,
					Code:   constvars.FhirIdentifierTypeMrnCode,
				}},
			},
		}}
	}
	return patient
}
