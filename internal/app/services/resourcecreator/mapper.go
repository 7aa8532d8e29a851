package resourcecreator

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/fhir_dto"
	"healthlake-pipeline/internal/pkg/utils"
)

// mappedResource is one FHIR resource ready for storage.
type mappedResource struct {
	ResourceType string
	ID           string
	Resource     interface{}
}

// mapperConfig bounds what the mapper produces from one NLP result.
type mapperConfig struct {
	ConfidenceThreshold     float64
	MaxResourcesPerCategory int
}

// buildResources converts an NLP result into the full set of FHIR resources:
// one Patient assembled from PHI, one DocumentReference carrying the source
// text, and capped batches of Conditions, MedicationStatements, Procedures and
// Observations. Resource ids are deterministic over the source document, so
// re-processing upserts rather than duplicates.
func buildResources(result *models.NLPResult, cfg mapperConfig, now time.Time) []mappedResource {
	recordedAt := utils.FhirDateTime(now)
	patient := buildPatient(result, now)
	patientRef := fhir_dto.Reference{
		Reference: fmt.Sprintf("%s/%s", constvars.ResourcePatient, patient.ID),
		Type:      constvars.ResourcePatient,
	}

	resources := []mappedResource{
		{ResourceType: constvars.ResourcePatient, ID: patient.ID, Resource: patient},
	}

	if docRef := buildDocumentReference(result, patientRef, recordedAt); docRef != nil {
		resources = append(resources, mappedResource{
			ResourceType: constvars.ResourceDocumentReference,
			ID:           docRef.ID,
			Resource:     docRef,
		})
	}

	for _, entity := range selectEntities(result.Diagnoses, cfg) {
		condition := buildCondition(result, entity, patientRef, recordedAt)
		resources = append(resources, mappedResource{
			ResourceType: constvars.ResourceCondition,
			ID:           condition.ID,
			Resource:     condition,
		})
	}

	for _, entity := range selectEntities(result.Medications, cfg) {
		statement := buildMedicationStatement(result, entity, patientRef, recordedAt)
		resources = append(resources, mappedResource{
			ResourceType: constvars.ResourceMedicationStatement,
			ID:           statement.ID,
			Resource:     statement,
		})
	}

	for _, entity := range selectEntities(result.Procedures, cfg) {
		procedure := buildProcedure(result, entity, patientRef, recordedAt)
		resources = append(resources, mappedResource{
			ResourceType: constvars.ResourceProcedure,
			ID:           procedure.ID,
			Resource:     procedure,
		})
	}

	for _, entity := range selectEntities(result.Cardiovascular, cfg) {
		observation := buildObservation(result, entity, patientRef, recordedAt)
		resources = append(resources, mappedResource{
			ResourceType: constvars.ResourceObservation,
			ID:           observation.ID,
			Resource:     observation,
		})
	}

	return resources
}

// selectEntities drops entities below the confidence threshold and caps the
// survivors per category.
func selectEntities(entities []models.CategorizedEntity, cfg mapperConfig) []models.CategorizedEntity {
	selected := make([]models.CategorizedEntity, 0, len(entities))
	for _, entity := range entities {
		if entity.Confidence < cfg.ConfidenceThreshold {
			continue
		}
		selected = append(selected, entity)
		if cfg.MaxResourcesPerCategory > 0 && len(selected) == cfg.MaxResourcesPerCategory {
			break
		}
	}
	return selected
}

func buildPatient(result *models.NLPResult, now time.Time) *fhir_dto.Patient {
	patient := &fhir_dto.Patient{
		ResourceType: constvars.ResourcePatient,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourcePatient, 0, 0),
		Meta:         nlpMeta(result.SourceKey),
		Active:       true,
	}

	for _, entity := range result.PHIEntities {
		switch entity.Type {
		case constvars.PhiTypeName:
			if len(patient.Name) == 0 {
				patient.Name = append(patient.Name, fhir_dto.HumanName{
					Use:  "usual",
					Text: entity.Text,
				})
			}
		case constvars.PhiTypeAge:
			if patient.BirthDate == "" {
				if age, ok := parseAge(entity.Text); ok {
					patient.BirthDate = utils.ApproximateBirthDate(age, now)
				}
			}
		case constvars.PhiTypeID:
			patient.Identifier = append(patient.Identifier, fhir_dto.Identifier{
				Use:    "usual",
				System: constvars.FhirPatientIdentitySystem,
				Value:  entity.Text,
				Type: fhir_dto.CodeableConcept{
					Coding: []fhir_dto.Coding{{
						System: constvars.FhirIdentifierTypeSystem,
						Code:   constvars.FhirIdentifierTypeMrnCode,
					}},
				},
			})
		case constvars.PhiTypeAddress:
			patient.Address = append(patient.Address, fhir_dto.Address{
				Use:  "home",
				Text: entity.Text,
			})
		}
	}

	return patient
}

func buildDocumentReference(result *models.NLPResult, subject fhir_dto.Reference, recordedAt string) *fhir_dto.DocumentReference {
	text := result.Text()
	if text == "" {
		return nil
	}

	title := "Clinical note"
	if result.IsTranscription() {
		title = "Transcribed clinical conversation"
	}

	return &fhir_dto.DocumentReference{
		ResourceType: constvars.ResourceDocumentReference,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourceDocumentReference, 0, 0),
		Meta:         nlpMeta(result.SourceKey),
		Status:       "current",
		Type: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{
				System:  constvars.FhirLoincSystem,
				Code:    constvars.FhirLoincProgressNoteCode,
				Display: "Progress note",
			}},
		},
		Subject: subject,
		Date:    recordedAt,
		Content: []fhir_dto.DocumentReferenceContent{{
			Attachment: fhir_dto.Attachment{
				ContentType: constvars.MIMETextPlain,
				Data:        base64.StdEncoding.EncodeToString([]byte(text)),
				Size:        int64(len(text)),
				Title:       title,
			},
			Format: &fhir_dto.Coding{
				System: constvars.FhirIheFormatSystem,
				Code:   constvars.FhirIheFormatMimeTypeCode,
			},
		}},
	}
}

func buildCondition(result *models.NLPResult, entity models.CategorizedEntity, subject fhir_dto.Reference, recordedAt string) *fhir_dto.Condition {
	return &fhir_dto.Condition{
		ResourceType: constvars.ResourceCondition,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourceCondition, entity.BeginOffset, entity.EndOffset),
		Meta:         nlpMeta(result.SourceKey),
		ClinicalStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{
				System: constvars.FhirConditionClinical,
				Code:   "active",
			}},
		},
		VerificationStatus: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{
				System: constvars.FhirConditionVerification,
				Code:   "unconfirmed",
			}},
		},
		Code: &fhir_dto.CodeableConcept{
			Coding: []fhir_dto.Coding{{
				System:  constvars.FhirSnomedSystem,
				Code:    constvars.FhirSnomedClinicalFinding,
				Display: "Clinical finding",
			}},
			Text: entity.Text,
		},
		Subject:      subject,
		RecordedDate: recordedAt,
		Note:         extractionNote(entity),
	}
}

func buildMedicationStatement(result *models.NLPResult, entity models.CategorizedEntity, subject fhir_dto.Reference, recordedAt string) *fhir_dto.MedicationStatement {
	return &fhir_dto.MedicationStatement{
		ResourceType: constvars.ResourceMedicationStatement,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourceMedicationStatement, entity.BeginOffset, entity.EndOffset),
		Meta:         nlpMeta(result.SourceKey),
		Status:       "active",
		MedicationCodeableConcept: &fhir_dto.CodeableConcept{
			Text: medicationText(entity),
		},
		Subject:           subject,
		EffectiveDateTime: recordedAt,
		Note:              extractionNote(entity),
	}
}

func buildProcedure(result *models.NLPResult, entity models.CategorizedEntity, subject fhir_dto.Reference, recordedAt string) *fhir_dto.Procedure {
	return &fhir_dto.Procedure{
		ResourceType: constvars.ResourceProcedure,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourceProcedure, entity.BeginOffset, entity.EndOffset),
		Meta:         nlpMeta(result.SourceKey),
		Status:       "completed",
		Code: &fhir_dto.CodeableConcept{
			Text: entity.Text,
		},
		Subject:           subject,
		PerformedDateTime: recordedAt,
		Note:              extractionNote(entity),
	}
}

func buildObservation(result *models.NLPResult, entity models.CategorizedEntity, subject fhir_dto.Reference, recordedAt string) *fhir_dto.Observation {
	return &fhir_dto.Observation{
		ResourceType: constvars.ResourceObservation,
		ID:           utils.DeterministicResourceID(result.SourceKey, constvars.ResourceObservation, entity.BeginOffset, entity.EndOffset),
		Meta:         nlpMeta(result.SourceKey),
		Status:       "preliminary",
		Category: []fhir_dto.CodeableConcept{{
			Coding: []fhir_dto.Coding{{
				System: constvars.FhirObservationCategory,
				Code:   "exam",
			}},
		}},
		Code: fhir_dto.CodeableConcept{
			Text: fmt.Sprintf("Cardiovascular finding: %s", entity.Text),
		},
		Subject:           subject,
		EffectiveDateTime: recordedAt,
		ValueString:       entity.Text,
		Note:              extractionNote(entity),
	}
}

// medicationText folds dosage and frequency attributes into the display text.
func medicationText(entity models.CategorizedEntity) string {
	parts := []string{entity.Text}
	for _, attribute := range entity.Attributes {
		if attribute.Text != "" {
			parts = append(parts, attribute.Text)
		}
	}
	return strings.Join(parts, " ")
}

func extractionNote(entity models.CategorizedEntity) []fhir_dto.Annotation {
	return []fhir_dto.Annotation{{
		Text: fmt.Sprintf("Extracted by medical NLP with confidence %.2f", entity.Confidence),
	}}
}

func nlpMeta(sourceKey string) *fhir_dto.Meta {
	return &fhir_dto.Meta{
		Tag: []fhir_dto.Coding{
			{
				System: constvars.FhirTagSystem,
				Code:   constvars.FhirTagCodeNlpExtracted,
			},
			{
				System:  constvars.FhirTagSystem,
				Code:    constvars.FhirTagCodeNlpSource,
				Display: sourceKey,
			},
		},
	}
}

// parseAge pulls the leading number out of an AGE phrase such as "62-year-old".
func parseAge(text string) (int, bool) {
	digits := strings.Builder{}
	for _, r := range strings.TrimSpace(text) {
		if r < '0' || r > '9' {
			break
		}
		digits.WriteRune(r)
	}
	if digits.Len() == 0 {
		return 0, false
	}
	age, err := strconv.Atoi(digits.String())
	if err != nil || age <= 0 || age > 130 {
		return 0, false
	}
	return age, true
}
