package resourcecreator

import (
	"encoding/base64"
	"testing"
	"time"

	"healthlake-pipeline/internal/app/models"
	"healthlake-pipeline/internal/pkg/constvars"
	"healthlake-pipeline/internal/pkg/fhir_dto"

	"github.com/stretchr/testify/assert"
)

func sampleResult() *models.NLPResult {
	return &models.NLPResult{
		ProcessingID: "proc-1",
		SourceKey:    "clinical-notes/visit.txt",
		OriginalText: "62-year-old male with chest pain, prescribed aspirin.",
		PHIEntities: []models.Entity{
			{Text: "John Smith", Type: constvars.PhiTypeName, Score: 0.99},
			{Text: "62-year-old", Type: constvars.PhiTypeAge, Score: 0.97},
			{Text: "MRN12345", Type: constvars.PhiTypeID, Score: 0.95},
		},
		Diagnoses: []models.CategorizedEntity{
			{Text: "chest pain", Confidence: 0.91, BeginOffset: 23, EndOffset: 33},
			{Text: "maybe angina", Confidence: 0.31, BeginOffset: 40, EndOffset: 52},
		},
		Medications: []models.CategorizedEntity{
			{Text: "aspirin", Confidence: 0.88, BeginOffset: 55, EndOffset: 62,
				Attributes: []models.Attribute{{Text: "81 mg", Score: 0.9}}},
		},
		Cardiovascular: []models.CategorizedEntity{
			{Text: "chest pain", Confidence: 0.91, BeginOffset: 23, EndOffset: 33},
		},
	}
}

func defaultConfig() mapperConfig {
	return mapperConfig{ConfidenceThreshold: 0.5, MaxResourcesPerCategory: 5}
}

func TestBuildResources(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

	t.Run("builds the full resource set", func(t *testing.T) {
		resources := buildResources(sampleResult(), defaultConfig(), now)

		byType := make(map[string]int)
		for _, resource := range resources {
			byType[resource.ResourceType]++
		}
		assert.Equal(t, 1, byType[constvars.ResourcePatient])
		assert.Equal(t, 1, byType[constvars.ResourceDocumentReference])
		assert.Equal(t, 1, byType[constvars.ResourceCondition])
		assert.Equal(t, 1, byType[constvars.ResourceMedicationStatement])
		assert.Equal(t, 1, byType[constvars.ResourceObservation])
	})

	t.Run("drops entities below the confidence threshold", func(t *testing.T) {
		resources := buildResources(sampleResult(), defaultConfig(), now)

		for _, resource := range resources {
			if condition, ok := resource.Resource.(*fhir_dto.Condition); ok {
				assert.Equal(t, "chest pain", condition.Code.Text)
			}
		}
	})

	t.Run("caps resources per category", func(t *testing.T) {
		result := sampleResult()
		result.Diagnoses = []models.CategorizedEntity{
			{Text: "one", Confidence: 0.9, BeginOffset: 1, EndOffset: 2},
			{Text: "two", Confidence: 0.9, BeginOffset: 3, EndOffset: 4},
			{Text: "three", Confidence: 0.9, BeginOffset: 5, EndOffset: 6},
		}
		cfg := mapperConfig{ConfidenceThreshold: 0.5, MaxResourcesPerCategory: 2}

		resources := buildResources(result, cfg, now)
		conditions := 0
		for _, resource := range resources {
			if resource.ResourceType == constvars.ResourceCondition {
				conditions++
			}
		}
		assert.Equal(t, 2, conditions)
	})

	t.Run("ids are stable across runs", func(t *testing.T) {
		first := buildResources(sampleResult(), defaultConfig(), now)
		second := buildResources(sampleResult(), defaultConfig(), now.Add(time.Hour))

		assert.Equal(t, len(first), len(second))
		for i := range first {
			assert.Equal(t, first[i].ID, second[i].ID)
		}
	})
}

func TestBuildPatient(t *testing.T) {
	now := time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)
	patient := buildPatient(sampleResult(), now)

	assert.Equal(t, constvars.ResourcePatient, patient.ResourceType)
	assert.True(t, patient.Active)
	assert.Equal(t, "John Smith", patient.Name[0].Text)
	assert.Equal(t, "1963-01-01", patient.BirthDate)
	assert.Equal(t, "MRN12345", patient.Identifier[0].Value)
	assert.Equal(t, constvars.FhirIdentifierTypeMrnCode, patient.Identifier[0].Type.Coding[0].Code)

	tags := patient.Meta.Tag
	assert.Equal(t, constvars.FhirTagCodeNlpExtracted, tags[0].Code)
	assert.Equal(t, "clinical-notes/visit.txt", tags[1].Display)
}

func TestBuildDocumentReference(t *testing.T) {
	recordedAt := "2025-06-01T12:00:00.000Z"
	subject := fhir_dto.Reference{Reference: "Patient/p1"}

	t.Run("embeds the source text base64 encoded", func(t *testing.T) {
		result := sampleResult()
		docRef := buildDocumentReference(result, subject, recordedAt)

		assert.NotNil(t, docRef)
		assert.Equal(t, "current", docRef.Status)
		decoded, err := base64.StdEncoding.DecodeString(docRef.Content[0].Attachment.Data)
		assert.NoError(t, err)
		assert.Equal(t, result.OriginalText, string(decoded))
		assert.Equal(t, constvars.FhirLoincProgressNoteCode, docRef.Type.Coding[0].Code)
	})

	t.Run("titles transcription sources differently", func(t *testing.T) {
		result := sampleResult()
		result.OriginalAudioFile = "s3://source/audio/visit.wav"
		result.TranscriptionText = result.OriginalText
		result.OriginalText = ""

		docRef := buildDocumentReference(result, subject, recordedAt)
		assert.Equal(t, "Transcribed clinical conversation", docRef.Content[0].Attachment.Title)
	})

	t.Run("returns nil with no text", func(t *testing.T) {
		result := sampleResult()
		result.OriginalText = ""
		assert.Nil(t, buildDocumentReference(result, subject, recordedAt))
	})
}

func TestParseAge(t *testing.T) {
	cases := []struct {
		text string
		age  int
		ok   bool
	}{
		{"62-year-old", 62, true},
		{"62 years", 62, true},
		{"8yo", 8, true},
		{"unknown age", 0, false},
		{"999-year-old", 0, false},
	}
	for _, tc := range cases {
		age, ok := parseAge(tc.text)
		assert.Equal(t, tc.ok, ok, tc.text)
		assert.Equal(t, tc.age, age, tc.text)
	}
}

func TestMedicationText(t *testing.T) {
	entity := models.CategorizedEntity{
		Text: "aspirin",
		Attributes: []models.Attribute{
			{Text: "81 mg"},
			{Text: "daily"},
		},
	}
	assert.Equal(t, "aspirin 81 mg daily", medicationText(entity))
}
