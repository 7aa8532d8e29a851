package constvars

// Key-prefix conventions for the source and output buckets.
const (
	PrefixPatients      = "patients/"
	PrefixObservations  = "observations/"
	PrefixProcedures    = "procedures/"
	PrefixClinicalNotes = "clinical-notes/"
	PrefixAudio         = "audio/"

	PrefixImportReady    = "import-ready/"
	PrefixImportJobs     = "import-jobs/"
	PrefixImportResults  = "import-results/"
	PrefixProcessed      = "processed/"
	PrefixTranscriptions = "transcriptions/"
	PrefixFhirProcessing = "fhir-processing/"

	SuffixProcessed            = "_processed.json"
	SuffixTranscriptionResults = "_transcription_results.json"
)

// Import job statuses as reported by the datastore.
const (
	ImportJobStatusSubmitted           = "SUBMITTED"
	ImportJobStatusInProgress          = "IN_PROGRESS"
	ImportJobStatusCompleted           = "COMPLETED"
	ImportJobStatusCompletedWithErrors = "COMPLETED_WITH_ERRORS"
	ImportJobStatusFailed              = "FAILED"
)

// Entity categories reported by the medical NLP service.
const (
	EntityCategoryMedication       = "MEDICATION"
	EntityCategoryMedicalCondition = "MEDICAL_CONDITION"
	EntityCategoryProcedure        = "TEST_TREATMENT_PROCEDURE"
	EntityCategoryPHI              = "PROTECTED_HEALTH_INFORMATION"
)

// Coded vocabularies offered by the medical NLP service.
const (
	VocabularyICD10CM  = "ICD10CM"
	VocabularyRxNorm   = "RXNORM"
	VocabularySNOMEDCT = "SNOMEDCT"
)

// PHI entity types used when assembling a Patient resource.
const (
	PhiTypeName    = "NAME"
	PhiTypeAge     = "AGE"
	PhiTypeID      = "ID"
	PhiTypeDate    = "DATE"
	PhiTypeAddress = "ADDRESS"
)
