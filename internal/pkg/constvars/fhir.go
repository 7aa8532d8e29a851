package constvars

const (
	ResourcePatient             = "Patient"
	ResourceObservation         = "Observation"
	ResourceCondition           = "Condition"
	ResourceProcedure           = "Procedure"
	ResourceMedicationStatement = "MedicationStatement"
	ResourceDocumentReference   = "DocumentReference"
	ResourceBundle              = "Bundle"
)

const (
	FhirTagSystem             = "http://gocathlab.com/fhir/tags"
	FhirTagCodeNlpExtracted   = "nlp-extracted"
	FhirTagCodeNlpSource      = "nlp-source"
	FhirPatientIdentitySystem = "http://gocathlab.com/patient-id"
	FhirIdentifierTypeSystem  = "http://terminology.hl7.org/CodeSystem/v2-0203"
	FhirConditionClinical     = "http://terminology.hl7.org/CodeSystem/condition-clinical"
	FhirConditionVerification = "http://terminology.hl7.org/CodeSystem/condition-ver-status"
	FhirObservationCategory   = "http://terminology.hl7.org/CodeSystem/observation-category"
	FhirSnomedSystem          = "http://snomed.info/sct"
	FhirLoincSystem           = "http://loinc.org"
	FhirIheFormatSystem       = "http://ihe.net/fhir/ihe.formatcode.fhir/CodeSystem/formatcode"
	FhirIheFormatMimeTypeCode = "urn:ihe:iti:xds:2017:mimeTypeSufficient"
	FhirLoincProgressNoteCode = "11506-3"
	FhirSnomedClinicalFinding = "404684003"
	FhirIdentifierTypeMrnCode = "MR"
)
