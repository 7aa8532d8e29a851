package models

// Entity is one medical concept extracted from free text.
type Entity struct {
	Text        string      `json:"text"`
	Category    string      `json:"category"`
	Type        string      `json:"type,omitempty"`
	Score       float64     `json:"score"`
	BeginOffset int         `json:"begin_offset"`
	EndOffset   int         `json:"end_offset"`
	Attributes  []Attribute `json:"attributes,omitempty"`
}

// Attribute qualifies an entity (dosage, frequency, anatomical site).
type Attribute struct {
	Text  string  `json:"text"`
	Type  string  `json:"type,omitempty"`
	Score float64 `json:"score"`
}

// CodedConcept is a single coded-vocabulary candidate for an entity.
type CodedConcept struct {
	Code        string  `json:"code"`
	Description string  `json:"description,omitempty"`
	Score       float64 `json:"score"`
}

// CodedEntity pairs an extracted entity with its inferred vocabulary concepts.
type CodedEntity struct {
	Entity   Entity         `json:"entity"`
	Concepts []CodedConcept `json:"concepts,omitempty"`
}

// CategorizedEntity is an entity routed into one of the clinical buckets,
// annotated with where it came from.
type CategorizedEntity struct {
	Text        string      `json:"text"`
	Confidence  float64     `json:"confidence"`
	Type        string      `json:"type,omitempty"`
	BeginOffset int         `json:"begin_offset"`
	EndOffset   int         `json:"end_offset"`
	Attributes  []Attribute `json:"attributes,omitempty"`
	Source      string      `json:"source,omitempty"`
}

// NLPResult is the terminal output of one NLP pass over a document. It is
// written once to the output bucket and never mutated.
type NLPResult struct {
	Timestamp         string              `json:"timestamp"`
	ProcessingID      string              `json:"processing_id"`
	SourceKey         string              `json:"source_key"`
	OriginalText      string              `json:"original_text,omitempty"`
	OriginalAudioFile string              `json:"original_audio_file,omitempty"`
	TranscriptionText string              `json:"transcription_text,omitempty"`
	Entities          []Entity            `json:"entities"`
	PHIEntities       []Entity            `json:"phi_entities"`
	Medications       []CategorizedEntity `json:"medications"`
	Diagnoses         []CategorizedEntity `json:"diagnoses"`
	Procedures        []CategorizedEntity `json:"procedures"`
	Cardiovascular    []CategorizedEntity `json:"cardiovascular_entities"`
	ICD10CM           []CodedEntity       `json:"icd10cm,omitempty"`
	RxNorm            []CodedEntity       `json:"rxnorm,omitempty"`
	SNOMEDCT          []CodedEntity       `json:"snomedct,omitempty"`
	Error             string              `json:"error,omitempty"`
}

// IsTranscription reports whether the result originated from audio.
func (r *NLPResult) IsTranscription() bool {
	return r.OriginalAudioFile != ""
}

// Text returns the raw document text regardless of origin.
func (r *NLPResult) Text() string {
	if r.TranscriptionText != "" {
		return r.TranscriptionText
	}
	return r.OriginalText
}

// ProcessingSummary records the outcome of one resource-creation pass.
type ProcessingSummary struct {
	Timestamp         string         `json:"timestamp"`
	ProcessingID      string         `json:"processing_id"`
	SourceKey         string         `json:"source_key"`
	EntitiesProcessed int            `json:"nlp_entities_processed"`
	ResourcesCreated  int            `json:"fhir_resources_created"`
	ResourceBreakdown map[string]int `json:"resource_breakdown"`
	SuccessfulStores  int            `json:"successful_stores"`
	FailedStores      int            `json:"failed_stores"`
}
