package fhir_dto

type MedicationStatement struct {
	ResourceType              string           `json:"resourceType"`
	ID                        string           `json:"id,omitempty"`
	Meta                      *Meta            `json:"meta,omitempty"`
	Status                    string           `json:"status"`
	MedicationCodeableConcept *CodeableConcept `json:"medicationCodeableConcept,omitempty"`
	Subject                   Reference        `json:"subject"`
	EffectiveDateTime         string           `json:"effectiveDateTime,omitempty"`
	Note                      []Annotation     `json:"note,omitempty"`
}
