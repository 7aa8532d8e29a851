package fhir_dto

type DocumentReference struct {
	ResourceType string                     `json:"resourceType"`
	ID           string                     `json:"id,omitempty"`
	Meta         *Meta                      `json:"meta,omitempty"`
	Status       string                     `json:"status"`
	Type         *CodeableConcept           `json:"type,omitempty"`
	Subject      Reference                  `json:"subject"`
	Date         string                     `json:"date,omitempty"`
	Content      []DocumentReferenceContent `json:"content"`
}

type DocumentReferenceContent struct {
	Attachment Attachment `json:"attachment"`
	Format     *Coding    `json:"format,omitempty"`
}
