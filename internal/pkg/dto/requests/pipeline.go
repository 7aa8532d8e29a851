package requests

// BatchImport asks for one import job over every object under a prefix.
type BatchImport struct {
	Bucket string `json:"bucket" validate:"required"`
	Prefix string `json:"prefix" validate:"required"`
}

// ProcessObject points a pipeline stage at a single stored object.
type ProcessObject struct {
	Bucket string `json:"bucket" validate:"required"`
	Key    string `json:"key" validate:"required"`
}

// CreatePatient registers a patient directly in the datastore.
type CreatePatient struct {
	Name      string `json:"name" validate:"required"`
	Gender    string `json:"gender" validate:"omitempty,oneof=male female other unknown"`
	BirthDate string `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	MRN       string `json:"mrn" validate:"omitempty,alphanum"`
}
