package utils

import (
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

// ValidateStruct checks a request DTO against its validate tags.
func ValidateStruct(s interface{}) error {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate.Struct(s)
}
