package common

import (
	"github.com/go-playground/validator"
)

var structValidator = validator.New()

// ValidateStruct checks the `validate` tags of the given struct.
func ValidateStruct(i interface{}) error {
	return structValidator.Struct(i)
}
