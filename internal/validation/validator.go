package validation

import (
	validatorv10 "github.com/go-playground/validator/v10"
)

// New returns a configured validator. Product metadata is intentionally
// permissive (only title is required), so no custom struct-level rules are
// registered.
func New() *validatorv10.Validate {
	return validatorv10.New()
}
