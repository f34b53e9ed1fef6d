package shared

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// FirstFieldError picks one message out of an ozzo validation.Errors map,
// preferring fields in fieldOrder so the reported error is deterministic.
func FirstFieldError(err error, fieldOrder ...string) string {
	var fieldErrs validation.Errors
	if !errors.As(err, &fieldErrs) {
		return err.Error()
	}
	for _, field := range fieldOrder {
		if fe, ok := fieldErrs[field]; ok && fe != nil {
			return fe.Error()
		}
	}
	for field, fe := range fieldErrs {
		if fe != nil {
			return fmt.Sprintf("%s: %s", field, fe.Error())
		}
	}
	return err.Error()
}

// NewFieldValidationError wraps an ozzo error into a 400 AppError
func NewFieldValidationError(code string, err error, fieldOrder ...string) *AppError {
	return &AppError{
		Kind:    KindValidation,
		Code:    code,
		Message: FirstFieldError(err, fieldOrder...),
		Err:     err,
	}
}
