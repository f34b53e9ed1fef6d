package model

import (
	"errors"

	"bookreview-backend/internal/shared"
)

// Error codes
const (
	ErrCodeUserNotFound       = "USR001"
	ErrCodeUserExists         = "USR002"
	ErrCodeInvalidCredentials = "USR003"
	ErrCodeInvalidInput       = "USR004"
)

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

func NewUserNotFoundError() *shared.AppError {
	return shared.NewNotFoundError(ErrCodeUserNotFound, "User not found", ErrUserNotFound)
}

func NewUserExistsError() *shared.AppError {
	return &shared.AppError{
		Kind:    shared.KindValidation,
		Code:    ErrCodeUserExists,
		Message: "User already exists",
		Err:     ErrEmailAlreadyExists,
	}
}

func NewInvalidCredentialsError() *shared.AppError {
	return &shared.AppError{
		Kind:    shared.KindAuthentication,
		Code:    ErrCodeInvalidCredentials,
		Message: "Invalid email or password",
	}
}

// NewInvalidInputError flattens ozzo field errors into one message,
// ordered the way the fields were declared.
func NewInvalidInputError(err error, fieldOrder ...string) *shared.AppError {
	return shared.NewFieldValidationError(ErrCodeInvalidInput, err, fieldOrder...)
}
