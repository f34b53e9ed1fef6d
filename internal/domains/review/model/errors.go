package model

import (
	"errors"

	"bookreview-backend/internal/shared"
)

// Error codes
const (
	ErrCodeReviewNotFound  = "REV001"
	ErrCodeAlreadyReviewed = "REV002"
	ErrCodeInvalidInput    = "REV003"
	ErrCodeInvalidID       = "REV004"
)

// Repository-level errors
var (
	ErrReviewNotFound  = errors.New("review not found")
	ErrAlreadyReviewed = errors.New("already reviewed this book")
)

// Error constructors
func NewReviewNotFoundError() *shared.AppError {
	return shared.NewNotFoundError(ErrCodeReviewNotFound, "Review not found", ErrReviewNotFound)
}

func NewAlreadyReviewedError() *shared.AppError {
	return &shared.AppError{
		Kind:    shared.KindValidation,
		Code:    ErrCodeAlreadyReviewed,
		Message: "You have already reviewed this book",
		Err:     ErrAlreadyReviewed,
	}
}

func NewInvalidReviewIDError() *shared.AppError {
	return shared.NewValidationError(ErrCodeInvalidID, MsgInvalidReviewID)
}

func NewUnauthorizedError(message string) *shared.AppError {
	return shared.NewAuthorizationError(message)
}

// NewInvalidInputError reports the first failing field in request order
func NewInvalidInputError(err error) *shared.AppError {
	return shared.NewFieldValidationError(ErrCodeInvalidInput, err, "bookId", "rating", "reviewText")
}
