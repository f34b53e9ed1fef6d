package model

import (
	"errors"

	"bookreview-backend/internal/shared"
)

// Messages returned to clients
const (
	MsgBookNotFound        = "Book not found"
	MsgInvalidBookID       = "Invalid book ID"
	MsgTitleAuthorRequired = "Title and author are required"
	MsgInvalidYear         = "Year must be a whole number"
	MsgNotAuthorized       = "Not authorized"
	MsgInvalidPagination   = "Page and limit must be positive integers"
)

// Error codes
const (
	ErrCodeBookNotFound      = "BOOK001"
	ErrCodeInvalidID         = "BOOK002"
	ErrCodeInvalidInput      = "BOOK003"
	ErrCodeInvalidPagination = "BOOK004"
)

var ErrBookNotFound = errors.New("book not found")

func NewBookNotFoundError() *shared.AppError {
	return shared.NewNotFoundError(ErrCodeBookNotFound, MsgBookNotFound, ErrBookNotFound)
}

func NewInvalidBookIDError() *shared.AppError {
	return shared.NewValidationError(ErrCodeInvalidID, MsgInvalidBookID)
}

func NewInvalidInputError(err error) *shared.AppError {
	return shared.NewFieldValidationError(ErrCodeInvalidInput, err, "title", "author", "year")
}

func NewInvalidPaginationError() *shared.AppError {
	return shared.NewValidationError(ErrCodeInvalidPagination, MsgInvalidPagination)
}

func NewNotAuthorizedError() *shared.AppError {
	return shared.NewAuthorizationError(MsgNotAuthorized)
}
