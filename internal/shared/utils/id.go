package utils

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrInvalidID is returned for identifiers that are not 24-char hex ObjectIDs
var ErrInvalidID = errors.New("invalid identifier")

// ParseObjectID validates raw against the storage identifier format.
// It must run before any repository call that takes the id.
func ParseObjectID(raw string) (primitive.ObjectID, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) != 24 {
		return primitive.NilObjectID, ErrInvalidID
	}

	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil || id.IsZero() {
		return primitive.NilObjectID, ErrInvalidID
	}
	return id, nil
}

// IsValidObjectID reports whether raw would be accepted by ParseObjectID
func IsValidObjectID(raw string) bool {
	_, err := ParseObjectID(raw)
	return err == nil
}
