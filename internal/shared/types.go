package shared

import "go.mongodb.org/mongo-driver/bson/primitive"

// UserRef is the populated form of an owner/author reference
// (để tránh import cycle với user domain)
type UserRef struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

// Context keys set by middleware
const (
	ContextKeyUserID    = "userID"
	ContextKeyRequestID = "request_id"
)
