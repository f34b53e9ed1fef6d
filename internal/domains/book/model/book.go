package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book entity. AddedBy is set once at creation and never changes.
type Book struct {
	ID          primitive.ObjectID `bson:"_id" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Author      string             `bson:"author" json:"author"`
	Description string             `bson:"description" json:"description"`
	Genre       string             `bson:"genre" json:"genre"`
	Year        *int               `bson:"year,omitempty" json:"year,omitempty"`
	AddedBy     primitive.ObjectID `bson:"addedBy" json:"addedBy"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ApplyUpdate copies the non-empty fields of req onto the book.
// Empty strings and a zero year leave the stored value untouched.
func (b *Book) ApplyUpdate(req UpdateBookRequest, now time.Time) {
	if v := req.Title; v != "" {
		b.Title = v
	}
	if v := req.Author; v != "" {
		b.Author = v
	}
	if v := req.Description; v != "" {
		b.Description = v
	}
	if v := req.Genre; v != "" {
		b.Genre = v
	}
	if year := req.Year.IntPtr(); year != nil && *year != 0 {
		b.Year = year
	}
	b.UpdatedAt = now
}
