package model

import (
	"errors"
	"math"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	reviewModel "bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/utils"
)

var errInvalidYear = errors.New(MsgInvalidYear)

// ========================================
// REQUEST DTOs
// ========================================

// CreateBookRequest - POST /api/books. Year accepts 1965 or "1965".
type CreateBookRequest struct {
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Description string        `json:"description"`
	Genre       string        `json:"genre"`
	Year        *utils.Number `json:"year"`
}

func (r *CreateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
	r.Genre = strings.TrimSpace(r.Genre)
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error(MsgTitleAuthorRequired)),
		validation.Field(&r.Author, validation.Required.Error(MsgTitleAuthorRequired)),
		validation.Field(&r.Year, validation.By(yearRule)),
	)
}

// UpdateBookRequest - PUT /api/books/:id. Every field is optional.
type UpdateBookRequest struct {
	Title       string        `json:"title"`
	Author      string        `json:"author"`
	Description string        `json:"description"`
	Genre       string        `json:"genre"`
	Year        *utils.Number `json:"year"`
}

func (r *UpdateBookRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Description = strings.TrimSpace(r.Description)
	r.Genre = strings.TrimSpace(r.Genre)
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Year, validation.By(yearRule)),
	)
}

// yearRule: optional, a whole number when present
func yearRule(value interface{}) error {
	year, _ := value.(*utils.Number)
	if year == nil {
		return nil
	}
	if !year.IsWhole() || math.Abs(float64(*year)) > math.MaxInt32 {
		return errInvalidYear
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

// BookWithOwner - book with addedBy populated as {_id, name}.
// Owner is null when the user record no longer exists.
type BookWithOwner struct {
	ID          primitive.ObjectID `json:"_id"`
	Title       string             `json:"title"`
	Author      string             `json:"author"`
	Description string             `json:"description"`
	Genre       string             `json:"genre"`
	Year        *int               `json:"year,omitempty"`
	AddedBy     *shared.UserRef    `json:"addedBy"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}

// BookListResponse - GET /api/books
type BookListResponse struct {
	Books      []BookWithOwner `json:"books"`
	Page       int             `json:"page"`
	TotalPages int             `json:"totalPages"`
	TotalBooks int64           `json:"totalBooks"`
}

// MyBooksResponse - GET /api/books/mybooks
type MyBooksResponse struct {
	Books []BookWithOwner `json:"books"`
}

// BookDetailResponse - GET /api/books/:id, the book plus computed rating fields
type BookDetailResponse struct {
	Book
	reviewModel.RatingSummary
}

// BookWithReviewsResponse - GET /api/books/:id/reviews
type BookWithReviewsResponse struct {
	Book    BookWithOwner                `json:"book"`
	Reviews []reviewModel.ReviewWithUser `json:"reviews"`
	reviewModel.RatingSummary
}

// ========================================
// MAPPERS
// ========================================

func WithOwner(b *Book, names map[primitive.ObjectID]string) BookWithOwner {
	out := BookWithOwner{
		ID:          b.ID,
		Title:       b.Title,
		Author:      b.Author,
		Description: b.Description,
		Genre:       b.Genre,
		Year:        b.Year,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if name, ok := names[b.AddedBy]; ok {
		out.AddedBy = &shared.UserRef{ID: b.AddedBy, Name: name}
	}
	return out
}

func WithOwners(books []*Book, names map[primitive.ObjectID]string) []BookWithOwner {
	out := make([]BookWithOwner, 0, len(books))
	for _, b := range books {
		out = append(out, WithOwner(b, names))
	}
	return out
}

// OwnerIDs returns the distinct addedBy ids of books
func OwnerIDs(books []*Book) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(books))
	ids := make([]primitive.ObjectID, 0, len(books))
	for _, b := range books {
		if _, ok := seen[b.AddedBy]; ok {
			continue
		}
		seen[b.AddedBy] = struct{}{}
		ids = append(ids, b.AddedBy)
	}
	return ids
}
