package model

import (
	"errors"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/utils"
)

// Validation messages
const (
	MsgInvalidBookID      = "Invalid book ID"
	MsgInvalidReviewID    = "Invalid review ID"
	MsgRatingOutOfRange   = "Rating must be between 1 and 5"
	MsgReviewTextRequired = "Review text is required"
)

var (
	errRatingOutOfRange   = errors.New(MsgRatingOutOfRange)
	errReviewTextRequired = errors.New(MsgReviewTextRequired)
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateReviewRequest - POST /api/reviews.
// Rating accepts a number or a numeric string so that 4.5, 0 or "5" reach validation instead of failing binding.
type CreateReviewRequest struct {
	BookID     string        `json:"bookId"`
	Rating     *utils.Number `json:"rating"`
	ReviewText string        `json:"reviewText"`
}

func (r CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.BookID, validation.By(objectID(MsgInvalidBookID))),
		validation.Field(&r.Rating, validation.By(ratingRule)),
		validation.Field(&r.ReviewText, validation.By(reviewTextRule)),
	)
}

// UpdateReviewRequest - PUT /api/reviews/:id. Both fields are required.
type UpdateReviewRequest struct {
	Rating     *utils.Number `json:"rating"`
	ReviewText string        `json:"reviewText"`
}

func (r UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Rating, validation.By(ratingRule)),
		validation.Field(&r.ReviewText, validation.By(reviewTextRule)),
	)
}

// RatingValue returns the validated rating. Call only after Validate succeeded.
func RatingValue(rating *utils.Number) int {
	if rating == nil {
		return 0
	}
	return int(*rating)
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// ReviewWithUser is a review with userId populated as {_id, name}
type ReviewWithUser struct {
	ID         primitive.ObjectID `json:"_id"`
	BookID     primitive.ObjectID `json:"bookId"`
	User       *shared.UserRef    `json:"userId"`
	Rating     int                `json:"rating"`
	ReviewText string             `json:"reviewText"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// BookReviewsResponse - GET /api/reviews/book/:bookId
type BookReviewsResponse struct {
	Reviews []ReviewWithUser `json:"reviews"`
	RatingSummary
}

// PopulateUsers attaches author names. Reviews whose author no longer exists get a null userId.
func PopulateUsers(reviews []*Review, names map[primitive.ObjectID]string) []ReviewWithUser {
	out := make([]ReviewWithUser, 0, len(reviews))
	for _, r := range reviews {
		item := ReviewWithUser{
			ID:         r.ID,
			BookID:     r.BookID,
			Rating:     r.Rating,
			ReviewText: r.ReviewText,
			CreatedAt:  r.CreatedAt,
			UpdatedAt:  r.UpdatedAt,
		}
		if name, ok := names[r.UserID]; ok {
			item.User = &shared.UserRef{ID: r.UserID, Name: name}
		}
		out = append(out, item)
	}
	return out
}

// UserIDs returns the distinct authors of reviews
func UserIDs(reviews []*Review) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]struct{}, len(reviews))
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		ids = append(ids, r.UserID)
	}
	return ids
}

// =====================================================
// RULES
// =====================================================

func objectID(message string) validation.RuleFunc {
	return func(value interface{}) error {
		raw, _ := value.(string)
		if !utils.IsValidObjectID(raw) {
			return errors.New(message)
		}
		return nil
	}
}

// ratingRule: integer in [MinRating, MaxRating]
func ratingRule(value interface{}) error {
	rating, _ := value.(*utils.Number)
	if rating == nil || !rating.IsWhole() {
		return errRatingOutOfRange
	}
	if v := float64(*rating); v < MinRating || v > MaxRating {
		return errRatingOutOfRange
	}
	return nil
}

func reviewTextRule(value interface{}) error {
	text, _ := value.(string)
	if strings.TrimSpace(text) == "" {
		return errReviewTextRequired
	}
	return nil
}
