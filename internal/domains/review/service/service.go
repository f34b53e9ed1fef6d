package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/repository"
	userRepo "bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/authz"
	"bookreview-backend/internal/shared/utils"
)

// =====================================================
// SERVICE IMPLEMENTATION
// =====================================================

type reviewService struct {
	reviewRepo repository.ReviewRepository
	bookRepo   bookRepo.RepositoryInterface
	userRepo   userRepo.UserRepository
	now        func() time.Time
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	bookRepo bookRepo.RepositoryInterface,
	userRepo userRepo.UserRepository,
) ServiceInterface {
	return &reviewService{
		reviewRepo: reviewRepo,
		bookRepo:   bookRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// =====================================================
// CREATE REVIEW
// =====================================================

func (s *reviewService) CreateReview(
	ctx context.Context,
	userID primitive.ObjectID,
	req model.CreateReviewRequest,
) (*model.Review, error) {
	// Step 1: Validate request (bookId, rating, reviewText in that order)
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err)
	}
	bookID, err := utils.ParseObjectID(req.BookID)
	if err != nil {
		return nil, bookModel.NewInvalidBookIDError()
	}

	// Step 2: Book must exist
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	// Step 3: One review per (book, user)
	_, err = s.reviewRepo.GetByUserAndBook(ctx, userID, bookID)
	switch {
	case err == nil:
		return nil, model.NewAlreadyReviewedError()
	case !errors.Is(err, model.ErrReviewNotFound):
		return nil, shared.NewInternalError(fmt.Errorf("check existing review: %w", err))
	}

	// Step 4: Create review entity
	now := s.now().UTC()
	review := &model.Review{
		ID:         primitive.NewObjectID(),
		BookID:     bookID,
		UserID:     userID,
		Rating:     model.RatingValue(req.Rating),
		ReviewText: strings.TrimSpace(req.ReviewText),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	// Step 5: Save. The unique index catches a concurrent duplicate.
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, model.ErrAlreadyReviewed) {
			return nil, model.NewAlreadyReviewedError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("create review: %w", err))
	}

	log.Info().
		Str("review_id", review.ID.Hex()).
		Str("book_id", bookID.Hex()).
		Int("rating", review.Rating).
		Msg("review created")
	return review, nil
}

// =====================================================
// UPDATE / DELETE (author only)
// =====================================================

func (s *reviewService) UpdateReview(
	ctx context.Context,
	userID, reviewID primitive.ObjectID,
	req model.UpdateReviewRequest,
) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err)
	}

	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authz.RequireOwner(userID, review.UserID, "Not authorized to update this review"); err != nil {
		return nil, err
	}

	review.Rating = model.RatingValue(req.Rating)
	review.ReviewText = strings.TrimSpace(req.ReviewText)
	review.UpdatedAt = s.now().UTC()

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("update review: %w", err))
	}
	return review, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, userID, reviewID primitive.ObjectID) error {
	review, err := s.getReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := authz.RequireOwner(userID, review.UserID, "Not authorized to delete this review"); err != nil {
		return err
	}

	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return model.NewReviewNotFoundError()
		}
		return shared.NewInternalError(fmt.Errorf("delete review: %w", err))
	}
	return nil
}

// =====================================================
// LIST BY BOOK
// =====================================================

func (s *reviewService) GetReviewsByBook(ctx context.Context, bookID primitive.ObjectID) (*model.BookReviewsResponse, error) {
	if err := s.ensureBook(ctx, bookID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, bookID)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("list reviews: %w", err))
	}

	names, err := s.userRepo.GetNames(ctx, model.UserIDs(reviews))
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("populate users: %w", err))
	}

	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}

	return &model.BookReviewsResponse{
		Reviews:       model.PopulateUsers(reviews, names),
		RatingSummary: model.ComputeRating(ratings),
	}, nil
}

// =====================================================
// HELPERS
// =====================================================

func (s *reviewService) ensureBook(ctx context.Context, bookID primitive.ObjectID) error {
	if _, err := s.bookRepo.GetByID(ctx, bookID); err != nil {
		if errors.Is(err, bookModel.ErrBookNotFound) {
			return bookModel.NewBookNotFoundError()
		}
		return shared.NewInternalError(fmt.Errorf("get book: %w", err))
	}
	return nil
}

func (s *reviewService) getReview(ctx context.Context, id primitive.ObjectID) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrReviewNotFound) {
			return nil, model.NewReviewNotFoundError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("get review: %w", err))
	}
	return review, nil
}
