package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/book/repository"
	reviewModel "bookreview-backend/internal/domains/review/model"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	userRepo "bookreview-backend/internal/domains/user/repository"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/authz"
	"bookreview-backend/internal/shared/utils"
)

type Service struct {
	repo       repository.RepositoryInterface
	reviewRepo reviewRepo.ReviewRepository
	userRepo   userRepo.UserRepository
	now        func() time.Time
}

func NewService(
	repo repository.RepositoryInterface,
	reviewRepo reviewRepo.ReviewRepository,
	userRepo userRepo.UserRepository,
) ServiceInterface {
	return &Service{
		repo:       repo,
		reviewRepo: reviewRepo,
		userRepo:   userRepo,
		now:        time.Now,
	}
}

// ========================================
// READ
// ========================================

// ListBooks returns one page of the catalogue, newest first, owners populated
func (s *Service) ListBooks(ctx context.Context, page utils.Pagination) (*model.BookListResponse, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("count books: %w", err))
	}

	books, err := s.repo.List(ctx, page.Skip(), int64(page.Limit))
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("list books: %w", err))
	}

	names, err := s.userRepo.GetNames(ctx, model.OwnerIDs(books))
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("populate owners: %w", err))
	}

	return &model.BookListResponse{
		Books:      model.WithOwners(books, names),
		Page:       page.Page,
		TotalPages: page.TotalPages(total),
		TotalBooks: total,
	}, nil
}

func (s *Service) GetMyBooks(ctx context.Context, actor primitive.ObjectID) (*model.MyBooksResponse, error) {
	books, err := s.repo.ListByOwner(ctx, actor)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("list books by owner: %w", err))
	}

	names, err := s.userRepo.GetNames(ctx, model.OwnerIDs(books))
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("populate owners: %w", err))
	}

	return &model.MyBooksResponse{Books: model.WithOwners(books, names)}, nil
}

// GetBook returns the raw book with averageRating and reviewsCount
func (s *Service) GetBook(ctx context.Context, id primitive.ObjectID) (*model.BookDetailResponse, error) {
	book, err := s.getBook(ctx, id)
	if err != nil {
		return nil, err
	}

	ratings, err := s.reviewRepo.GetRatings(ctx, id)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("get ratings: %w", err))
	}

	return &model.BookDetailResponse{
		Book:          *book,
		RatingSummary: reviewModel.ComputeRating(ratings),
	}, nil
}

// GetBookWithReviews returns the populated book, its populated reviews and the rating summary
func (s *Service) GetBookWithReviews(ctx context.Context, id primitive.ObjectID) (*model.BookWithReviewsResponse, error) {
	book, err := s.getBook(ctx, id)
	if err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByBook(ctx, id)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("list reviews: %w", err))
	}

	userIDs := append(reviewModel.UserIDs(reviews), book.AddedBy)
	names, err := s.userRepo.GetNames(ctx, userIDs)
	if err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("populate users: %w", err))
	}

	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}

	return &model.BookWithReviewsResponse{
		Book:          model.WithOwner(book, names),
		Reviews:       reviewModel.PopulateUsers(reviews, names),
		RatingSummary: reviewModel.ComputeRating(ratings),
	}, nil
}

// ========================================
// WRITE
// ========================================

func (s *Service) CreateBook(ctx context.Context, actor primitive.ObjectID, req model.CreateBookRequest) (*model.Book, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err)
	}

	now := s.now().UTC()
	book := &model.Book{
		ID:          primitive.NewObjectID(),
		Title:       req.Title,
		Author:      req.Author,
		Description: req.Description,
		Genre:       req.Genre,
		Year:        req.Year.IntPtr(),
		AddedBy:     actor,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, shared.NewInternalError(fmt.Errorf("create book: %w", err))
	}

	log.Info().Str("book_id", book.ID.Hex()).Str("added_by", actor.Hex()).Msg("book created")
	return book, nil
}

// UpdateBook applies a partial update. Only the creator may update.
func (s *Service) UpdateBook(
	ctx context.Context,
	actor, id primitive.ObjectID,
	req model.UpdateBookRequest,
) (*model.Book, error) {
	book, err := s.getBook(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.IsOwner(actor, book.AddedBy) {
		return nil, model.NewNotAuthorizedError()
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, model.NewInvalidInputError(err)
	}
	book.ApplyUpdate(req, s.now().UTC())

	if err := s.repo.Update(ctx, book); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("update book: %w", err))
	}
	return book, nil
}

// DeleteBook removes the book's reviews first, then the book. The two steps are not atomic.
func (s *Service) DeleteBook(ctx context.Context, actor, id primitive.ObjectID) error {
	book, err := s.getBook(ctx, id)
	if err != nil {
		return err
	}
	if !authz.IsOwner(actor, book.AddedBy) {
		return model.NewNotAuthorizedError()
	}

	removed, err := s.reviewRepo.DeleteByBook(ctx, id)
	if err != nil {
		return shared.NewInternalError(fmt.Errorf("delete reviews of book: %w", err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return model.NewBookNotFoundError()
		}
		return shared.NewInternalError(fmt.Errorf("delete book: %w", err))
	}

	log.Info().Str("book_id", id.Hex()).Int64("reviews_removed", removed).Msg("book deleted")
	return nil
}

func (s *Service) getBook(ctx context.Context, id primitive.ObjectID) (*model.Book, error) {
	book, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrBookNotFound) {
			return nil, model.NewBookNotFoundError()
		}
		return nil, shared.NewInternalError(fmt.Errorf("get book: %w", err))
	}
	return book, nil
}
