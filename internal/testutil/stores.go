package testutil

import (
	"context"
	"errors"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	bookRepo "bookreview-backend/internal/domains/book/repository"
	reviewModel "bookreview-backend/internal/domains/review/model"
	reviewRepo "bookreview-backend/internal/domains/review/repository"
	userModel "bookreview-backend/internal/domains/user/model"
	userRepo "bookreview-backend/internal/domains/user/repository"
)

// ErrStoreDown is returned by every store method once Fail is set
var ErrStoreDown = errors.New("store unavailable")

// ========================================
// USERS
// ========================================

type UserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]userModel.User
	Fail  bool
	Reads int
}

var _ userRepo.UserRepository = (*UserStore)(nil)

func NewUserStore() *UserStore {
	return &UserStore{users: map[primitive.ObjectID]userModel.User{}}
}

func (s *UserStore) Create(_ context.Context, u *userModel.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for _, existing := range s.users {
		if existing.Email == u.Email {
			return userModel.ErrEmailAlreadyExists
		}
	}
	s.users[u.ID] = *u
	return nil
}

func (s *UserStore) GetByID(_ context.Context, id primitive.ObjectID) (*userModel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Reads++
	if s.Fail {
		return nil, ErrStoreDown
	}
	u, ok := s.users[id]
	if !ok {
		return nil, userModel.ErrUserNotFound
	}
	return &u, nil
}

func (s *UserStore) FindByEmail(_ context.Context, email string) (*userModel.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, userModel.ErrUserNotFound
}

func (s *UserStore) GetNames(_ context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	names := make(map[primitive.ObjectID]string, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			names[id] = u.Name
		}
	}
	return names, nil
}

// Add inserts a user directly and returns it
func (s *UserStore) Add(name, email string) *userModel.User {
	u := &userModel.User{ID: primitive.NewObjectID(), Name: name, Email: email}
	s.mu.Lock()
	s.users[u.ID] = *u
	s.mu.Unlock()
	return u
}

// Remove deletes a user directly
func (s *UserStore) Remove(id primitive.ObjectID) {
	s.mu.Lock()
	delete(s.users, id)
	s.mu.Unlock()
}

// ========================================
// BOOKS
// ========================================

type BookStore struct {
	mu    sync.Mutex
	books map[primitive.ObjectID]bookModel.Book
	Fail  bool
}

var _ bookRepo.RepositoryInterface = (*BookStore)(nil)

func NewBookStore() *BookStore {
	return &BookStore{books: map[primitive.ObjectID]bookModel.Book{}}
}

func (s *BookStore) Create(_ context.Context, b *bookModel.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	s.books[b.ID] = *b
	return nil
}

func (s *BookStore) GetByID(_ context.Context, id primitive.ObjectID) (*bookModel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	b, ok := s.books[id]
	if !ok {
		return nil, bookModel.ErrBookNotFound
	}
	return &b, nil
}

func (s *BookStore) Update(_ context.Context, b *bookModel.Book) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	stored, ok := s.books[b.ID]
	if !ok {
		return bookModel.ErrBookNotFound
	}
	updated := *b
	updated.AddedBy = stored.AddedBy
	updated.CreatedAt = stored.CreatedAt
	s.books[b.ID] = updated
	return nil
}

func (s *BookStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if _, ok := s.books[id]; !ok {
		return bookModel.ErrBookNotFound
	}
	delete(s.books, id)
	return nil
}

func (s *BookStore) List(_ context.Context, skip, limit int64) ([]*bookModel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	all := s.sorted(func(bookModel.Book) bool { return true })
	if skip >= int64(len(all)) {
		return []*bookModel.Book{}, nil
	}
	end := int64(len(all))
	if limit < end-skip {
		end = skip + limit
	}
	return all[skip:end], nil
}

func (s *BookStore) Count(context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrStoreDown
	}
	return int64(len(s.books)), nil
}

func (s *BookStore) ListByOwner(_ context.Context, owner primitive.ObjectID) ([]*bookModel.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	return s.sorted(func(b bookModel.Book) bool { return b.AddedBy == owner }), nil
}

// Len is the number of stored books
func (s *BookStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.books)
}

// newest first, ties broken by id descending
func (s *BookStore) sorted(keep func(bookModel.Book) bool) []*bookModel.Book {
	out := make([]*bookModel.Book, 0, len(s.books))
	for _, b := range s.books {
		if keep(b) {
			b := b
			out = append(out, &b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out
}

// ========================================
// REVIEWS
// ========================================

type ReviewStore struct {
	mu      sync.Mutex
	reviews map[primitive.ObjectID]reviewModel.Review
	Fail    bool
}

var _ reviewRepo.ReviewRepository = (*ReviewStore)(nil)

func NewReviewStore() *ReviewStore {
	return &ReviewStore{reviews: map[primitive.ObjectID]reviewModel.Review{}}
}

// Create enforces the (bookId, userId) unique constraint like both real backends
func (s *ReviewStore) Create(_ context.Context, r *reviewModel.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	for _, existing := range s.reviews {
		if existing.BookID == r.BookID && existing.UserID == r.UserID {
			return reviewModel.ErrAlreadyReviewed
		}
	}
	s.reviews[r.ID] = *r
	return nil
}

func (s *ReviewStore) GetByID(_ context.Context, id primitive.ObjectID) (*reviewModel.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	r, ok := s.reviews[id]
	if !ok {
		return nil, reviewModel.ErrReviewNotFound
	}
	return &r, nil
}

func (s *ReviewStore) GetByUserAndBook(_ context.Context, userID, bookID primitive.ObjectID) (*reviewModel.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	for _, r := range s.reviews {
		if r.BookID == bookID && r.UserID == userID {
			found := r
			return &found, nil
		}
	}
	return nil, reviewModel.ErrReviewNotFound
}

func (s *ReviewStore) Update(_ context.Context, r *reviewModel.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	stored, ok := s.reviews[r.ID]
	if !ok {
		return reviewModel.ErrReviewNotFound
	}
	stored.Rating = r.Rating
	stored.ReviewText = r.ReviewText
	stored.UpdatedAt = r.UpdatedAt
	s.reviews[r.ID] = stored
	return nil
}

func (s *ReviewStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return ErrStoreDown
	}
	if _, ok := s.reviews[id]; !ok {
		return reviewModel.ErrReviewNotFound
	}
	delete(s.reviews, id)
	return nil
}

func (s *ReviewStore) ListByBook(_ context.Context, bookID primitive.ObjectID) ([]*reviewModel.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return nil, ErrStoreDown
	}
	out := make([]*reviewModel.Review, 0)
	for _, r := range s.reviews {
		if r.BookID == bookID {
			r := r
			out = append(out, &r)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.Hex() > out[j].ID.Hex()
	})
	return out, nil
}

func (s *ReviewStore) GetRatings(ctx context.Context, bookID primitive.ObjectID) ([]int, error) {
	reviews, err := s.ListByBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, 0, len(reviews))
	for _, r := range reviews {
		ratings = append(ratings, r.Rating)
	}
	return ratings, nil
}

func (s *ReviewStore) DeleteByBook(_ context.Context, bookID primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Fail {
		return 0, ErrStoreDown
	}
	var n int64
	for id, r := range s.reviews {
		if r.BookID == bookID {
			delete(s.reviews, id)
			n++
		}
	}
	return n, nil
}

// Len is the number of stored reviews
func (s *ReviewStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.reviews)
}
