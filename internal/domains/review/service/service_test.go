package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	bookModel "bookreview-backend/internal/domains/book/model"
	"bookreview-backend/internal/domains/review/model"
	"bookreview-backend/internal/domains/review/service"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/utils"
	"bookreview-backend/internal/testutil"
)

type fixture struct {
	svc     service.ServiceInterface
	books   *testutil.BookStore
	reviews *testutil.ReviewStore
	users   *testutil.UserStore
}

func newFixture() *fixture {
	f := &fixture{
		books:   testutil.NewBookStore(),
		reviews: testutil.NewReviewStore(),
		users:   testutil.NewUserStore(),
	}
	f.svc = service.NewReviewService(f.reviews, f.books, f.users)
	return f
}

func (f *fixture) addBook(t *testing.T) *bookModel.Book {
	t.Helper()
	now := time.Now().UTC()
	b := &bookModel.Book{
		ID:        primitive.NewObjectID(),
		Title:     "Dune",
		Author:    "Frank Herbert",
		AddedBy:   primitive.NewObjectID(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.books.Create(context.Background(), b))
	return b
}

func rating(v float64) *utils.Number { return utils.NewNumber(v) }

func assertAppError(t *testing.T, err error, kind shared.ErrorKind, msg string) {
	t.Helper()
	appErr, ok := shared.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, msg, appErr.Message)
}

func TestCreateReview(t *testing.T) {
	f := newFixture()
	book := f.addBook(t)
	user := primitive.NewObjectID()

	review, err := f.svc.CreateReview(context.Background(), user, model.CreateReviewRequest{
		BookID:     book.ID.Hex(),
		Rating:     rating(4),
		ReviewText: "  Great world building ",
	})
	require.NoError(t, err)
	assert.Equal(t, book.ID, review.BookID)
	assert.Equal(t, user, review.UserID)
	assert.Equal(t, 4, review.Rating)
	assert.Equal(t, "Great world building", review.ReviewText)
	assert.Equal(t, 1, f.reviews.Len())
}

func TestCreateReview_Validation(t *testing.T) {
	f := newFixture()
	book := f.addBook(t)

	tests := []struct {
		name string
		req  model.CreateReviewRequest
		msg  string
	}{
		{"bad book id", model.CreateReviewRequest{BookID: "123", Rating: rating(3), ReviewText: "ok"}, model.MsgInvalidBookID},
		{"missing rating", model.CreateReviewRequest{BookID: book.ID.Hex(), ReviewText: "ok"}, model.MsgRatingOutOfRange},
		{"rating zero", model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(0), ReviewText: "ok"}, model.MsgRatingOutOfRange},
		{"rating six", model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(6), ReviewText: "ok"}, model.MsgRatingOutOfRange},
		{"fractional rating", model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(4.5), ReviewText: "ok"}, model.MsgRatingOutOfRange},
		{"blank text", model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(3), ReviewText: "   "}, model.MsgReviewTextRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateReview(context.Background(), primitive.NewObjectID(), tt.req)
			assertAppError(t, err, shared.KindValidation, tt.msg)
		})
	}
	assert.Equal(t, 0, f.reviews.Len())
}

func TestCreateReview_UnknownBook(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateReview(context.Background(), primitive.NewObjectID(), model.CreateReviewRequest{
		BookID:     primitive.NewObjectID().Hex(),
		Rating:     rating(3),
		ReviewText: "ok",
	})
	assertAppError(t, err, shared.KindNotFound, bookModel.MsgBookNotFound)
}

func TestCreateReview_OnePerBookPerUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	user := primitive.NewObjectID()
	req := model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(5), ReviewText: "ok"}

	_, err := f.svc.CreateReview(ctx, user, req)
	require.NoError(t, err)

	_, err = f.svc.CreateReview(ctx, user, req)
	assertAppError(t, err, shared.KindValidation, "You have already reviewed this book")
	assert.Equal(t, 1, f.reviews.Len())

	// a different user may still review the same book
	_, err = f.svc.CreateReview(ctx, primitive.NewObjectID(), req)
	require.NoError(t, err)
	assert.Equal(t, 2, f.reviews.Len())
}

func TestUpdateReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	author := primitive.NewObjectID()

	review, err := f.svc.CreateReview(ctx, author, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(2), ReviewText: "meh"})
	require.NoError(t, err)

	updated, err := f.svc.UpdateReview(ctx, author, review.ID, model.UpdateReviewRequest{Rating: rating(5), ReviewText: "grew on me"})
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Rating)
	assert.Equal(t, "grew on me", updated.ReviewText)

	stored, err := f.reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Rating)
}

func TestUpdateReview_InvalidRatingLeavesReviewUnchanged(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	author := primitive.NewObjectID()

	review, err := f.svc.CreateReview(ctx, author, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(3), ReviewText: "fine"})
	require.NoError(t, err)

	for _, v := range []float64{0, 6} {
		_, err = f.svc.UpdateReview(ctx, author, review.ID, model.UpdateReviewRequest{Rating: rating(v), ReviewText: "changed"})
		assertAppError(t, err, shared.KindValidation, model.MsgRatingOutOfRange)
	}

	stored, err := f.reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Rating)
	assert.Equal(t, "fine", stored.ReviewText)
}

func TestUpdateReview_NotAuthor(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	author := primitive.NewObjectID()

	review, err := f.svc.CreateReview(ctx, author, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(3), ReviewText: "fine"})
	require.NoError(t, err)

	_, err = f.svc.UpdateReview(ctx, primitive.NewObjectID(), review.ID, model.UpdateReviewRequest{Rating: rating(1), ReviewText: "bad"})
	assertAppError(t, err, shared.KindAuthorization, "Not authorized to update this review")

	stored, err := f.reviews.GetByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.Rating)
}

func TestUpdateReview_NotFound(t *testing.T) {
	f := newFixture()

	_, err := f.svc.UpdateReview(context.Background(), primitive.NewObjectID(), primitive.NewObjectID(), model.UpdateReviewRequest{Rating: rating(1), ReviewText: "x"})
	assertAppError(t, err, shared.KindNotFound, "Review not found")
}

func TestDeleteReview(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	author := primitive.NewObjectID()

	review, err := f.svc.CreateReview(ctx, author, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(3), ReviewText: "fine"})
	require.NoError(t, err)

	err = f.svc.DeleteReview(ctx, primitive.NewObjectID(), review.ID)
	assertAppError(t, err, shared.KindAuthorization, "Not authorized to delete this review")
	assert.Equal(t, 1, f.reviews.Len())

	require.NoError(t, f.svc.DeleteReview(ctx, author, review.ID))
	assert.Equal(t, 0, f.reviews.Len())

	err = f.svc.DeleteReview(ctx, author, review.ID)
	assertAppError(t, err, shared.KindNotFound, "Review not found")
}

func TestGetReviewsByBook(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)
	ada := f.users.Add("Ada", "ada@example.com")
	bob := f.users.Add("Bob", "bob@example.com")

	_, err := f.svc.CreateReview(ctx, ada.ID, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(4), ReviewText: "good"})
	require.NoError(t, err)
	_, err = f.svc.CreateReview(ctx, bob.ID, model.CreateReviewRequest{BookID: book.ID.Hex(), Rating: rating(5), ReviewText: "great"})
	require.NoError(t, err)

	resp, err := f.svc.GetReviewsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4.5, resp.AverageRating)
	assert.Equal(t, 2, resp.ReviewsCount)
	require.Len(t, resp.Reviews, 2)

	// newest first
	require.NotNil(t, resp.Reviews[0].User)
	assert.Equal(t, "Bob", resp.Reviews[0].User.Name)
	assert.Equal(t, "Ada", resp.Reviews[1].User.Name)
}

func TestGetReviewsByBook_EmptyAndMissing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	book := f.addBook(t)

	resp, err := f.svc.GetReviewsByBook(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, resp.Reviews)
	assert.NotNil(t, resp.Reviews)
	assert.Equal(t, 0.0, resp.AverageRating)
	assert.Equal(t, 0, resp.ReviewsCount)

	_, err = f.svc.GetReviewsByBook(ctx, primitive.NewObjectID())
	assertAppError(t, err, shared.KindNotFound, bookModel.MsgBookNotFound)
}
