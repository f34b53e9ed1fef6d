package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bookreview-backend/internal/config"
	"bookreview-backend/internal/testutil"
	"bookreview-backend/pkg/container"
)

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	cache  *testutil.MemoryCache
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		App:  config.AppConfig{Name: "Book Review API", Environment: "test"},
		JWT:  config.JWTConfig{Secret: "test-secret", AccessTokenExpiry: time.Hour},
		CORS: config.CORSConfig{Origin: "*"},
		Redis: config.RedisConfig{
			UserCacheTTL: time.Minute,
		},
		RateLimit: config.RateLimitConfig{
			LoginMaxAttempts:    3,
			LoginCooldown:       15 * time.Minute,
			RegisterMaxAttempts: 50,
			RegisterCooldown:    30 * time.Minute,
		},
	}

	mc := testutil.NewMemoryCache()
	c := container.Build(cfg, container.Repositories{
		Users:   testutil.NewUserStore(),
		Books:   testutil.NewBookStore(),
		Reviews: testutil.NewReviewStore(),
	}, mc)

	return &testAPI{t: t, router: SetupRouter(c), cache: mc}
}

func (a *testAPI) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	a.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (a *testAPI) register(name, email string) (token, id string) {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": name, "email": email, "password": "secret1"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["token"].(string), body["_id"].(string)
}

func (a *testAPI) createBook(token, title, author string) string {
	a.t.Helper()
	w, body := a.do(http.MethodPost, "/api/books", token, gin.H{"title": title, "author": author})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return body["_id"].(string)
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])

	w, body = api.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, map[string]interface{}{"redis": "up"}, body["services"])

	api.cache.Down = true
	w, _ = api.do(http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUnknownRoute(t *testing.T) {
	api := newTestAPI(t)

	w, body := api.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Route not found", body["message"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)
	token, id := api.register("Ada", "ada@example.com")

	w, body := api.do(http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, body["_id"])
	assert.Equal(t, "ada@example.com", body["email"])
	assert.NotContains(t, body, "password")

	w, body = api.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Ada", "email": "ADA@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "User already exists", body["message"])

	w, body = api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, body["token"])

	w, body = api.do(http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Not authorized, no token provided", body["message"])
}

func TestLoginLockout(t *testing.T) {
	api := newTestAPI(t)
	api.register("Ada", "ada@example.com")

	for i := 0; i < 3; i++ {
		w, body := api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Invalid email or password", body["message"])
	}

	w, body := api.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret1"})
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, float64(900), body["retryAfter"])
}

func TestBooksAndReviews(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.register("Ada", "ada@example.com")
	reader, readerID := api.register("Bob", "bob@example.com")

	// creating requires a token and both title and author
	w, _ := api.do(http.MethodPost, "/api/books", "", gin.H{"title": "Dune", "author": "Herbert"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w, body := api.do(http.MethodPost, "/api/books", owner, gin.H{"title": "Dune"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title and author are required", body["message"])

	bookID := api.createBook(owner, "Dune", "Frank Herbert")

	// reviews
	w, body = api.do(http.MethodPost, "/api/reviews", reader, gin.H{"bookId": bookID, "rating": 4, "reviewText": "Great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reviewID := body["_id"].(string)
	assert.Equal(t, readerID, body["userId"])

	w, body = api.do(http.MethodPost, "/api/reviews", reader, gin.H{"bookId": bookID, "rating": 5, "reviewText": "Again"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "You have already reviewed this book", body["message"])

	w, body = api.do(http.MethodPost, "/api/reviews", owner, gin.H{"bookId": bookID, "rating": 6, "reviewText": "Mine"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5", body["message"])

	w, _ = api.do(http.MethodPost, "/api/reviews", owner, gin.H{"bookId": bookID, "rating": 5, "reviewText": "Mine"})
	require.Equal(t, http.StatusCreated, w.Code)

	// rating summary on both read paths
	w, body = api.do(http.MethodGet, "/api/books/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.5, body["averageRating"])
	assert.Equal(t, float64(2), body["reviewsCount"])

	w, body = api.do(http.MethodGet, "/api/reviews/book/"+bookID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["reviews"], 2)
	assert.Equal(t, 4.5, body["averageRating"])

	w, body = api.do(http.MethodGet, "/api/books/"+bookID+"/reviews", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	book := body["book"].(map[string]interface{})
	assert.Equal(t, "Ada", book["addedBy"].(map[string]interface{})["name"])

	// only the author may touch a review
	w, body = api.do(http.MethodPut, "/api/reviews/"+reviewID, owner, gin.H{"rating": 1, "reviewText": "Bad"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized to update this review", body["message"])

	w, body = api.do(http.MethodPut, "/api/reviews/"+reviewID, reader, gin.H{"rating": 0, "reviewText": "Zero"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = api.do(http.MethodPut, "/api/reviews/"+reviewID, reader, gin.H{"rating": 3, "reviewText": "Fine"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(3), body["rating"])

	// only the creator may update or delete the book
	w, body = api.do(http.MethodPut, "/api/books/"+bookID, reader, gin.H{"title": "Stolen"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Not authorized", body["message"])

	w, _ = api.do(http.MethodDelete, "/api/books/"+bookID, reader, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w, body = api.do(http.MethodPut, "/api/books/"+bookID, owner, gin.H{"title": "Dune (1965)"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dune (1965)", body["title"])
	assert.Equal(t, "Frank Herbert", body["author"])

	w, body = api.do(http.MethodDelete, "/api/books/"+bookID, owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Book removed", body["message"])

	w, body = api.do(http.MethodGet, "/api/reviews/book/"+bookID, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", body["message"])
}

func TestListBooksPagination(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.register("Ada", "ada@example.com")
	for _, title := range []string{"A", "B", "C", "D", "E", "F"} {
		api.createBook(owner, title, "Author")
	}

	w, body := api.do(http.MethodGet, "/api/books", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["books"], 5)
	assert.Equal(t, float64(1), body["page"])
	assert.Equal(t, float64(2), body["totalPages"])
	assert.Equal(t, float64(6), body["totalBooks"])

	w, body = api.do(http.MethodGet, "/api/books?page=2&limit=5", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["books"], 1)

	w, body = api.do(http.MethodGet, "/api/books?limit=9223372036854775807", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["books"], 6)
	assert.Equal(t, float64(1), body["totalPages"])

	w, body = api.do(http.MethodGet, "/api/books?page=9223372036854775807&limit=9223372036854775807", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, body = api.do(http.MethodGet, "/api/books?page=0", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Page and limit must be positive integers", body["message"])

	w, body = api.do(http.MethodGet, "/api/books/mybooks", owner, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["books"], 6)
}

func TestNumericStringFields(t *testing.T) {
	api := newTestAPI(t)
	owner, _ := api.register("Ada", "ada@example.com")
	reader, _ := api.register("Bob", "bob@example.com")

	w, body := api.do(http.MethodPost, "/api/books", owner, gin.H{"title": "Dune", "author": "Herbert", "year": "1965"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(1965), body["year"])
	bookID := body["_id"].(string)

	w, body = api.do(http.MethodPost, "/api/books", owner, gin.H{"title": "Dune", "author": "Herbert", "year": "sixties"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Year must be a whole number", body["message"])

	w, body = api.do(http.MethodPut, "/api/books/"+bookID, owner, gin.H{"year": "1966"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, float64(1966), body["year"])

	w, body = api.do(http.MethodPost, "/api/reviews", reader, gin.H{"bookId": bookID, "rating": "5", "reviewText": "Great"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, float64(5), body["rating"])
	reviewID := body["_id"].(string)

	w, body = api.do(http.MethodPut, "/api/reviews/"+reviewID, reader, gin.H{"rating": "4.5", "reviewText": "Good"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Rating must be between 1 and 5", body["message"])
}

func TestInvalidIDs(t *testing.T) {
	api := newTestAPI(t)
	token, _ := api.register("Ada", "ada@example.com")

	w, body := api.do(http.MethodGet, "/api/books/123", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid book ID", body["message"])

	w, body = api.do(http.MethodGet, "/api/books/"+primitive.NewObjectID().Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Book not found", body["message"])

	w, body = api.do(http.MethodDelete, "/api/reviews/xyz", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid review ID", body["message"])

	w, body = api.do(http.MethodDelete, "/api/reviews/"+primitive.NewObjectID().Hex(), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Review not found", body["message"])
}
