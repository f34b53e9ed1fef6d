package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookreview-backend/internal/testutil"
)

func TestAttemptLimiter(t *testing.T) {
	ctx := context.Background()
	mc := testutil.NewMemoryCache()
	l := NewAttemptLimiter(mc, "login", 2, 15*time.Minute)

	wait, err := l.Check(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, wait)

	for i := 0; i < 2; i++ {
		_, err := l.Record(ctx, "ada@example.com")
		require.NoError(t, err)
	}

	wait, err = l.Check(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, wait)
	assert.True(t, mc.Has("login_cooldown:ada@example.com"))
	assert.False(t, mc.Has("login_attempts:ada@example.com"))

	// other subjects are unaffected
	wait, err = l.Check(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.Zero(t, wait)

	require.NoError(t, l.Reset(ctx, "ada@example.com"))
	wait, err = l.Check(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Zero(t, wait)
}

func TestAttemptLimiter_CooldownExpires(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mc := testutil.NewMemoryCache()
	mc.Now = func() time.Time { return now }
	l := NewAttemptLimiter(mc, "register", 1, 30*time.Minute)

	_, err := l.Record(ctx, "10.0.0.1")
	require.NoError(t, err)
	wait, err := l.Check(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 30*time.Minute, wait)

	now = now.Add(10 * time.Minute)
	wait, err = l.Check(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 20*time.Minute, wait)

	now = now.Add(21 * time.Minute)
	wait, err = l.Check(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, wait)
}

func newLoginRouter(l *AttemptLimiter) *gin.Engine {
	r := gin.New()
	r.POST("/login", LoginRateLimit(l), func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		if strings.Contains(string(body), `"password":"right"`) {
			c.JSON(http.StatusOK, gin.H{"token": "t"})
			return
		}
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
	})
	return r
}

func postLogin(r *gin.Engine, email, password string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginRateLimit(t *testing.T) {
	mc := testutil.NewMemoryCache()
	r := newLoginRouter(NewAttemptLimiter(mc, "login", 3, 15*time.Minute))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, postLogin(r, "ada@example.com", "wrong").Code)
	}

	w := postLogin(r, "ADA@example.com", "right")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many failed login attempts, try again in 15 minutes", messageOf(t, w))
	assert.Equal(t, "900", w.Header().Get("Retry-After"))

	// a different account is not blocked
	assert.Equal(t, http.StatusOK, postLogin(r, "bob@example.com", "right").Code)
}

func TestLoginRateLimit_SuccessResets(t *testing.T) {
	mc := testutil.NewMemoryCache()
	r := newLoginRouter(NewAttemptLimiter(mc, "login", 3, 15*time.Minute))

	postLogin(r, "ada@example.com", "wrong")
	postLogin(r, "ada@example.com", "wrong")
	assert.Equal(t, http.StatusOK, postLogin(r, "ada@example.com", "right").Code)
	assert.False(t, mc.Has("login_attempts:ada@example.com"))

	postLogin(r, "ada@example.com", "wrong")
	postLogin(r, "ada@example.com", "wrong")
	assert.Equal(t, http.StatusOK, postLogin(r, "ada@example.com", "right").Code)
}

func TestLoginRateLimit_FailsOpen(t *testing.T) {
	mc := testutil.NewMemoryCache()
	mc.Down = true
	r := newLoginRouter(NewAttemptLimiter(mc, "login", 1, time.Minute))

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusUnauthorized, postLogin(r, "ada@example.com", "wrong").Code)
	}

	nilLimited := newLoginRouter(nil)
	assert.Equal(t, http.StatusOK, postLogin(nilLimited, "ada@example.com", "right").Code)
}

func TestLoginRateLimit_BodyBound(t *testing.T) {
	mc := testutil.NewMemoryCache()
	r := newLoginRouter(NewAttemptLimiter(mc, "login", 1, 15*time.Minute))

	pad := strings.Repeat("a", MaxLoginBodyBytes)
	body := `{"email":"ada@example.com","password":"wrong","pad":"` + pad + `"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, MsgBodyTooLarge, messageOf(t, w))
	assert.False(t, mc.Has("login_attempts:ada@example.com"))

	// a body just under the bound still reaches the handler and is counted
	small := `{"email":"ada@example.com","password":"wrong","pad":"` + strings.Repeat("a", MaxLoginBodyBytes-100) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(small))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, mc.Has("login_attempts:ada@example.com"))
}

func TestRegisterRateLimit(t *testing.T) {
	mc := testutil.NewMemoryCache()
	r := gin.New()
	r.Use(ClientIPMiddleware())
	r.POST("/register", RegisterRateLimit(NewAttemptLimiter(mc, "register", 2, 30*time.Minute)), func(c *gin.Context) {
		c.JSON(http.StatusCreated, gin.H{})
	})

	register := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{}`))
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, register("10.0.0.1").Code)
	assert.Equal(t, http.StatusCreated, register("10.0.0.1").Code)

	w := register("10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "Too many registrations, try again in 30 minutes", messageOf(t, w))

	assert.Equal(t, http.StatusCreated, register("10.0.0.2").Code)
}

func TestMinutesCeil(t *testing.T) {
	assert.Equal(t, 1, minutesCeil(0))
	assert.Equal(t, 1, minutesCeil(30*time.Second))
	assert.Equal(t, 2, minutesCeil(61*time.Second))
	assert.Equal(t, 15, minutesCeil(15*time.Minute))
}
