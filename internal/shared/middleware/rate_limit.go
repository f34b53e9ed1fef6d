package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/shared/response"
	"bookreview-backend/pkg/cache"
)

// AttemptLimiter counts attempts per subject in the cache and puts the subject
// in cooldown once the limit is reached. Every cache failure fails open.
type AttemptLimiter struct {
	cache       cache.Cache
	prefix      string
	maxAttempts int
	cooldown    time.Duration
}

func NewAttemptLimiter(c cache.Cache, prefix string, maxAttempts int, cooldown time.Duration) *AttemptLimiter {
	return &AttemptLimiter{cache: c, prefix: prefix, maxAttempts: maxAttempts, cooldown: cooldown}
}

func (l *AttemptLimiter) attemptsKey(subject string) string {
	return l.prefix + "_attempts:" + subject
}

func (l *AttemptLimiter) cooldownKey(subject string) string {
	return l.prefix + "_cooldown:" + subject
}

// Check returns how long subject must wait, 0 when it may proceed.
// Reaching the limit starts the cooldown.
func (l *AttemptLimiter) Check(ctx context.Context, subject string) (time.Duration, error) {
	cooling, err := l.cache.Exists(ctx, l.cooldownKey(subject))
	if err != nil {
		return 0, err
	}
	if cooling {
		ttl, err := l.cache.TTL(ctx, l.cooldownKey(subject))
		if err != nil {
			return 0, err
		}
		if ttl <= 0 {
			ttl = l.cooldown
		}
		return ttl, nil
	}

	var attempts int
	if _, err := l.cache.Get(ctx, l.attemptsKey(subject), &attempts); err != nil {
		return 0, err
	}
	if attempts < l.maxAttempts {
		return 0, nil
	}

	// limit reached: start the cooldown and reset the counter
	if err := l.cache.Set(ctx, l.cooldownKey(subject), 1, l.cooldown); err != nil {
		return 0, err
	}
	if err := l.cache.Delete(ctx, l.attemptsKey(subject)); err != nil {
		return 0, err
	}
	return l.cooldown, nil
}

// Record counts one attempt and returns the new total
func (l *AttemptLimiter) Record(ctx context.Context, subject string) (int64, error) {
	n, err := l.cache.Increment(ctx, l.attemptsKey(subject))
	if err != nil {
		return 0, err
	}
	if err := l.cache.Expire(ctx, l.attemptsKey(subject), l.cooldown); err != nil {
		return n, err
	}
	return n, nil
}

// Reset clears attempts and cooldown for subject
func (l *AttemptLimiter) Reset(ctx context.Context, subject string) error {
	return l.cache.Delete(ctx, l.attemptsKey(subject), l.cooldownKey(subject))
}

// ========================================
// GIN MIDDLEWARES
// ========================================

// MaxLoginBodyBytes bounds the login body buffered to read the email
const MaxLoginBodyBytes = 8 << 10

const MsgBodyTooLarge = "Request body too large"

// LoginRateLimit limits failed logins per email. A 401 counts as a failure,
// a 200 clears the counter. Bodies over MaxLoginBodyBytes get a 413.
func LoginRateLimit(l *AttemptLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		email, tooLarge := peekEmail(c)
		if tooLarge {
			response.ErrorResponse(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
			c.Abort()
			return
		}
		if l == nil || email == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		wait, err := l.Check(ctx, email)
		if err != nil {
			log.Warn().Err(err).Msg("[RATE LIMIT] login check failed, allowing request")
			c.Next()
			return
		}
		if wait > 0 {
			response.TooManyRequests(c,
				fmt.Sprintf("Too many failed login attempts, try again in %d minutes", minutesCeil(wait)), wait)
			c.Abort()
			return
		}

		c.Next()

		switch c.Writer.Status() {
		case http.StatusUnauthorized:
			if _, err := l.Record(ctx, email); err != nil {
				log.Warn().Err(err).Msg("[RATE LIMIT] failed to record login attempt")
			}
		case http.StatusOK:
			if err := l.Reset(ctx, email); err != nil {
				log.Warn().Err(err).Msg("[RATE LIMIT] failed to reset login attempts")
			}
		}
	}
}

// RegisterRateLimit limits successful registrations per client IP
func RegisterRateLimit(l *AttemptLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		ip := ClientIP(c)

		wait, err := l.Check(ctx, ip)
		if err != nil {
			log.Warn().Err(err).Msg("[RATE LIMIT] register check failed, allowing request")
			c.Next()
			return
		}
		if wait > 0 {
			response.TooManyRequests(c,
				fmt.Sprintf("Too many registrations, try again in %d minutes", minutesCeil(wait)), wait)
			c.Abort()
			return
		}

		c.Next()

		if c.Writer.Status() == http.StatusCreated {
			if _, err := l.Record(ctx, ip); err != nil {
				log.Warn().Err(err).Msg("[RATE LIMIT] failed to record registration")
			}
		}
	}
}

// peekEmail reads the email from a JSON body of at most MaxLoginBodyBytes and
// puts the body back for the handler. tooLarge is set when the body exceeds the bound.
func peekEmail(c *gin.Context) (email string, tooLarge bool) {
	if c.Request.Body == nil {
		return "", false
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, MaxLoginBodyBytes))
	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		var maxErr *http.MaxBytesError
		return "", errors.As(err, &maxErr)
	}

	var input struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(body, &input); err != nil {
		return "", false
	}
	return strings.ToLower(strings.TrimSpace(input.Email)), false
}

func minutesCeil(d time.Duration) int {
	m := int((d + time.Minute - 1) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}
