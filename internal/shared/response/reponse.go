package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"bookreview-backend/internal/shared"
)

// ErrorBody is the shape of every error response
type ErrorBody struct {
	Message string `json:"message"`
}

// MessageBody is used by endpoints that only confirm an action
type MessageBody struct {
	Message string `json:"message"`
}

// Success responses
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, data)
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, data)
}

func Message(c *gin.Context, message string) {
	c.JSON(http.StatusOK, MessageBody{Message: message})
}

// Error responses
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, ErrorBody{Message: message})
}

// Error maps err to its HTTP outcome. Anything that is not an *AppError,
// and every internal AppError, is logged and reported as a generic 500.
func Error(c *gin.Context, err error) {
	appErr, ok := shared.AsAppError(err)
	if !ok || appErr.Kind == shared.KindInternal {
		log.Error().
			Err(err).
			Str("request_id", c.GetString(shared.ContextKeyRequestID)).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")
		InternalServerError(c)
		return
	}

	ErrorResponse(c, appErr.StatusCode(), appErr.Message)
}

// Abort writes the error and stops the handler chain
func Abort(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// Common error responses
func BadRequest(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusBadRequest, message)
}

func Unauthorized(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusUnauthorized, message)
}

func Forbidden(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusForbidden, message)
}

func NotFound(c *gin.Context, message string) {
	ErrorResponse(c, http.StatusNotFound, message)
}

func InternalServerError(c *gin.Context) {
	ErrorResponse(c, http.StatusInternalServerError, shared.ServerErrorMessage)
}

// RateLimitBody is the 429 shape; RetryAfter is in seconds
type RateLimitBody struct {
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
}

func TooManyRequests(c *gin.Context, message string, retryAfter time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	c.JSON(http.StatusTooManyRequests, RateLimitBody{
		Message:    message,
		RetryAfter: int(retryAfter.Seconds()),
	})
}
