package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"

	userModel "bookreview-backend/internal/domains/user/model"
	"bookreview-backend/internal/shared"
	"bookreview-backend/internal/shared/response"
	"bookreview-backend/internal/shared/utils"
	"bookreview-backend/pkg/jwt"
)

// 401 reasons
const (
	MsgNoToken            = "Not authorized, no token provided"
	MsgInvalidTokenFormat = "Not authorized, invalid token format"
	MsgTokenExpired       = "Not authorized, token expired"
	MsgInvalidToken       = "Not authorized, invalid token"
	MsgUserNotFound       = "Not authorized, user not found"
	MsgAuthFailed         = "Not authorized, authentication failed"
)

// ActorLookup resolves the user a token was issued to
type ActorLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*userModel.User, error)
}

// AuthMiddleware - Middleware xác thực JWT token.
// On success the actor id (primitive.ObjectID) is stored under shared.ContextKeyUserID.
func AuthMiddleware(jwtManager *jwt.Manager, users ActorLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, MsgNoToken)
			c.Abort()
			return
		}

		// 2. Extract token từ "Bearer <token>"
		token := strings.Split(authHeader, " ")[1]
		if token == "" {
			response.Unauthorized(c, MsgInvalidTokenFormat)
			c.Abort()
			return
		}

		// 3. Verify và parse JWT
		claims, err := jwtManager.ValidateAccessToken(token)
		if err != nil {
			switch {
			case errors.Is(err, jwt.ErrTokenExpired):
				response.Unauthorized(c, MsgTokenExpired)
			case errors.Is(err, jwt.ErrTokenInvalid):
				response.Unauthorized(c, MsgInvalidToken)
			default:
				response.Unauthorized(c, MsgAuthFailed)
			}
			c.Abort()
			return
		}

		userID, err := utils.ParseObjectID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, MsgInvalidToken)
			c.Abort()
			return
		}

		// 4. Token phải thuộc về user còn tồn tại
		if _, err := users.GetByID(c.Request.Context(), userID); err != nil {
			if errors.Is(err, userModel.ErrUserNotFound) {
				response.Unauthorized(c, MsgUserNotFound)
			} else {
				log.Error().Err(err).Str("user_id", userID.Hex()).Msg("actor lookup failed")
				response.Unauthorized(c, MsgAuthFailed)
			}
			c.Abort()
			return
		}

		// 5. Set userID vào context
		c.Set(shared.ContextKeyUserID, userID)
		c.Next()
	}
}

// CurrentUserID returns the actor set by AuthMiddleware
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(shared.ContextKeyUserID)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}
