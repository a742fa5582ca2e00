package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/apperrors"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/logger"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/models"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/repository"
	"github.com/MdFaizanuddin1/Ecommerce-Full-stack/services"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const (
	AccessTokenCookie  = "accessToken"
	RefreshTokenCookie = "refreshToken"

	UserContextKey   = "user"
	UserIDContextKey = "userID"
	RoleContextKey   = "role"
)

type TokenValidator interface {
	ValidateToken(tokenStr, expectedType string) (*services.Claims, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// bearerToken reads the access token from the cookie, falling back to the
// Authorization header.
func bearerToken(c *gin.Context) string {
	if token, err := c.Cookie(AccessTokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

// VerifyToken authenticates the caller and loads their account.
func VerifyToken(tokens TokenValidator, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.Error(apperrors.ErrUnauthorized)
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token, services.TokenTypeAccess)
		if err != nil {
			logger.Debug(c, "access token rejected", zap.Error(err))
			c.Error(apperrors.ErrInvalidToken)
			c.Abort()
			return
		}

		id, err := primitive.ObjectIDFromHex(claims.UserID)
		if err != nil {
			c.Error(apperrors.ErrInvalidToken)
			c.Abort()
			return
		}
		user, err := users.FindByID(c.Request.Context(), id)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				logger.Error(c, "failed to load token user", err)
			}
			c.Error(apperrors.Unauthorized("invalid user token"))
			c.Abort()
			return
		}

		c.Set(UserContextKey, user)
		c.Set(UserIDContextKey, user.ID)
		c.Set(RoleContextKey, user.Role)
		c.Next()
	}
}

// RequireAdmin must run after VerifyToken.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleContextKey) != models.RoleAdmin {
			c.Error(apperrors.ErrAdminOnly)
			c.Abort()
			return
		}
		c.Next()
	}
}

// UserID returns the authenticated user's id.
func UserID(c *gin.Context) (primitive.ObjectID, bool) {
	v, ok := c.Get(UserIDContextKey)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, ok := v.(primitive.ObjectID)
	return id, ok && !id.IsZero()
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(UserContextKey)
	if !ok {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok && user != nil
}
