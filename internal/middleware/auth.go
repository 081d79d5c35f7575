package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/folio-api/internal/constants"
	apierrors "github.com/yukikurage/folio-api/internal/errors"
	"github.com/yukikurage/folio-api/internal/models"
	"github.com/yukikurage/folio-api/internal/services"
)

// Identity is the authenticated caller stored on the request context
type Identity struct {
	UserID   uint64
	Username string
	Role     models.Role
}

// Authenticator resolves a bearer token to an active user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth checks the bearer token and re-loads the user so that
// deactivated accounts are rejected while their tokens are still valid.
func RequireAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			apierrors.Unauthorized(c, apierrors.MsgAccessTokenRequired)
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrInvalidToken):
				apierrors.Forbidden(c, apierrors.MsgInvalidToken)
			case errors.Is(err, services.ErrInactiveUser):
				apierrors.Unauthorized(c, apierrors.MsgInvalidUser)
			default:
				_ = c.Error(err)
				c.Abort()
			}
			return
		}

		setIdentity(c, user)
		c.Next()
	}
}

// OptionalAuth attaches an identity when a valid token is present and
// otherwise lets the request through anonymously.
func OptionalAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token, ok := bearerToken(c); ok {
			if user, err := auth.Authenticate(c.Request.Context(), token); err == nil {
				setIdentity(c, user)
			}
		}
		c.Next()
	}
}

// RequireRole must run after RequireAuth
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			apierrors.Unauthorized(c, apierrors.MsgAuthenticationRequired)
			return
		}

		current, err := models.ParseRole(string(identity.Role))
		if err != nil {
			apierrors.Forbidden(c, apierrors.MsgInsufficientPermissions)
			return
		}
		for _, role := range roles {
			if current == role {
				c.Next()
				return
			}
		}
		apierrors.Forbidden(c, apierrors.MsgInsufficientPermissions)
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, constants.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, constants.BearerPrefix))
	return token, token != ""
}

func setIdentity(c *gin.Context, user *models.User) {
	c.Set(constants.ContextKeyIdentity, Identity{
		UserID:   user.ID,
		Username: user.Username,
		Role:     user.Role,
	})
	c.Set(constants.ContextKeyUserID, user.ID)
}

// GetIdentity retrieves the authenticated caller from context
func GetIdentity(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(constants.ContextKeyIdentity)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
