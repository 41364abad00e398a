package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Eursukkul/event-registration/internal/auth"
	"github.com/Eursukkul/event-registration/internal/models"
	"github.com/Eursukkul/event-registration/internal/repository"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const identityKey = "identity"

// Authenticate verifies the bearer token and attaches the caller's identity,
// loaded from the Account Directory, to the request context.
func Authenticate(verifier *auth.TokenVerifier, users repository.UserRepository, log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token, ok := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, no token")
			}

			sub, err := verifier.Verify(token)
			if err != nil {
				log.Debug("token rejected", zap.Error(err))
				return echo.NewHTTPError(http.StatusUnauthorized, "not authorized, token failed")
			}

			user, err := users.FindByID(c.Request().Context(), sub.UserID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnauthorized, "user not found")
				}
				log.Error("user lookup failed", zap.Stringer("user_id", sub.UserID), zap.Error(err))
				return echo.NewHTTPError(http.StatusServiceUnavailable, "service temporarily unavailable")
			}

			id := auth.IdentityFromUser(user)
			if sub.Role != "" && models.ParseRole(sub.Role) != id.Role {
				log.Info("token role is stale, using directory role",
					zap.Stringer("user_id", id.UserID),
					zap.String("token_role", sub.Role),
					zap.Stringer("directory_role", id.Role),
				)
			}
			SetIdentity(c, id)
			return next(c)
		}
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// SetIdentity attaches an identity to c.
func SetIdentity(c echo.Context, id *auth.Identity) {
	c.Set(identityKey, id)
}

// IdentityFrom returns the authenticated caller, or nil.
func IdentityFrom(c echo.Context) *auth.Identity {
	id, _ := c.Get(identityKey).(*auth.Identity)
	return id
}
