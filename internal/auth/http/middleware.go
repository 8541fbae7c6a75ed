package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	authUseCase "github.com/allisson/legacyvault/internal/auth/usecase"
	apperrors "github.com/allisson/legacyvault/internal/errors"
	"github.com/allisson/legacyvault/internal/httputil"
)

const bearerPrefix = "bearer "

// AuthenticationMiddleware requires an "Authorization: Bearer <jwt>" header, resolves it
// through authUseCase.Authenticate and stores the principal in the request context.
//
// Error handling:
//   - Missing or malformed header → 401 Unauthorized
//   - Invalid or expired token → 401 Unauthorized
//   - Deactivated user → 403 Forbidden
func AuthenticationMiddleware(authUseCase authUseCase.UseCase, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			logger.Debug("authentication failed: missing or malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		principal, err := authUseCase.Authenticate(c.Request.Context(), token)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		c.Request = c.Request.WithContext(WithPrincipal(c.Request.Context(), principal))

		logger.Debug("authentication successful", slog.Int64("user_id", principal.UserID))

		c.Next()
	}
}

// bearerToken extracts the token of a case-insensitive "Bearer" authorization header.
func bearerToken(header string) (string, bool) {
	if len(header) < len(bearerPrefix) || !strings.EqualFold(header[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(bearerPrefix):])
	return token, token != ""
}
