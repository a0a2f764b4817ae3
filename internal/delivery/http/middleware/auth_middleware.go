package middleware

import (
	"strings"

	"identity/internal/delivery/http/response"
	"identity/internal/domain/entity"
	"identity/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// Context keys the middleware sets for downstream handlers.
const (
	ContextKeyAccountID = "accountID"
	ContextKeyRole      = "role"
)

// AuthMiddleware guards routes that require a valid session token.
type AuthMiddleware struct {
	sessionSvc service.SessionTokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(sessionSvc service.SessionTokenService) *AuthMiddleware {
	return &AuthMiddleware{sessionSvc: sessionSvc}
}

// Authenticate validates the Bearer session token and stores the verified
// account ID and role on the context. Every failure mode answers with the
// same 401 body, so a probe learns nothing about why it was refused.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
		if authHeader == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader || tokenString == "" {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		claims, err := m.sessionSvc.Verify(tokenString)
		if err != nil {
			return response.Unauthorized(c, "INVALID_TOKEN", "Invalid or expired token")
		}

		// Set verified identity on the context for handlers to use
		c.Set(ContextKeyAccountID, claims.AccountID)
		c.Set(ContextKeyRole, claims.Role)

		return next(c)
	}
}

// RequireRole restricts a route to accounts holding the given role.
// It must be used AFTER the Authenticate middleware.
func (m *AuthMiddleware) RequireRole(requiredRole entity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ContextKeyRole).(entity.Role)
			if !ok || role != requiredRole {
				return response.Forbidden(c, "PERMISSION_DENIED", "Permission denied: require '"+requiredRole.String()+"' role")
			}

			return next(c)
		}
	}
}
