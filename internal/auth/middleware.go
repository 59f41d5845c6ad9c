package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const principalContextKey = "principal"

// Principal is the authenticated identity and role derived from a valid token.
type Principal struct {
	UserID uint
	Email  string
	Role   Role
}

// Middleware gates requests on token validity and role membership. It is the
// sole enforcement point; any client-side mirroring of these checks is a
// convenience, never a boundary.
type Middleware struct {
	jwtService *JWTService
	tokenStore TokenStoreInterface
}

// NewMiddleware creates the authorization middleware.
func NewMiddleware(jwtService *JWTService, tokenStore TokenStoreInterface) *Middleware {
	return &Middleware{jwtService: jwtService, tokenStore: tokenStore}
}

// RequireRoles returns an echo middleware that authenticates the request and,
// when roles is non-empty, requires the principal's role to be among them.
// With no roles it only requires a valid token. On success the Principal is
// attached to the request context; the resource store is never touched here.
func (m *Middleware) RequireRoles(roles ...Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if header == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := m.jwtService.ValidateToken(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			if claims.ID != "" {
				denied, _ := m.tokenStore.IsTokenDenied(c.Request().Context(), claims.ID)
				if denied {
					return echo.NewHTTPError(http.StatusUnauthorized, "Token has been revoked")
				}
			}

			// Role already validated at the decode boundary.
			role := Role(claims.Role)
			if len(roles) > 0 && !role.OneOf(roles...) {
				return echo.NewHTTPError(http.StatusForbidden, "Insufficient role")
			}

			c.Set(principalContextKey, Principal{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   role,
			})
			return next(c)
		}
	}
}

// PrincipalFrom returns the Principal attached by RequireRoles.
func PrincipalFrom(c echo.Context) (Principal, bool) {
	p, ok := c.Get(principalContextKey).(Principal)
	return p, ok
}
