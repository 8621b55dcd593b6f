package storefrontserver

import (
	"strings"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const (
	// SessionCookie carries the session token for browser clients.
	SessionCookie = "session"

	principalKey = "storefront.principal"
)

// Authenticator resolves session tokens into principals for downstream handlers.
type Authenticator struct {
	users usersports.Service
}

func NewAuthenticator(users usersports.Service) Authenticator {
	return Authenticator{users: users}
}

// Identify attaches the caller's principal when a valid session is presented.
// Requests without a session pass through anonymously.
func (a Authenticator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := sessionToken(c)
		if token == "" || a.users == nil {
			c.Next()
			return
		}
		principal, err := a.users.Authenticate(c.Request.Context(), token)
		if err == nil && principal != nil {
			c.Set(principalKey, *principal)
		}
		c.Next()
	}
}

// RequireRole rejects anonymous callers with 401 and callers without role with 403.
func RequireRole(role usersdomain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			respondProblem(c, apierrors.ErrUnauthorized.WithDetail("authentication required"))
			return
		}
		if principal.Role != role {
			respondProblem(c, apierrors.ErrForbidden.WithDetail("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// PrincipalFrom returns the authenticated caller, if any.
func PrincipalFrom(c *gin.Context) (usersdomain.Principal, bool) {
	value, ok := c.Get(principalKey)
	if !ok {
		return usersdomain.Principal{}, false
	}
	principal, ok := value.(usersdomain.Principal)
	return principal, ok
}

func sessionToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil {
		return cookie
	}
	return ""
}
