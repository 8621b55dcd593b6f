package storefrontserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	usermapper "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/http/mapper"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

// AuthAPI wires HTTP transport with the users bounded context service.
type AuthAPI struct {
	service usersports.Service
}

// NewAuthAPI creates an AuthAPI backed by the provided service.
func NewAuthAPI(service usersports.Service) AuthAPI {
	return AuthAPI{service: service}
}

// Post /auth/register
// Create a customer account
func (api *AuthAPI) Register(c *gin.Context) {
	var payload usermapper.RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	user, err := api.service.Register(c.Request.Context(), usermapper.ToRegisterInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, usermapper.FromDomainUser(user))
}

// Post /auth/login
// Logs user into the system
func (api *AuthAPI) Login(c *gin.Context) {
	var payload usermapper.LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	result, err := api.service.Login(c.Request.Context(), usermapper.ToLoginInput(payload))
	if err != nil {
		respondError(c, err)
		return
	}
	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, result.Token, maxAge, "/", "", false, true)
	c.JSON(http.StatusOK, usermapper.FromLoginResult(result))
}

// Post /auth/logout
// Logs out current logged in user session
func (api *AuthAPI) Logout(c *gin.Context) {
	if token := sessionToken(c); token != "" {
		if err := api.service.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}
