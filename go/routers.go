package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
	// Middleware runs before HandlerFunc for this route only.
	Middleware []gin.HandlerFunc
}

// ApiHandleFunctions groups the handlers of every API surface.
type ApiHandleFunctions struct {
	// Routes for the OrdersAPI part of the API
	OrdersAPI OrdersAPI
	// Routes for the ReviewsAPI part of the API
	ReviewsAPI ReviewsAPI
	// Routes for the ContactAPI part of the API
	ContactAPI ContactAPI
	// Routes for the AdminAPI part of the API
	AdminAPI AdminAPI
	// Routes for the AuthAPI part of the API
	AuthAPI AuthAPI
	// Authenticator resolves sessions; admin routes reject every caller without one.
	Authenticator Authenticator
}

// NewRouter returns a new router with recovery and session resolution installed.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware...)
	return NewRouterWithGinEngine(router, handleFunctions)
}

// NewRouterWithGinEngine adds the API routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions) *gin.Engine {
	useJSONFieldNames()
	router.Use(handleFunctions.Authenticator.Identify())
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		handlers := append(append([]gin.HandlerFunc{}, route.Middleware...), route.HandlerFunc)
		router.Handle(route.Method, route.Pattern, handlers...)
	}
	router.NoRoute(func(c *gin.Context) {
		responder.NotFound(c, "route", c.Request.URL.Path)
	})
	return router
}

// DefaultHandleFunc answers routes that have no handler wired.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	admin := []gin.HandlerFunc{RequireRole(usersdomain.RoleAdmin)}
	return []Route{
		{
			"CreateOrder",
			http.MethodPost,
			"/orders",
			handleFunctions.OrdersAPI.CreateOrder,
			nil,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/orders",
			handleFunctions.OrdersAPI.ListOrders,
			admin,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/orders/:id",
			handleFunctions.OrdersAPI.GetOrder,
			admin,
		},
		{
			"UpdateOrderStatus",
			http.MethodPut,
			"/orders/:id",
			handleFunctions.OrdersAPI.UpdateOrderStatus,
			admin,
		},
		{
			"TrackOrder",
			http.MethodPost,
			"/track",
			handleFunctions.OrdersAPI.TrackOrder,
			nil,
		},
		{
			"SubmitReview",
			http.MethodPost,
			"/reviews",
			handleFunctions.ReviewsAPI.SubmitReview,
			nil,
		},
		{
			"ListProductReviews",
			http.MethodGet,
			"/products/:id/reviews",
			handleFunctions.ReviewsAPI.ListProductReviews,
			nil,
		},
		{
			"SendContactMessage",
			http.MethodPost,
			"/contact",
			handleFunctions.ContactAPI.SendContactMessage,
			nil,
		},
		{
			"GetDashboard",
			http.MethodGet,
			"/admin/dashboard",
			handleFunctions.AdminAPI.GetDashboard,
			admin,
		},
		{
			"Register",
			http.MethodPost,
			"/auth/register",
			handleFunctions.AuthAPI.Register,
			nil,
		},
		{
			"Login",
			http.MethodPost,
			"/auth/login",
			handleFunctions.AuthAPI.Login,
			nil,
		},
		{
			"Logout",
			http.MethodPost,
			"/auth/logout",
			handleFunctions.AuthAPI.Logout,
			nil,
		},
	}
}
