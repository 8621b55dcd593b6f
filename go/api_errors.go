package storefrontserver

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	notifapp "github.com/Apurer/go-gin-storefront/internal/domains/notifications/application"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	reviewsapp "github.com/Apurer/go-gin-storefront/internal/domains/reviews/application"
	reviewsports "github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
	usersapp "github.com/Apurer/go-gin-storefront/internal/domains/users/application"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

var responder = apierrors.NewResponder("",
	mapValidationError,
	mapNotFoundError,
	mapConflictError,
	mapAuthError,
	mapUpstreamError,
)

// respondProblem maps a ProblemDetail through the shared responder.
func respondProblem(c *gin.Context, problem apierrors.ProblemDetail) {
	responder.Respond(c, problem)
}

// respondError sends err as an RFC 7807 response using the storefront mappers.
func respondError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

// respondBindingError reports a malformed or invalid request body.
func respondBindingError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = bindingMessage(fe)
		}
		responder.ValidationFailed(c, fields)
		return
	}
	responder.BadRequest(c, "request body is not valid JSON")
}

func bindingMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fe.Field() + " must be at least " + fe.Param()
	case "max":
		return fe.Field() + " must be at most " + fe.Param()
	default:
		return fe.Field() + " is invalid"
	}
}

func mapValidationError(err error) (apierrors.ProblemDetail, bool) {
	if fields, ok := validation.Fields(err); ok {
		return apierrors.NewValidationProblem(fields), true
	}
	switch {
	case errors.Is(err, ordersapp.ErrInvalidInput),
		errors.Is(err, reviewsapp.ErrInvalidInput),
		errors.Is(err, usersapp.ErrInvalidInput):
		return apierrors.ErrValidation.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapNotFoundError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrNotFound),
		errors.Is(err, ordersports.ErrItemNotFound),
		errors.Is(err, reviewsports.ErrPurchaseNotFound),
		errors.Is(err, usersports.ErrNotFound):
		return apierrors.ErrNotFound.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapConflictError(err error) (apierrors.ProblemDetail, bool) {
	switch {
	case errors.Is(err, ordersports.ErrDuplicateTransaction),
		errors.Is(err, usersports.ErrDuplicateEmail):
		return apierrors.ErrConflict.WithDetail(err.Error()), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapAuthError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, usersapp.ErrAuthentication) {
		return apierrors.ErrUnauthorized.WithDetail("invalid credentials or session"), true
	}
	return apierrors.ProblemDetail{}, false
}

func mapUpstreamError(err error) (apierrors.ProblemDetail, bool) {
	if errors.Is(err, notifapp.ErrTransportFailed) {
		return apierrors.ErrBadGateway.WithDetail("failed to send email"), true
	}
	return apierrors.ProblemDetail{}, false
}

var registerTagNames sync.Once

// useJSONFieldNames makes binding errors report the wire field names.
func useJSONFieldNames() {
	registerTagNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}
