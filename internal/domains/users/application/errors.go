package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

var (
	// ErrInvalidInput signals the request violated a domain invariant.
	ErrInvalidInput = errors.New("invalid user input")
	// ErrAuthentication wraps authentication failures.
	ErrAuthentication = errors.New("authentication failed")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, domain.ErrInvalidEmail):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("email", err))
	case errors.Is(err, domain.ErrEmptyName):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("name", err))
	case errors.Is(err, domain.ErrEmptyPassword), errors.Is(err, domain.ErrWeakPassword):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("password", err))
	case errors.Is(err, domain.ErrInvalidRole):
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("role", err))
	}
	if errors.Is(err, ports.ErrInvalidCredentials) || errors.Is(err, ports.ErrSessionNotFound) {
		return fmt.Errorf("%w: %w", ErrAuthentication, err)
	}
	return err
}
