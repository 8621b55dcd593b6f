package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// ErrInvalidInput signals the request violated a domain invariant.
var ErrInvalidInput = errors.New("invalid order input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrInvalidInput) {
		return err
	}
	if errors.Is(err, domain.ErrInvalidStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("status", err))
	}
	if errors.Is(err, domain.ErrMissingCancellationReason) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, validation.Field("cancellationReason", err))
	}
	if errors.Is(err, validation.ErrInvalid) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
