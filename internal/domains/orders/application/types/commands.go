package types

import (
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// Effect names reported in placement and transition results.
const (
	EffectActivity             = "activity.order_created"
	EffectAdminAlert           = "notification.order_created_admin_alert"
	EffectCustomerNotification = "notification.customer_status_update"
	EffectEvent                = "event.publish"
)

// Actor identifies who triggered a use case, when known.
type Actor struct {
	UserID    string
	Name      string
	IPAddress string
	UserAgent string
}

// PlaceOrderInput carries a checkout submission whose payment has already been confirmed.
type PlaceOrderInput struct {
	Contact       domain.Contact
	Items         []domain.LineItem
	Total         float64
	Shipping      float64
	Tax           float64
	TransactionID string
	Actor         Actor
	// OrderID is preassigned by durable callers so a retried persist can
	// recognise its own earlier write. Empty means generate one.
	OrderID string
}

// Validate runs the aggregate invariants without assigning an identity.
func (in PlaceOrderInput) Validate() error {
	_, err := in.Build("pending-validation")
	return err
}

// Build materializes a pending order with the supplied id.
func (in PlaceOrderInput) Build(id string) (*domain.Order, error) {
	return domain.NewOrder(id, in.Contact, in.Items, in.Total, in.Shipping, in.Tax, in.TransactionID)
}

// CompletePlacementInput identifies a persisted order whose follow-up effects should run.
type CompletePlacementInput struct {
	OrderID string
	Actor   Actor
}

// TransitionInput requests a status change.
type TransitionInput struct {
	OrderID string
	Status  string
	Reason  string
}

// ListOrdersInput selects a page of orders or a single id via Query.
type ListOrdersInput struct {
	Page  int
	Limit int
	Query string
}

// TrackInput is the unauthenticated lookup key pair.
type TrackInput struct {
	OrderID string
	Email   string
}

// Validate ensures both lookup fields are present.
func (in TrackInput) Validate() error {
	var errs validation.FieldErrors
	errs.Required("orderId", in.OrderID)
	errs.Required("email", in.Email)
	return errs.Err()
}

// Normalized trims the id and lower-cases the email.
func (in TrackInput) Normalized() TrackInput {
	return TrackInput{
		OrderID: strings.TrimSpace(in.OrderID),
		Email:   strings.ToLower(strings.TrimSpace(in.Email)),
	}
}
