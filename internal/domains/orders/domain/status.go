package domain

import (
	"errors"
	"strings"
)

// Status enumerates order progression.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusShipped    Status = "shipped"
	StatusDelivered  Status = "delivered"
	StatusCancelled  Status = "cancelled"
)

var (
	ErrInvalidStatus             = errors.New("order status is invalid")
	ErrMissingCancellationReason = errors.New("cancellation reason is required when cancelling an order")
)

type statusInfo struct {
	label       string
	description string
}

var statusCatalog = map[Status]statusInfo{
	StatusPending:    {label: "Pending", description: "Your order is being processed"},
	StatusProcessing: {label: "Processing", description: "Preparing your order for shipment"},
	StatusShipped:    {label: "Shipped", description: "Your order is on the way"},
	StatusDelivered:  {label: "Delivered", description: "Successfully delivered"},
	StatusCancelled:  {label: "Cancelled", description: "Order has been cancelled"},
}

// Statuses lists every status in lifecycle order.
func Statuses() []Status {
	return []Status{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}
}

// ParseStatus converts raw input into a known Status.
func ParseStatus(raw string) (Status, error) {
	status := Status(strings.ToLower(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", ErrInvalidStatus
	}
	return status, nil
}

// Valid reports whether s is part of the enumeration.
func (s Status) Valid() bool {
	_, ok := statusCatalog[s]
	return ok
}

// Label is the display name shown in dashboards.
func (s Status) Label() string {
	if info, ok := statusCatalog[s]; ok {
		return info.label
	}
	return string(s)
}

// Description is the customer-facing sentence for the status.
func (s Status) Description() string {
	return statusCatalog[s].description
}

// StatusChange is a validated request to move an order to a new status.
type StatusChange struct {
	Status Status
	Reason string
}

// NewStatusChange validates the target status and the cancellation reason rule.
// A reason supplied for any status other than cancelled is dropped.
func NewStatusChange(rawStatus, reason string) (StatusChange, error) {
	status, err := ParseStatus(rawStatus)
	if err != nil {
		return StatusChange{}, err
	}
	reason = strings.TrimSpace(reason)
	if status == StatusCancelled {
		if reason == "" {
			return StatusChange{}, ErrMissingCancellationReason
		}
		return StatusChange{Status: status, Reason: reason}, nil
	}
	return StatusChange{Status: status}, nil
}
