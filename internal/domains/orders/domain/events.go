package domain

import "time"

// Event is the base interface for all order domain events.
type Event interface {
	EventName() string
	OccurredAt() time.Time
}

// BaseEvent provides common event metadata.
type BaseEvent struct {
	Timestamp time.Time `json:"occurredAt"`
}

// OccurredAt returns when the event occurred.
func (e BaseEvent) OccurredAt() time.Time {
	return e.Timestamp
}

// OrderCreated is raised once an order has been persisted.
type OrderCreated struct {
	BaseEvent
	OrderID       string  `json:"orderId"`
	TransactionID string  `json:"transactionId"`
	Total         float64 `json:"total"`
	ItemCount     int     `json:"itemCount"`
}

// EventName returns the event type identifier.
func (e OrderCreated) EventName() string {
	return "orders.created"
}

// OrderStatusChanged is raised after a status transition is persisted.
type OrderStatusChanged struct {
	BaseEvent
	OrderID            string `json:"orderId"`
	Status             Status `json:"status"`
	CancellationReason string `json:"cancellationReason,omitempty"`
}

// EventName returns the event type identifier.
func (e OrderStatusChanged) EventName() string {
	return "orders.status_changed"
}

// NewOrderCreated builds the creation event for order.
func NewOrderCreated(order *Order, at time.Time) OrderCreated {
	return OrderCreated{
		BaseEvent:     BaseEvent{Timestamp: at},
		OrderID:       order.ID,
		TransactionID: order.TransactionID,
		Total:         order.Total,
		ItemCount:     len(order.Items),
	}
}

// NewOrderStatusChanged builds the transition event for order.
func NewOrderStatusChanged(order *Order, at time.Time) OrderStatusChanged {
	return OrderStatusChanged{
		BaseEvent:          BaseEvent{Timestamp: at},
		OrderID:            order.ID,
		Status:             order.Status,
		CancellationReason: order.CancellationReason,
	}
}
