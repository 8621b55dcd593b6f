package types

import (
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
)

// RecordInput is an untrusted request to append an activity entry.
type RecordInput struct {
	Type        string
	Description string
	Metadata    map[string]any
	Actor       domain.Actor
}

func shortID(id string) string {
	if len(id) <= 4 {
		return id
	}
	return id[:4]
}

// OrderCreated describes a newly placed order.
func OrderCreated(orderID string, amount float64, actor domain.Actor) RecordInput {
	return RecordInput{
		Type:        string(domain.TypeOrderCreated),
		Description: fmt.Sprintf("New order #%s", shortID(orderID)),
		Metadata:    map[string]any{"orderId": orderID, "amount": amount},
		Actor:       actor,
	}
}

// ProductUpdated describes a catalog edit made elsewhere in the storefront.
func ProductUpdated(productID, name string, actor domain.Actor) RecordInput {
	return RecordInput{
		Type:        string(domain.TypeProductUpdated),
		Description: fmt.Sprintf("Product updated: %s", name),
		Metadata:    map[string]any{"productId": productID},
		Actor:       actor,
	}
}

// UserRegistered describes a new account; the user is its own actor.
func UserRegistered(userID, email, name string) RecordInput {
	return RecordInput{
		Type:        string(domain.TypeUserRegistered),
		Description: fmt.Sprintf("New user: %s", email),
		Metadata:    map[string]any{"userId": userID},
		Actor:       domain.Actor{UserID: userID, Name: name},
	}
}
