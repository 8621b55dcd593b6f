package types

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
	"github.com/Apurer/go-gin-storefront/internal/shared/projection"
)

// OrderProjection transports an order together with its persistence metadata.
type OrderProjection = projection.Projection[*domain.Order]

// NewOrderProjection wraps an aggregate with persistence metadata.
func NewOrderProjection(order *domain.Order, createdAt, updatedAt time.Time) *OrderProjection {
	if order == nil {
		return nil
	}
	return projection.New(order, createdAt, updatedAt)
}

// PlacementResult is the persisted order plus the outcome of every follow-up effect.
type PlacementResult struct {
	Order   *OrderProjection
	Effects effects.Report
}

// TransitionResult is the updated order plus the outcome of every follow-up effect.
type TransitionResult struct {
	Order   *OrderProjection
	Effects effects.Report
}

// OrderList is one page of orders, newest first.
type OrderList struct {
	Orders     []*OrderProjection
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// TrackingView is the minimal status shown to unauthenticated customers.
type TrackingView struct {
	OrderID     string
	Status      domain.Status
	LastUpdated time.Time
	CreatedAt   time.Time
}

// DashboardSummary aggregates the admin landing page counters.
type DashboardSummary struct {
	PendingOrders   int64
	DeliveredOrders int64
	RecentOrders    []*OrderProjection
}
