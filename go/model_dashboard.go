package storefrontserver

import (
	activitymapper "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/http/mapper"
)

// DashboardStats holds the admin landing page counters.
type DashboardStats struct {
	PendingOrders   int64 `json:"pendingOrders"`
	CompletedOrders int64 `json:"completedOrders"`
}

// DashboardOrder is a recent order line on the dashboard.
type DashboardOrder struct {
	ID        string  `json:"id"`
	Customer  string  `json:"customer"`
	Status    string  `json:"status"`
	Total     float64 `json:"total"`
	Timestamp string  `json:"timestamp"`
}

// Dashboard is the GET /admin/dashboard response.
type Dashboard struct {
	Stats          DashboardStats            `json:"stats"`
	RecentOrders   []DashboardOrder          `json:"recentOrders"`
	RecentActivity []activitymapper.Activity `json:"recentActivity"`
}
