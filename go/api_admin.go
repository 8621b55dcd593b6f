package storefrontserver

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	activitymapper "github.com/Apurer/go-gin-storefront/internal/domains/activity/adapters/http/mapper"
	activityports "github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
	orderports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// recentActivityLimit is how many audit entries the dashboard shows.
const recentActivityLimit = 2

// AdminAPI serves the admin dashboard from the orders and activity contexts.
type AdminAPI struct {
	orders   orderports.Service
	activity activityports.Service
	now      func() time.Time
}

// NewAdminAPI creates an AdminAPI. A nil clock defaults to time.Now.
func NewAdminAPI(orders orderports.Service, activity activityports.Service, now func() time.Time) AdminAPI {
	if now == nil {
		now = time.Now
	}
	return AdminAPI{orders: orders, activity: activity, now: now}
}

// Get /admin/dashboard
// Order counters, the latest orders and the latest activity
func (api *AdminAPI) GetDashboard(c *gin.Context) {
	ctx := c.Request.Context()
	summary, err := api.orders.Summary(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := api.activity.Recent(ctx, recentActivityLimit)
	if err != nil {
		respondError(c, err)
		return
	}

	now := api.now()
	view := Dashboard{
		Stats: DashboardStats{
			PendingOrders:   summary.PendingOrders,
			CompletedOrders: summary.DeliveredOrders,
		},
		RecentOrders:   make([]DashboardOrder, 0, len(summary.RecentOrders)),
		RecentActivity: activitymapper.FromDomainList(records, now),
	}
	for _, p := range summary.RecentOrders {
		if p == nil || p.Entity == nil {
			continue
		}
		view.RecentOrders = append(view.RecentOrders, DashboardOrder{
			ID:        p.Entity.ID,
			Customer:  p.Entity.Contact.FullName(),
			Status:    string(p.Entity.Status),
			Total:     p.Entity.Total,
			Timestamp: activitymapper.HoursAgo(now, p.Metadata.CreatedAt),
		})
	}
	c.JSON(http.StatusOK, view)
}
