package activity

import (
	"context"
	"errors"

	activitytypes "github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	activitydomain "github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
	activityports "github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var _ ports.ActivityRecorder = (*Recorder)(nil)

// Recorder writes order audit entries through the activity service.
type Recorder struct {
	activity activityports.Service
}

func NewRecorder(activity activityports.Service) *Recorder {
	return &Recorder{activity: activity}
}

// OrderCreated appends the order_created entry.
func (r *Recorder) OrderCreated(ctx context.Context, order *domain.Order, actor types.Actor) error {
	if r.activity == nil {
		return errors.New("activity service not configured")
	}
	_, err := r.activity.Record(ctx, activitytypes.OrderCreated(order.ID, order.Total, activitydomain.Actor{
		UserID:    actor.UserID,
		Name:      actor.Name,
		IPAddress: actor.IPAddress,
		UserAgent: actor.UserAgent,
	}))
	return err
}
