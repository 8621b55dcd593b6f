package activity

import (
	"context"
	"errors"

	activitytypes "github.com/Apurer/go-gin-storefront/internal/domains/activity/application/types"
	activityports "github.com/Apurer/go-gin-storefront/internal/domains/activity/ports"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

var _ ports.ActivityRecorder = (*Recorder)(nil)

// Recorder writes account audit entries through the activity service.
type Recorder struct {
	activity activityports.Service
}

func NewRecorder(activity activityports.Service) *Recorder {
	return &Recorder{activity: activity}
}

func (r *Recorder) UserRegistered(ctx context.Context, user *domain.User) error {
	if r.activity == nil {
		return errors.New("activity service not configured")
	}
	_, err := r.activity.Record(ctx, activitytypes.UserRegistered(user.ID, user.Email, user.Name))
	return err
}
