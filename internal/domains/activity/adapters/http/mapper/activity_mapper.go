package mapper

import (
	"fmt"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/activity/domain"
)

// Activity is the dashboard rendering of one audit entry.
type Activity struct {
	Type      string `json:"type"`
	Details   string `json:"details"`
	Timestamp string `json:"timestamp"`
	User      string `json:"user"`
}

func FromDomain(record *domain.Record, now time.Time) Activity {
	if record == nil {
		return Activity{}
	}
	return Activity{
		Type:      record.Type.Label(),
		Details:   record.Details(),
		Timestamp: HoursAgo(now, record.CreatedAt),
		User:      record.ActorName(),
	}
}

func FromDomainList(records []*domain.Record, now time.Time) []Activity {
	out := make([]Activity, 0, len(records))
	for _, record := range records {
		out = append(out, FromDomain(record, now))
	}
	return out
}

// HoursAgo renders the whole hours elapsed since at, e.g. "3 hours ago".
func HoursAgo(now, at time.Time) string {
	hours := int(now.Sub(at) / time.Hour)
	if hours < 0 {
		hours = 0
	}
	return fmt.Sprintf("%d hours ago", hours)
}
