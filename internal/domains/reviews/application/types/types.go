package types

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/effects"
)

// EffectNegativeAlert names the admin alert effect in submission reports.
const EffectNegativeAlert = "notification.negative_review_alert"

// SubmitInput carries a review form. ProductID and OrderID come from the review link.
type SubmitInput struct {
	ProductID string
	OrderID   string
	Name      string
	Rating    int
	Comment   string
}

// SubmitResult is the stored review plus its follow-up effects.
type SubmitResult struct {
	Review  *domain.Review
	Effects effects.Report
}
