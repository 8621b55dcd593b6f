package mapper

import (
	"time"

	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/reviews/domain"
)

// SubmitReviewRequest is the review form body; productId and orderId arrive in the query string.
type SubmitReviewRequest struct {
	Name    string `json:"name" binding:"required"`
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type Review struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	OrderID   string    `json:"orderId"`
	Name      string    `json:"name"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// SubmittedReview mirrors the storefront's success envelope.
type SubmittedReview struct {
	Message string `json:"message"`
	Review  Review `json:"review"`
}

func ToSubmitInput(productID, orderID string, req SubmitReviewRequest) types.SubmitInput {
	return types.SubmitInput{
		ProductID: productID,
		OrderID:   orderID,
		Name:      req.Name,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
}

func FromDomain(review *domain.Review) Review {
	if review == nil {
		return Review{}
	}
	return Review{
		ID:        review.ID,
		ProductID: review.ProductID,
		OrderID:   review.OrderID,
		Name:      review.Name,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func FromDomainList(reviews []*domain.Review) []Review {
	out := make([]Review, 0, len(reviews))
	for _, review := range reviews {
		out = append(out, FromDomain(review))
	}
	return out
}
