package domain

import (
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

const (
	MinRating = 1
	MaxRating = 5
	// NegativeThreshold is the highest rating that triggers an admin alert.
	NegativeThreshold = 3
)

// Review is a customer rating of one product from one order.
type Review struct {
	ID        string
	ProductID string
	OrderID   string
	Name      string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// NewReview validates every field and reports all failures at once.
func NewReview(id, productID, orderID, name string, rating int, comment string, createdAt time.Time) (*Review, error) {
	r := &Review{
		ID:        id,
		ProductID: strings.TrimSpace(productID),
		OrderID:   strings.TrimSpace(orderID),
		Name:      strings.TrimSpace(name),
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: createdAt,
	}
	var errs validation.FieldErrors
	errs.Required("productId", r.ProductID)
	errs.Required("orderId", r.OrderID)
	errs.Required("name", r.Name)
	if rating < MinRating || rating > MaxRating {
		errs.Add("rating", "rating must be between 1 and 5")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}
	return r, nil
}

// Negative reports whether the rating warrants an admin alert.
func (r Review) Negative() bool {
	return r.Rating <= NegativeThreshold
}
