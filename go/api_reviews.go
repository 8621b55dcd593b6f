package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	reviewmapper "github.com/Apurer/go-gin-storefront/internal/domains/reviews/adapters/http/mapper"
	reviewports "github.com/Apurer/go-gin-storefront/internal/domains/reviews/ports"
)

// ReviewSubmittedMessage is returned once a review is stored.
const ReviewSubmittedMessage = "Review submitted successfully"

// ReviewsAPI wires HTTP transport with the reviews bounded context service.
type ReviewsAPI struct {
	service reviewports.Service
}

// NewReviewsAPI creates a ReviewsAPI backed by the provided service.
func NewReviewsAPI(service reviewports.Service) ReviewsAPI {
	return ReviewsAPI{service: service}
}

// Post /reviews?productId=&orderId=
// Review a purchased product
func (api *ReviewsAPI) SubmitReview(c *gin.Context) {
	var payload reviewmapper.SubmitReviewRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	input := reviewmapper.ToSubmitInput(c.Query("productId"), c.Query("orderId"), payload)
	result, err := api.service.Submit(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, reviewmapper.SubmittedReview{
		Message: ReviewSubmittedMessage,
		Review:  reviewmapper.FromDomain(result.Review),
	})
}

// Get /products/:id/reviews
// List reviews for a product, newest first
func (api *ReviewsAPI) ListProductReviews(c *gin.Context) {
	reviews, err := api.service.ListByProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, reviewmapper.FromDomainList(reviews))
}
