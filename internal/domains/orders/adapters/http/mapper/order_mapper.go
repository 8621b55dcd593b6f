package mapper

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/application/types"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// PaymentMethod is the only payment channel the storefront accepts.
const PaymentMethod = "Credit Card"

// ContactForm is the checkout "formData" block.
type ContactForm struct {
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Address   string `json:"address"`
	Apartment string `json:"apartment,omitempty"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Phone     string `json:"phone"`
	Country   string `json:"country"`
}

// LineItem is the wire shape of a cart line.
type LineItem struct {
	ID        string  `json:"id,omitempty"`
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	Color     string  `json:"color,omitempty"`
	Size      string  `json:"size,omitempty"`
	Image     string  `json:"image,omitempty"`
}

// CreateOrderRequest is the POST /orders body. Field validation happens in the domain
// so every offending field is reported at once.
type CreateOrderRequest struct {
	FormData      ContactForm `json:"formData"`
	Items         []LineItem  `json:"items"`
	Total         *float64    `json:"total"`
	Shipping      float64     `json:"shipping"`
	Tax           float64     `json:"tax"`
	TransactionID string      `json:"transactionId"`
}

// UpdateStatusRequest is the PUT /orders/:id body.
type UpdateStatusRequest struct {
	Status             string `json:"status" binding:"required"`
	CancellationReason string `json:"cancellationReason"`
}

// TrackRequest is the POST /track body.
type TrackRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Email   string `json:"email" binding:"required"`
}

// CustomerDetails is the contact summary shown in admin views.
type CustomerDetails struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

// OrderView is the denormalized order representation returned to admin clients.
type OrderView struct {
	ID                 string          `json:"id"`
	Customer           string          `json:"customer"`
	CustomerDetails    CustomerDetails `json:"customerDetails"`
	Date               string          `json:"date"`
	Items              []LineItem      `json:"items"`
	Subtotal           string          `json:"subtotal"`
	Shipping           string          `json:"shipping"`
	Tax                string          `json:"tax"`
	Total              string          `json:"total"`
	Status             string          `json:"status"`
	PaymentMethod      string          `json:"paymentMethod"`
	TransactionID      string          `json:"transactionId"`
	CancellationReason *string         `json:"cancellationReason"`
	CreatedAt          time.Time       `json:"createdAt"`
	UpdatedAt          time.Time       `json:"updatedAt"`
}

// OrderListView is the GET /orders response.
type OrderListView struct {
	Orders     []OrderView `json:"orders"`
	Total      int64       `json:"total"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	TotalPages int         `json:"totalPages"`
}

// CreatedOrderView is the POST /orders response.
type CreatedOrderView struct {
	Message string    `json:"message"`
	Order   OrderView `json:"order"`
}

// TrackingView is the POST /track response.
type TrackingView struct {
	OrderID     string    `json:"orderId"`
	Status      string    `json:"status"`
	LastUpdated time.Time `json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToPlaceOrderInput converts the checkout body into the application command.
// An omitted total is reported as required alongside every other field failure,
// rather than decoding as 0.
func ToPlaceOrderInput(req CreateOrderRequest, actor types.Actor) (types.PlaceOrderInput, error) {
	items := make([]domain.LineItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, domain.LineItem(item))
	}
	input := types.PlaceOrderInput{
		Contact:       domain.Contact(req.FormData),
		Items:         items,
		Shipping:      req.Shipping,
		Tax:           req.Tax,
		TransactionID: req.TransactionID,
		Actor:         actor,
	}
	if req.Total != nil {
		input.Total = *req.Total
		return input, nil
	}
	var errs validation.FieldErrors
	var domainErrs validation.FieldErrors
	if errors.As(input.Validate(), &domainErrs) {
		for _, fe := range domainErrs {
			if fe.Field != "total" {
				errs = append(errs, fe)
			}
		}
	}
	errs.Add("total", "total is required")
	return input, errs
}

// ToTransitionInput pairs the path id with the status body.
func ToTransitionInput(id string, req UpdateStatusRequest) types.TransitionInput {
	return types.TransitionInput{OrderID: id, Status: req.Status, Reason: req.CancellationReason}
}

// FromProjection renders the admin order view.
func FromProjection(p *types.OrderProjection) OrderView {
	if p == nil || p.Entity == nil {
		return OrderView{}
	}
	order := p.Entity
	view := OrderView{
		ID:       order.ID,
		Customer: order.Contact.FullName(),
		CustomerDetails: CustomerDetails{
			Email:   order.Contact.Email,
			Phone:   order.Contact.Phone,
			Address: order.Contact.FormattedAddress(),
		},
		Date:          p.Metadata.CreatedAt.UTC().Format(time.DateOnly),
		Items:         make([]LineItem, 0, len(order.Items)),
		Subtotal:      order.Subtotal().StringFixed(2),
		Shipping:      Money(order.Shipping),
		Tax:           Money(order.Tax),
		Total:         Money(order.Total),
		Status:        string(order.Status),
		PaymentMethod: PaymentMethod,
		TransactionID: order.TransactionID,
		CreatedAt:     p.Metadata.CreatedAt,
		UpdatedAt:     p.Metadata.UpdatedAt,
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, LineItem(item))
	}
	if order.CancellationReason != "" {
		reason := order.CancellationReason
		view.CancellationReason = &reason
	}
	return view
}

// FromList renders one page of orders.
func FromList(list *types.OrderList) OrderListView {
	view := OrderListView{Orders: []OrderView{}}
	if list == nil {
		return view
	}
	for _, p := range list.Orders {
		view.Orders = append(view.Orders, FromProjection(p))
	}
	view.Total = list.Total
	view.Page = list.Page
	view.Limit = list.Limit
	view.TotalPages = list.TotalPages
	return view
}

// FromTracking renders the public tracking view.
func FromTracking(t *types.TrackingView) TrackingView {
	if t == nil {
		return TrackingView{}
	}
	return TrackingView{
		OrderID:     t.OrderID,
		Status:      string(t.Status),
		LastUpdated: t.LastUpdated,
		CreatedAt:   t.CreatedAt,
	}
}

// Money formats an amount with exactly two decimals.
func Money(amount float64) string {
	return decimal.NewFromFloat(amount).StringFixed(2)
}
