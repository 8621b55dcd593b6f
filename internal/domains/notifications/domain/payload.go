package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Kind names one of the fixed email templates.
type Kind string

const (
	KindOrderCreatedAdminAlert Kind = "order-created-admin-alert"
	KindStatusChanged          Kind = "status-changed"
	KindDelivered              Kind = "delivered"
	KindCancelled              Kind = "cancelled"
	KindNegativeReviewAlert    Kind = "negative-review-alert"
	KindContactMessage         Kind = "generic-contact-message"
)

// Kinds lists every template kind.
func Kinds() []Kind {
	return []Kind{
		KindOrderCreatedAdminAlert,
		KindStatusChanged,
		KindDelivered,
		KindCancelled,
		KindNegativeReviewAlert,
		KindContactMessage,
	}
}

var (
	ErrMissingField     = errors.New("notification payload missing required field")
	ErrUnknownKind      = errors.New("unknown notification kind")
	ErrMissingRecipient = errors.New("notification recipient is required")
)

// MissingFieldError lists the required fields a payload left empty.
type MissingFieldError struct {
	Kind   Kind
	Fields []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrMissingField.Error(), e.Kind, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldError) Unwrap() error { return ErrMissingField }

// Payload is the structured input of one template.
type Payload interface {
	Kind() Kind
	Subject() string
	// Missing returns the names of required fields left empty.
	Missing() []string
}

// CheckPayload returns a *MissingFieldError when payload is incomplete.
func CheckPayload(payload Payload) error {
	if payload == nil {
		return ErrUnknownKind
	}
	if missing := payload.Missing(); len(missing) > 0 {
		return &MissingFieldError{Kind: payload.Kind(), Fields: missing}
	}
	return nil
}

// Item is an order line as shown in customer emails.
type Item struct {
	ProductID string
	Name      string
	Quantity  int
	Price     float64
	Color     string
	Size      string
	Image     string
	ReviewURL string
}

type requirements []string

func (r *requirements) text(name, value string) {
	if strings.TrimSpace(value) == "" {
		*r = append(*r, name)
	}
}

func (r *requirements) items(name string, items []Item) {
	if len(items) == 0 {
		*r = append(*r, name)
		return
	}
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			*r = append(*r, fmt.Sprintf("%s[%d].name", name, i))
		}
	}
}

// OrderCreatedAdminAlert tells the store owner a new order arrived.
type OrderCreatedAdminAlert struct {
	OrderID      string
	CustomerName string
	Total        string
	DashboardURL string
}

func (OrderCreatedAdminAlert) Kind() Kind      { return KindOrderCreatedAdminAlert }
func (OrderCreatedAdminAlert) Subject() string { return "New Order Received" }

func (p OrderCreatedAdminAlert) Missing() []string {
	var r requirements
	r.text("orderId", p.OrderID)
	r.text("dashboardUrl", p.DashboardURL)
	return r
}

// StatusChanged informs the customer about a pending, processing or shipped order.
type StatusChanged struct {
	FirstName string
	OrderID   string
	Status    string
	Items     []Item
}

func (StatusChanged) Kind() Kind      { return KindStatusChanged }
func (StatusChanged) Subject() string { return "Your order update" }

func (p StatusChanged) Missing() []string {
	var r requirements
	r.text("firstName", p.FirstName)
	r.text("orderId", p.OrderID)
	r.text("status", p.Status)
	r.items("items", p.Items)
	return r
}

// StatusMessage is the sentence describing the new status.
func (p StatusChanged) StatusMessage() string {
	switch p.Status {
	case "pending":
		return "Your order has been received and is awaiting processing."
	case "processing":
		return "Your order is now being processed."
	default:
		return "Your order has been shipped and is on its way!"
	}
}

// Delivered thanks the customer and asks for a review per item.
type Delivered struct {
	FirstName string
	OrderID   string
	Items     []Item
}

func (Delivered) Kind() Kind      { return KindDelivered }
func (Delivered) Subject() string { return "Your order has been delivered" }

func (p Delivered) Missing() []string {
	var r requirements
	r.text("firstName", p.FirstName)
	r.text("orderId", p.OrderID)
	r.items("items", p.Items)
	for i, item := range p.Items {
		r.text(fmt.Sprintf("items[%d].reviewUrl", i), item.ReviewURL)
	}
	return r
}

// Cancelled tells the customer the order will not ship.
type Cancelled struct {
	FirstName string
	OrderID   string
	Reason    string
	Items     []Item
}

func (Cancelled) Kind() Kind      { return KindCancelled }
func (Cancelled) Subject() string { return "Your order has been cancelled" }

func (p Cancelled) Missing() []string {
	var r requirements
	r.text("firstName", p.FirstName)
	r.text("orderId", p.OrderID)
	r.text("reason", p.Reason)
	r.items("items", p.Items)
	return r
}

// DefaultReviewText replaces an empty review comment in alerts.
const DefaultReviewText = "No written feedback provided."

// NegativeReviewAlert flags a low rating to the store owner.
type NegativeReviewAlert struct {
	CustomerName string
	ProductName  string
	Rating       int
	Review       string
	OrderID      string
}

func (NegativeReviewAlert) Kind() Kind      { return KindNegativeReviewAlert }
func (NegativeReviewAlert) Subject() string { return "Negative Review Alert" }

func (p NegativeReviewAlert) Missing() []string {
	var r requirements
	r.text("customerName", p.CustomerName)
	r.text("productName", p.ProductName)
	r.text("orderId", p.OrderID)
	if p.Rating < 1 || p.Rating > 5 {
		r = append(r, "rating")
	}
	return r
}

// ReviewText returns the review or the placeholder.
func (p NegativeReviewAlert) ReviewText() string {
	if strings.TrimSpace(p.Review) == "" {
		return DefaultReviewText
	}
	return p.Review
}

// ContactMessage relays a storefront contact form submission.
type ContactMessage struct {
	Name    string
	Email   string
	Topic   string
	Message string
}

func (ContactMessage) Kind() Kind { return KindContactMessage }

// Subject is supplied by the sender.
func (p ContactMessage) Subject() string { return p.Topic }

func (p ContactMessage) Missing() []string {
	var r requirements
	r.text("name", p.Name)
	r.text("email", p.Email)
	r.text("subject", p.Topic)
	r.text("message", p.Message)
	return r
}

// Message is a rendered email body pair.
type Message struct {
	Subject string
	HTML    string
	Text    string
}

// Recipient addresses one outbound email. From falls back to the dispatcher default.
type Recipient struct {
	To      string
	From    string
	ReplyTo string
}

// Email is the fully addressed document handed to a transport.
type Email struct {
	Kind    Kind
	From    string
	To      string
	ReplyTo string
	Subject string
	HTML    string
	Text    string
}
