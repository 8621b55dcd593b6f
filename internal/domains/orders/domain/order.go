package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

var (
	ErrEmptyItems            = errors.New("order must contain at least one item")
	ErrEmptyTransactionID    = errors.New("transaction id is required")
	ErrTotalMismatch         = errors.New("total does not match items, shipping and tax")
	ErrCancellationReasonSet = errors.New("cancellation reason is only allowed on cancelled orders")
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// totalTolerance absorbs float rounding in client-computed totals.
var totalTolerance = decimal.RequireFromString("0.01")

// Contact is the shipping and contact block captured at checkout.
type Contact struct {
	Email     string
	FirstName string
	LastName  string
	Address   string
	Apartment string
	City      string
	State     string
	Zip       string
	Phone     string
	Country   string
}

// FullName joins first and last name.
func (c Contact) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// FormattedAddress renders "address, city, state zip, country".
func (c Contact) FormattedAddress() string {
	return fmt.Sprintf("%s, %s, %s %s, %s", c.Address, c.City, c.State, c.Zip, c.Country)
}

func (c Contact) normalized() Contact {
	return Contact{
		Email:     strings.ToLower(strings.TrimSpace(c.Email)),
		FirstName: strings.TrimSpace(c.FirstName),
		LastName:  strings.TrimSpace(c.LastName),
		Address:   strings.TrimSpace(c.Address),
		Apartment: strings.TrimSpace(c.Apartment),
		City:      strings.TrimSpace(c.City),
		State:     strings.TrimSpace(c.State),
		Zip:       strings.TrimSpace(c.Zip),
		Phone:     strings.TrimSpace(c.Phone),
		Country:   strings.TrimSpace(c.Country),
	}
}

func (c Contact) validate(errs *validation.FieldErrors) {
	if errs.Required("formData.email", c.Email) && !emailPattern.MatchString(c.Email) {
		errs.Add("formData.email", "formData.email must be a valid email address")
	}
	errs.Required("formData.firstName", c.FirstName)
	errs.Required("formData.lastName", c.LastName)
	errs.Required("formData.address", c.Address)
	errs.Required("formData.city", c.City)
	errs.Required("formData.state", c.State)
	errs.Required("formData.zip", c.Zip)
	errs.Required("formData.phone", c.Phone)
	errs.Required("formData.country", c.Country)
}

// LineItem is one purchased product variant.
type LineItem struct {
	ID        string
	ProductID string
	Name      string
	Price     float64
	Quantity  int
	Color     string
	Size      string
	Image     string
}

// Subtotal is price times quantity.
func (i LineItem) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i LineItem) normalized() LineItem {
	i.ID = strings.TrimSpace(i.ID)
	i.Name = strings.TrimSpace(i.Name)
	i.ProductID = strings.TrimSpace(i.ProductID)
	if i.ProductID == "" {
		i.ProductID = ProductIDFromItemID(i.ID)
	}
	return i
}

func (i LineItem) validate(index int, errs *validation.FieldErrors) {
	prefix := fmt.Sprintf("items[%d]", index)
	errs.Required(prefix+".name", i.Name)
	if i.Price < 0 {
		errs.Add(prefix+".price", prefix+".price must be greater than or equal to 0")
	}
	if i.Quantity <= 0 {
		errs.Add(prefix+".quantity", prefix+".quantity must be greater than 0")
	}
}

// ProductIDFromItemID strips the variant suffix ("<product>-<color>-<size>") from a cart item id.
func ProductIDFromItemID(itemID string) string {
	if idx := strings.Index(itemID, "-"); idx >= 0 {
		return itemID[:idx]
	}
	return itemID
}

// Order models the storefront purchase order aggregate.
type Order struct {
	ID                 string
	Contact            Contact
	Items              []LineItem
	Total              float64
	Shipping           float64
	Tax                float64
	TransactionID      string
	Status             Status
	CancellationReason string
}

// NewOrder normalizes and validates checkout input into a pending order.
// Validation failures are returned together as validation.FieldErrors.
func NewOrder(id string, contact Contact, items []LineItem, total, shipping, tax float64, transactionID string) (*Order, error) {
	order := &Order{
		ID:            strings.TrimSpace(id),
		Contact:       contact.normalized(),
		Total:         total,
		Shipping:      shipping,
		Tax:           tax,
		TransactionID: strings.TrimSpace(transactionID),
		Status:        StatusPending,
	}
	if len(items) > 0 {
		order.Items = make([]LineItem, 0, len(items))
		for _, item := range items {
			order.Items = append(order.Items, item.normalized())
		}
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

// Validate enforces invariants on the aggregate.
func (o *Order) Validate() error {
	var errs validation.FieldErrors
	o.Contact.validate(&errs)
	if len(o.Items) == 0 {
		errs.Add("items", ErrEmptyItems.Error())
	}
	for idx, item := range o.Items {
		item.validate(idx, &errs)
	}
	if o.Total < 0 {
		errs.Add("total", "total must be greater than or equal to 0")
	}
	if o.Shipping < 0 {
		errs.Add("shipping", "shipping must be greater than or equal to 0")
	}
	if o.Tax < 0 {
		errs.Add("tax", "tax must be greater than or equal to 0")
	}
	if o.TransactionID == "" {
		errs.Add("transactionId", ErrEmptyTransactionID.Error())
	}
	if !o.Status.Valid() {
		errs.Add("status", ErrInvalidStatus.Error())
	}
	if (o.Status == StatusCancelled) != (strings.TrimSpace(o.CancellationReason) != "") {
		errs.Add("cancellationReason", ErrCancellationReasonSet.Error())
	}
	if len(errs) == 0 && !o.totalMatches() {
		errs.Add("total", ErrTotalMismatch.Error())
	}
	return errs.Err()
}

// Subtotal sums every line item.
func (o *Order) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range o.Items {
		sum = sum.Add(item.Subtotal())
	}
	return sum
}

func (o *Order) totalMatches() bool {
	expected := o.Subtotal().Add(decimal.NewFromFloat(o.Shipping)).Add(decimal.NewFromFloat(o.Tax))
	return expected.Sub(decimal.NewFromFloat(o.Total)).Abs().LessThanOrEqual(totalTolerance)
}

// Apply moves the order to the requested status, setting or clearing the reason.
func (o *Order) Apply(change StatusChange) {
	o.Status = change.Status
	if change.Status == StatusCancelled {
		o.CancellationReason = change.Reason
		return
	}
	o.CancellationReason = ""
}

// ShortID is the four-character prefix shown in activity feeds.
func (o *Order) ShortID() string {
	if len(o.ID) <= 4 {
		return o.ID
	}
	return o.ID[:4]
}

// ProductIDs returns the distinct product ids referenced by the order.
func (o *Order) ProductIDs() []string {
	seen := map[string]struct{}{}
	ids := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		if item.ProductID == "" {
			continue
		}
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// ItemForProduct returns the first line item for productID.
func (o *Order) ItemForProduct(productID string) (LineItem, bool) {
	for _, item := range o.Items {
		if item.ProductID == productID {
			return item, true
		}
	}
	return LineItem{}, false
}

// Clone deep-copies the aggregate.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if len(o.Items) > 0 {
		clone.Items = append([]LineItem{}, o.Items...)
	}
	return &clone
}
