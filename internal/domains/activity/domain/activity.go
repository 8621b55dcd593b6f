package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/shared/validation"
)

// Type categorizes an activity entry.
type Type string

const (
	TypeOrderCreated   Type = "order_created"
	TypeOrderUpdated   Type = "order_updated"
	TypeProductCreated Type = "product_created"
	TypeProductUpdated Type = "product_updated"
	TypeUserRegistered Type = "user_registered"
	TypeAdminAction    Type = "admin_action"
)

var ErrInvalidType = errors.New("invalid activity type")

var typeLabels = map[Type]string{
	TypeOrderCreated:   "New Order",
	TypeOrderUpdated:   "Order Updated",
	TypeProductCreated: "Product Created",
	TypeProductUpdated: "Product Updated",
	TypeUserRegistered: "User Registered",
	TypeAdminAction:    "Admin Action",
}

// ParseType validates raw against the enumeration.
func ParseType(raw string) (Type, error) {
	t := Type(strings.TrimSpace(raw))
	if _, ok := typeLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidType, raw)
	}
	return t, nil
}

// Valid reports whether t is a known type.
func (t Type) Valid() bool {
	_, ok := typeLabels[t]
	return ok
}

// Label is the human readable name used on the dashboard.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// Actor identifies who caused an activity, when known.
type Actor struct {
	UserID    string
	Name      string
	IPAddress string
	UserAgent string
}

// Record is one append-only audit entry.
type Record struct {
	ID          string
	Type        Type
	Description string
	Metadata    map[string]any
	Actor       Actor
	CreatedAt   time.Time
}

// NewRecord validates and builds a record.
func NewRecord(id string, t Type, description string, metadata map[string]any, actor Actor, createdAt time.Time) (*Record, error) {
	var errs validation.FieldErrors
	if !t.Valid() {
		errs.Add("type", ErrInvalidType.Error())
	}
	errs.Required("id", id)
	if err := errs.Err(); err != nil {
		return nil, err
	}
	if metadata == nil {
		metadata = map[string]any{}
	}
	return &Record{
		ID:          strings.TrimSpace(id),
		Type:        t,
		Description: strings.TrimSpace(description),
		Metadata:    metadata,
		Actor:       actor,
		CreatedAt:   createdAt,
	}, nil
}

// Details falls back to "Activity #<id prefix>" when no description was recorded.
func (r *Record) Details() string {
	if r.Description != "" {
		return r.Description
	}
	prefix := r.ID
	if len(prefix) > 4 {
		prefix = prefix[:4]
	}
	return "Activity #" + prefix
}

// ActorName falls back to "Admin" for system-initiated entries.
func (r *Record) ActorName() string {
	if name := strings.TrimSpace(r.Actor.Name); name != "" {
		return name
	}
	return "Admin"
}

// Clone copies the record including its metadata map.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}
	clone := *r
	clone.Metadata = make(map[string]any, len(r.Metadata))
	for k, v := range r.Metadata {
		clone.Metadata[k] = v
	}
	return &clone
}
