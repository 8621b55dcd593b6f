package mapper

import (
	"github.com/Apurer/go-gin-storefront/internal/domains/notifications/domain"
)

// ContactRequest is the storefront contact form.
type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Subject string `json:"subject" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// ContactAccepted confirms the message was handed to the mail transport.
type ContactAccepted struct {
	Message string `json:"message"`
}

func ToContactMessage(req ContactRequest) domain.ContactMessage {
	return domain.ContactMessage{
		Name:    req.Name,
		Email:   req.Email,
		Topic:   req.Subject,
		Message: req.Message,
	}
}
