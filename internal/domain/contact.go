package domain

import (
	"context"
	"strings"
)

// ContactMessage represents a contact form submission. It only lives for the
// duration of one request.
type ContactMessage struct {
	Name    string `json:"name" validate:"required,not_blank"`
	Email   string `json:"email" validate:"required,not_blank"` // format is checked by the browser only
	Subject string `json:"subject" validate:"required,not_blank"`
	Message string `json:"message" validate:"required,not_blank"`
}

// Trimmed returns a copy with surrounding whitespace removed from every field
func (m ContactMessage) Trimmed() ContactMessage {
	return ContactMessage{
		Name:    strings.TrimSpace(m.Name),
		Email:   strings.TrimSpace(m.Email),
		Subject: strings.TrimSpace(m.Subject),
		Message: strings.TrimSpace(m.Message),
	}
}

// DeliveryResult is what the caller sees. It never carries transport errors.
type DeliveryResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

const (
	MsgSent           = "Message sent successfully! I will get back to you soon."
	MsgMissingFields  = "Please fill in all required fields"
	MsgDeliveryFailed = "Failed to send message. Please try again later."
)

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates msg and delivers it, primary transport first
	SendContactMessage(ctx context.Context, msg *ContactMessage) (*DeliveryResult, error)
}
