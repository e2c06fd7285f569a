// Package email composes contact emails and delivers them through pluggable
// transports (SMTP relay, Mailgun HTTP API) arranged as an ordered fallback pipeline.
package email

import (
	"context"
	"errors"
	"strings"
)

// ErrNotConfigured is returned by a transport that is missing credentials.
var ErrNotConfigured = errors.New("email transport is not configured")

// Message is a fully composed outbound email.
type Message struct {
	FromName  string
	From      string
	To        string
	ReplyTo   string
	Subject   string
	HTML      string
	Text      string
	MessageID string
}

// Transport delivers a Message through one mechanism.
type Transport interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}

// ContactEmailData holds the data for contact form emails
type ContactEmailData struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Message     string
}

// headerSafe removes line breaks so user input cannot inject extra headers.
func headerSafe(s string) string {
	return strings.Join(strings.Fields(strings.NewReplacer("\r", " ", "\n", " ").Replace(s)), " ")
}
