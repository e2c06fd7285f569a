package usecase

import (
	"context"
	"net/http"

	"portfolio-backend/internal/domain"
	"portfolio-backend/pkg/apperror"
	"portfolio-backend/pkg/audit"
	"portfolio-backend/pkg/email"
	"portfolio-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// Deliverer runs the ordered delivery stages for one message.
type Deliverer interface {
	Deliver(ctx context.Context, msg email.Message) email.Outcome
}

type contactUsecase struct {
	pipeline Deliverer
	mailbox  email.Mailbox
	validate *validator.Validate
	audit    *audit.Logger
}

// NewContactUsecase creates a new contact usecase
func NewContactUsecase(pipeline Deliverer, mailbox email.Mailbox, validate *validator.Validate, auditLog *audit.Logger) domain.ContactUsecase {
	return &contactUsecase{
		pipeline: pipeline,
		mailbox:  mailbox,
		validate: validate,
		audit:    auditLog,
	}
}

// SendContactMessage validates the contact request and sends the email,
// falling back to the next transport when one fails.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, req *domain.ContactMessage) (*domain.DeliveryResult, error) {
	requestID, _ := ctx.Value(domain.KeyRequestID).(string)

	if req == nil {
		return nil, apperror.BadRequest(domain.MsgMissingFields)
	}
	msg := req.Trimmed()

	if err := uc.validate.Struct(msg); err != nil {
		uc.audit.LogValidationFailed(ctx, requestID, validation.MissingFields(err))
		return nil, apperror.BadRequest(domain.MsgMissingFields)
	}

	outbound, err := email.ComposeContact(email.ContactEmailData{
		SenderName:  msg.Name,
		SenderEmail: msg.Email,
		Subject:     msg.Subject,
		Message:     msg.Message,
	}, uc.mailbox)
	if err != nil {
		return nil, apperror.New(http.StatusInternalServerError, domain.MsgDeliveryFailed, err)
	}

	outcome := uc.pipeline.Deliver(ctx, outbound)
	for _, r := range outcome.Results {
		if !r.OK() {
			uc.audit.LogStageFailed(ctx, msg.Email, requestID, r.Stage, r.Err)
		}
	}

	if !outcome.Delivered() {
		stages := make([]string, 0, len(outcome.Results))
		for _, r := range outcome.Results {
			stages = append(stages, r.Stage)
		}
		uc.audit.LogDeliveryFailed(ctx, msg.Email, requestID, stages)
		return nil, apperror.New(http.StatusInternalServerError, domain.MsgDeliveryFailed, outcome.Err())
	}

	uc.audit.LogDelivered(ctx, msg.Email, requestID, outcome.DeliveredBy())
	return &domain.DeliveryResult{Success: true, Message: domain.MsgSent}, nil
}
