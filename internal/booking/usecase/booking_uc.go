package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/booking/domain"
	"github.com/mohamed-bella/dresseur-ma/internal/mailer"
)

// ErrForbidden is returned when an account reads or mutates a request that
// is not addressed to it.
var ErrForbidden = errors.New("account is not allowed to access this request")

// RequestInput is the visitor-facing booking form.
type RequestInput struct {
	Name    string
	Email   string
	Phone   string
	Message string
}

// ContactInput is the site-wide contact/consultation form.
type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

type BookingUsecase struct {
	requests      domain.RequestRepository
	contacts      domain.ContactRepository
	sellers       accountdomain.SellerRepository
	sender        mailer.Sender
	operatorEmail string
	logger        *zap.Logger
}

func NewBookingUsecase(
	requests domain.RequestRepository,
	contacts domain.ContactRepository,
	sellers accountdomain.SellerRepository,
	sender mailer.Sender,
	operatorEmail string,
	logger *zap.Logger,
) *BookingUsecase {
	return &BookingUsecase{
		requests:      requests,
		contacts:      contacts,
		sellers:       sellers,
		sender:        sender,
		operatorEmail: operatorEmail,
		logger:        logger.Named("BookingUsecase"),
	}
}

// CreateRequest stores a booking inquiry and notifies the provider by mail.
// Notification failures are logged, not returned: the request is already
// persisted and the provider will still see it on their dashboard.
func (uc *BookingUsecase) CreateRequest(ctx context.Context, providerID string, input RequestInput) (*domain.Request, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Phone) == "" ||
		strings.TrimSpace(input.Message) == "" {
		return nil, domain.ErrInvalidRequest
	}

	provider, err := uc.sellers.FindByID(ctx, providerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	request := &domain.Request{
		ProviderID: provider.ID,
		Name:       strings.TrimSpace(input.Name),
		Email:      strings.TrimSpace(input.Email),
		Phone:      strings.TrimSpace(input.Phone),
		Message:    strings.TrimSpace(input.Message),
		Read:       false,
		Status:     domain.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("BookingUsecase.CreateRequest: %w", err)
	}

	if uc.sender != nil && provider.Email != "" {
		body := fmt.Sprintf("Nouvelle demande de réservation de %s (%s).\n\n%s",
			request.Name, request.Phone, request.Message)
		if err := uc.sender.Send(provider.Email, "Nouvelle demande de réservation", body); err != nil {
			uc.logger.Warn("failed to notify provider of new request",
				zap.String("request_id", request.ID),
				zap.String("provider_id", provider.ID),
				zap.Error(err))
		}
	}

	uc.logger.Info("booking request created",
		zap.String("request_id", request.ID),
		zap.String("provider_id", provider.ID))
	return request, nil
}

// ListForProvider returns the provider's inbox, newest first.
func (uc *BookingUsecase) ListForProvider(ctx context.Context, providerID string) ([]*domain.Request, error) {
	return uc.requests.FindByProviderID(ctx, providerID)
}

func (uc *BookingUsecase) CountUnread(ctx context.Context, providerID string) (int64, error) {
	return uc.requests.CountUnread(ctx, providerID)
}

// MarkRead flips the read flag. Only the addressed provider may do so.
func (uc *BookingUsecase) MarkRead(ctx context.Context, requestID, actorID string) error {
	request, err := uc.requests.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ProviderID != actorID {
		return ErrForbidden
	}
	return uc.requests.MarkRead(ctx, requestID)
}

// Decide moves a pending request to accepted or rejected and texts the
// requester the outcome through the SMS-over-email gateway. Decided
// requests are immutable; a second decision is ErrInvalidTransition.
func (uc *BookingUsecase) Decide(ctx context.Context, requestID, actorID string, status domain.RequestStatus) (*domain.Request, error) {
	if status != domain.StatusAccepted && status != domain.StatusRejected {
		return nil, domain.ErrInvalidTransition
	}

	request, err := uc.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.ProviderID != actorID {
		return nil, ErrForbidden
	}
	if request.Status != domain.StatusPending {
		return nil, domain.ErrInvalidTransition
	}

	if err := uc.requests.UpdateStatus(ctx, requestID, status); err != nil {
		return nil, fmt.Errorf("BookingUsecase.Decide: %w", err)
	}
	request.Status = status
	request.UpdatedAt = time.Now()

	if uc.sender != nil && request.Phone != "" {
		message := "Votre demande de réservation a été acceptée."
		if status == domain.StatusRejected {
			message = "Votre demande de réservation a été refusée."
		}
		if err := uc.sender.SendSMS(request.Phone, message); err != nil {
			uc.logger.Warn("failed to send decision SMS",
				zap.String("request_id", requestID),
				zap.Error(err))
		}
	}

	uc.logger.Info("booking request decided",
		zap.String("request_id", requestID),
		zap.String("status", string(status)))
	return request, nil
}

// SubmitContact stores a contact-form message and relays it to the site
// operators by mail.
func (uc *BookingUsecase) SubmitContact(ctx context.Context, input ContactInput) (*domain.ContactMessage, error) {
	if strings.TrimSpace(input.Name) == "" ||
		strings.TrimSpace(input.Email) == "" ||
		strings.TrimSpace(input.Message) == "" {
		return nil, domain.ErrInvalidContact
	}

	message := &domain.ContactMessage{
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		CreatedAt: time.Now(),
	}
	if err := uc.contacts.Create(ctx, message); err != nil {
		return nil, fmt.Errorf("BookingUsecase.SubmitContact: %w", err)
	}

	if uc.sender != nil && uc.operatorEmail != "" {
		body := fmt.Sprintf("De: %s <%s>\n\n%s", message.Name, message.Email, message.Message)
		subject := "Contact: " + message.Subject
		if message.Subject == "" {
			subject = "Nouveau message de contact"
		}
		if err := uc.sender.Send(uc.operatorEmail, subject, body); err != nil {
			uc.logger.Warn("failed to relay contact message",
				zap.String("contact_id", message.ID),
				zap.Error(err))
		}
	}

	uc.logger.Info("contact message stored", zap.String("contact_id", message.ID))
	return message, nil
}

// ListContacts pages through stored contact messages for the back office.
func (uc *BookingUsecase) ListContacts(ctx context.Context, page, limit int64) ([]*domain.ContactMessage, int64, error) {
	return uc.contacts.List(ctx, page, limit)
}
