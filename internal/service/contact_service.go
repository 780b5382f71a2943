package service

import (
	"context"
	"strings"
	"time"

	"intituas-ai-be/internal/constant"
	"intituas-ai-be/internal/dto"
	"intituas-ai-be/internal/entity"
	"intituas-ai-be/internal/pkg/logger"
	"intituas-ai-be/internal/pkg/mailer"
	"intituas-ai-be/internal/repository/unitofwork"
	"intituas-ai-be/pkg/events"
	"intituas-ai-be/pkg/metrics"

	"github.com/google/uuid"
)

type IContactService interface {
	Submit(ctx context.Context, req *dto.ContactRequest) dto.ContactResponse
}

type contactService struct {
	uowFactory   unitofwork.RepositoryFactory
	emailService mailer.IEmailService
	publisher    events.Publisher
	inbox        string
	metrics      *metrics.Metrics
	logger       logger.ILogger
	now          func() time.Time
}

func NewContactService(
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	publisher events.Publisher,
	inbox string,
	m *metrics.Metrics,
	log logger.ILogger,
) IContactService {
	return &contactService{
		uowFactory:   uowFactory,
		emailService: emailService,
		publisher:    publisher,
		inbox:        inbox,
		metrics:      m,
		logger:       log,
		now:          time.Now,
	}
}

// Submit stores the message; only the store decides success. Mail and the
// event are attempted afterwards and their failures are logged.
func (s *contactService) Submit(ctx context.Context, req *dto.ContactRequest) dto.ContactResponse {
	contact := &entity.Contact{
		Id:        uuid.New(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(req.Email),
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.ContactRepository().Create(ctx, contact)
	if s.metrics != nil {
		s.metrics.ContactsTotal.WithLabelValues(metrics.Outcome(err)).Inc()
	}
	if err != nil {
		s.logger.Error("CONTACT", "Failed to store contact message", map[string]interface{}{
			"email": contact.Email,
			"error": err.Error(),
		})
		return dto.ContactResponse{Success: false, Message: constant.ContactFailureMessage}
	}

	if s.inbox != "" && s.emailService != nil {
		if err := s.emailService.SendContactNotification(s.inbox, contact); err != nil {
			s.logger.Warn("CONTACT", "Failed to send contact notification", map[string]interface{}{
				"contact_id": contact.Id,
				"error":      err.Error(),
			})
		}
	}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, events.ContactSubmitted(contact.Id.String(), contact.Email)); err != nil {
			s.logger.Warn("CONTACT", "Failed to publish CONTACT_SUBMITTED event", map[string]interface{}{"error": err.Error()})
		}
	}

	s.logger.Info("CONTACT", "Contact message stored", map[string]interface{}{"contact_id": contact.Id})
	return dto.ContactResponse{Success: true, Message: constant.ContactSuccessMessage}
}
