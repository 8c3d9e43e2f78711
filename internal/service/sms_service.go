package service

import (
	"context"
	"time"

	"medibook-server/config"
	"medibook-server/internal/domain/entity"
	"medibook-server/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SMSService simulates the confirmation text message sent after a booking
// completes. There is no gateway: the service waits the configured delay,
// flips the session's SMS status from sending to sent and logs the would-be
// delivery. Failures along the way only log; the booking has already
// completed by the time this runs.
type SMSService struct {
	formSessions repository.FormSessionRepository
	chatSessions repository.ChatSessionRepository
	delay        time.Duration
	log          *logrus.Logger
}

func NewSMSService(
	formSessions repository.FormSessionRepository,
	chatSessions repository.ChatSessionRepository,
	cfg config.SMSConfig,
	log *logrus.Logger,
) *SMSService {
	return &SMSService{
		formSessions: formSessions,
		chatSessions: chatSessions,
		delay:        cfg.SimulationDelay,
		log:          log,
	}
}

// ConfirmFormBooking completes the sending→sent transition for a form
// session. Run it in a goroutine; the caller has already marked the session
// as sending.
func (s *SMSService) ConfirmFormBooking(sessionID uuid.UUID, phoneNumber string) {
	time.Sleep(s.delay)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := s.formSessions.FindByID(ctx, sessionID)
	if err != nil || session == nil {
		s.log.Warnf("Failed to load form session %s for SMS confirmation: %+v", sessionID, err)
		return
	}

	session.SMSStatus = entity.SMSStatusSent
	if err := s.formSessions.Save(ctx, session); err != nil {
		s.log.Warnf("Failed to mark SMS sent for form session %s: %+v", sessionID, err)
		return
	}

	s.log.Infof("Sending confirmation SMS to %s", phoneNumber)
}

// ConfirmChatBooking is the chat surface counterpart of ConfirmFormBooking.
func (s *SMSService) ConfirmChatBooking(sessionID uuid.UUID, phoneNumber string) {
	time.Sleep(s.delay)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	session, err := s.chatSessions.FindByID(ctx, sessionID)
	if err != nil || session == nil {
		s.log.Warnf("Failed to load chat session %s for SMS confirmation: %+v", sessionID, err)
		return
	}

	session.SMSStatus = entity.SMSStatusSent
	if err := s.chatSessions.Save(ctx, session); err != nil {
		s.log.Warnf("Failed to mark SMS sent for chat session %s: %+v", sessionID, err)
		return
	}

	s.log.Infof("Sending confirmation SMS to %s", phoneNumber)
}
