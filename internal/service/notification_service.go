package service

import (
	"context"
	"fmt"
	"strings"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/pkg/logger"
	"helpdesk-ai-be/internal/pkg/mailer"
	internalWS "helpdesk-ai-be/internal/websocket"
	"helpdesk-ai-be/pkg/events"
	pktNats "helpdesk-ai-be/pkg/nats" // Renamed to avoid collision
)

// NotificationDelivery defines how to push real-time updates.
// Typically implemented by the WebSocket Hub.
type NotificationDelivery interface {
	Broadcast(notice internalWS.Notice)
}

// NotificationService consumes pipeline events off the bus and pushes them
// to connected support staff. CRITICAL tickets additionally go to the
// on-call inbox.
type NotificationService struct {
	subscriber   *pktNats.Subscriber
	delivery     NotificationDelivery
	emailService mailer.IEmailService
	onCallEmail  string
	logger       logger.ILogger
}

func NewNotificationService(
	sub *pktNats.Subscriber,
	delivery NotificationDelivery,
	emailService mailer.IEmailService,
	onCallEmail string,
	log logger.ILogger,
) *NotificationService {
	return &NotificationService{
		subscriber:   sub,
		delivery:     delivery,
		emailService: emailService,
		onCallEmail:  onCallEmail,
		logger:       log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// Tolerate both bare type codes and subject-style prefixed ones.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	switch typeCode {
	case events.TypeTicketCreated:
		return s.handleTicketCreated(event)
	case events.TypeGuardrailBlocked:
		s.push(events.TypeGuardrailBlocked, event.Payload())
		return nil
	default:
		return nil
	}
}

func (s *NotificationService) handleTicketCreated(event events.Event) error {
	payload := event.Payload()
	s.push(events.TypeTicketCreated, payload)

	severity, _ := payload["severity"].(string)
	if severity != string(constant.SeverityCritical) {
		return nil
	}

	if s.emailService == nil || s.onCallEmail == "" {
		return nil
	}

	ticketId, _ := payload["ticketId"].(string)
	category, _ := payload["category"].(string)
	sessionKey, _ := payload["sessionKey"].(string)

	if err := s.emailService.SendCriticalTicketAlert(s.onCallEmail, ticketId, category, severity, sessionKey); err != nil {
		// Email is best effort; the ticket itself is already durable.
		s.logger.Warn("NotificationService", fmt.Sprintf("Failed to email critical ticket alert for %s", ticketId), map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (s *NotificationService) push(noticeType string, data map[string]interface{}) {
	if s.delivery == nil {
		return
	}
	s.delivery.Broadcast(internalWS.Notice{
		Type: noticeType,
		Data: data,
	})
}
