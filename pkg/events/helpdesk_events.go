package events

import "time"

const (
	TypeTicketCreated    = "TICKET_CREATED"
	TypeGuardrailBlocked = "GUARDRAIL_BLOCKED"
	TypeKBDocumentAdded  = "KB_DOCUMENT_ADDED"
)

// NewTicketCreatedEvent fires when the dedup engine inserts a new ticket.
// Support staff consumers use it for websocket pushes and critical email.
func NewTicketCreatedEvent(ticketId, sessionKey, category, tier, severity, userRole string) Event {
	return BaseEvent{
		Type: TypeTicketCreated,
		Data: map[string]interface{}{
			"ticketId":   ticketId,
			"sessionKey": sessionKey,
			"category":   category,
			"tier":       tier,
			"severity":   severity,
			"userRole":   userRole,
		},
		OccurredAt: time.Now(),
	}
}

// NewGuardrailBlockedEvent fires when a turn is refused by the safety filter.
func NewGuardrailBlockedEvent(sessionKey, userRole, reason string) Event {
	return BaseEvent{
		Type: TypeGuardrailBlocked,
		Data: map[string]interface{}{
			"sessionKey": sessionKey,
			"userRole":   userRole,
			"reason":     reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewKBDocumentAddedEvent fires after a knowledge base chunk is stored,
// before it has an embedding.
func NewKBDocumentAddedEvent(documentId string) Event {
	return BaseEvent{
		Type: TypeKBDocumentAdded,
		Data: map[string]interface{}{
			"documentId": documentId,
		},
		OccurredAt: time.Now(),
	}
}
