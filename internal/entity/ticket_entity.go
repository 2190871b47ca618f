package entity

import (
	"time"

	"helpdesk-ai-be/internal/constant"

	"github.com/google/uuid"
)

// TicketKBReference is one knowledge base document captured in the ticket's
// AI results at creation time.
type TicketKBReference struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

// TicketAIResults is the structured metadata bag persisted with a ticket.
type TicketAIResults struct {
	Confidence   float64             `json:"confidence"`
	Category     string              `json:"category"`
	KBReferences []TicketKBReference `json:"kbReferences"`
}

// Ticket is created only by the deduplication engine. The pipeline never
// mutates a ticket after creation; status/tier/severity edits happen through
// the ticket management surface.
type Ticket struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	Tier          constant.Tier
	Severity      constant.Severity
	Status        constant.TicketStatus
	Category      string
	UserRole      constant.Role
	AIResults     TicketAIResults
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
