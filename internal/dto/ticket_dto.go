package dto

import (
	"time"

	"github.com/google/uuid"
)

type TicketAIResultsDTO struct {
	Confidence   float64          `json:"confidence"`
	Category     string           `json:"category"`
	KBReferences []KBReferenceDTO `json:"kbReferences"`
}

type TicketResponse struct {
	Id            uuid.UUID          `json:"id"`
	ChatSessionId uuid.UUID          `json:"chat_session_id"`
	Tier          string             `json:"tier"`
	Severity      string             `json:"severity"`
	Status        string             `json:"status"`
	Category      string             `json:"category"`
	UserRole      string             `json:"user_role"`
	AIResults     TicketAIResultsDTO `json:"ai_results"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

type ListTicketsRequest struct {
	Status   string `query:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Severity string `query:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	Page     int    `query:"page" validate:"omitempty,min=1"`
	PerPage  int    `query:"per_page" validate:"omitempty,min=1,max=100"`
}

type ListTicketsResponse struct {
	Tickets []TicketResponse `json:"tickets"`
	Total   int64            `json:"total"`
}

type UpdateTicketRequest struct {
	Status   string `json:"status" validate:"omitempty,oneof=OPEN IN_PROGRESS RESOLVED CLOSED"`
	Tier     string `json:"tier" validate:"omitempty,oneof=TIER_0 TIER_1 TIER_2 TIER_3"`
	Severity string `json:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
}
