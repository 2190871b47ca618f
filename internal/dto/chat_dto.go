package dto

import (
	"time"

	"github.com/google/uuid"
)

// SendChatRequest carries one user turn. The session key is not part of the
// body; it is minted at login and travels in the token claims.
type SendChatRequest struct {
	Message string                 `json:"message" validate:"required,min=1,max=4000"`
	Context map[string]interface{} `json:"context,omitempty"`
}

type KBReferenceDTO struct {
	Id    string `json:"id"`
	Title string `json:"title"`
}

type GuardrailDTO struct {
	Blocked bool    `json:"blocked"`
	Reason  *string `json:"reason,omitempty"`
}

type SendChatResponse struct {
	SessionKey     string           `json:"session_key"`
	Answer         string           `json:"answer"`
	KBReferences   []KBReferenceDTO `json:"kb_references"`
	Confidence     float64          `json:"confidence"`
	Tier           string           `json:"tier"`
	Severity       string           `json:"severity"`
	NeedEscalation bool             `json:"needEscalation"`
	Guardrail      GuardrailDTO     `json:"guardrail"`
	TicketId       *uuid.UUID       `json:"ticket_id,omitempty"`
}

type GetChatHistoryResponse struct {
	Id             uuid.UUID `json:"id"`
	Role           string    `json:"role"`
	Content        string    `json:"content"`
	Tier           *string   `json:"tier,omitempty"`
	Severity       *string   `json:"severity,omitempty"`
	NeedEscalation *bool     `json:"needEscalation,omitempty"`
	Confidence     *float64  `json:"confidence,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type GetSessionResponse struct {
	Id         uuid.UUID              `json:"id"`
	SessionKey string                 `json:"session_key"`
	UserRole   string                 `json:"user_role"`
	Context    map[string]interface{} `json:"context,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}
