package entity

import (
	"time"

	"github.com/google/uuid"
)

// GuardrailEvent is the audit record for one guardrail evaluation. Exactly
// one blocked/unblocked event is written per user message and one
// non-blocking event per resulting assistant message.
type GuardrailEvent struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	ChatMessageId uuid.UUID
	Blocked       bool
	Reason        *string
	CreatedAt     time.Time
}
