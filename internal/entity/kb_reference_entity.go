package entity

import (
	"time"

	"github.com/google/uuid"
)

// KBReference records a knowledge base document surfaced during a retrieval
// call. Purely informational, never mutated.
type KBReference struct {
	Id            uuid.UUID
	ChatSessionId uuid.UUID
	KBDocumentId  string
	Title         string
	CreatedAt     time.Time
}
