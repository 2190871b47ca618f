package entity

import (
	"time"

	"helpdesk-ai-be/internal/constant"

	"github.com/google/uuid"
)

// ChatMessage is immutable once written. The classification fields are
// populated only for assistant messages.
type ChatMessage struct {
	Id             uuid.UUID
	ChatSessionId  uuid.UUID
	Role           string
	Content        string
	Tier           *constant.Tier
	Severity       *constant.Severity
	NeedEscalation *bool
	Confidence     *float64
	CreatedAt      time.Time
}
