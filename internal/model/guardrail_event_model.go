package model

import (
	"time"

	"github.com/google/uuid"
)

type GuardrailEvent struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	ChatMessageId uuid.UUID `gorm:"type:uuid;not null;index"`
	Blocked       bool      `gorm:"not null"`
	Reason        *string   `gorm:"type:varchar(255)"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (GuardrailEvent) TableName() string {
	return "guardrail_events"
}
