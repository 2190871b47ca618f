package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Ticket rows carry a partial unique index on (chat_session_id, category,
// severity) WHERE status = 'OPEN', the dedup fingerprint. GORM cannot
// express the WHERE clause in a tag, so cmd/migrate creates it with raw SQL.
type Ticket struct {
	Id            uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Tier          string         `gorm:"type:varchar(20);not null"`
	Severity      string         `gorm:"type:varchar(20);not null"`
	Status        string         `gorm:"type:varchar(20);not null;default:'OPEN'"`
	Category      string         `gorm:"type:varchar(50);not null;default:'GENERAL'"`
	UserRole      string         `gorm:"type:varchar(50);not null"`
	AIResults     datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
	CreatedAt     time.Time      `gorm:"autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime"`
}

func (Ticket) TableName() string {
	return "tickets"
}
