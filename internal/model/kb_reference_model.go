package model

import (
	"time"

	"github.com/google/uuid"
)

type KBReference struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ChatSessionId uuid.UUID `gorm:"type:uuid;not null;index"`
	KBDocumentId  string    `gorm:"type:varchar(255);not null"`
	Title         string    `gorm:"type:varchar(255);not null"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

func (KBReference) TableName() string {
	return "kb_references"
}
