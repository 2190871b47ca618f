package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ChatSession struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionKey string         `gorm:"type:varchar(100);uniqueIndex;not null"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserRole   string         `gorm:"type:varchar(50);not null"`
	Context    datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (ChatSession) TableName() string {
	return "chat_sessions"
}
