package entity

import (
	"time"

	"helpdesk-ai-be/internal/constant"

	"github.com/google/uuid"
)

// ChatSession is created on the first turn that carries a new session key
// and is never mutated afterwards.
type ChatSession struct {
	Id         uuid.UUID
	SessionKey string
	UserId     uuid.UUID
	UserRole   constant.Role
	Context    map[string]interface{}
	CreatedAt  time.Time
}
