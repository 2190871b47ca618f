package entity

import (
	"time"

	"helpdesk-ai-be/internal/constant"

	"github.com/google/uuid"
)

type User struct {
	Id           uuid.UUID
	Username     string
	PasswordHash string
	Role         constant.Role
	CreatedAt    time.Time
}
