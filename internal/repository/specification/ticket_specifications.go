package specification

import (
	"helpdesk-ai-be/internal/constant"

	"gorm.io/gorm"
)

type ByTicketStatus struct {
	Status constant.TicketStatus
}

func (s ByTicketStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", string(s.Status))
}

type BySeverities struct {
	Severities []constant.Severity
}

func (s BySeverities) Apply(db *gorm.DB) *gorm.DB {
	values := make([]string, len(s.Severities))
	for i, sev := range s.Severities {
		values[i] = string(sev)
	}
	return db.Where("severity IN ?", values)
}

// TicketSessionOwnedBy joins tickets to their session so listings can be
// restricted to the requester's own sessions.
type TicketSessionOwnedBy struct {
	UserID interface{}
}

func (s TicketSessionOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Joins("JOIN chat_sessions ON chat_sessions.id = tickets.chat_session_id").
		Where("chat_sessions.user_id = ?", s.UserID)
}
