package unitofwork

import (
	"context"

	"helpdesk-ai-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ChatSessionRepository() contract.ChatSessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	GuardrailEventRepository() contract.GuardrailEventRepository
	KBReferenceRepository() contract.KBReferenceRepository
	KBDocumentRepository() contract.KBDocumentRepository
	TicketRepository() contract.TicketRepository
}
