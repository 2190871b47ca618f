package contract

import (
	"context"
	"errors"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ErrDuplicateTicket is returned by Create when an OPEN ticket with the same
// fingerprint already exists. Callers resolve it by re-fetching.
var ErrDuplicateTicket = errors.New("open ticket with same fingerprint already exists")

// TicketFingerprint is the deduplication key: at most one OPEN ticket may
// exist per (session, category, severity).
type TicketFingerprint struct {
	ChatSessionId uuid.UUID
	Category      string
	Severity      constant.Severity
}

type TicketRepository interface {
	// Create inserts a ticket. A unique-constraint violation on the OPEN
	// fingerprint surfaces as ErrDuplicateTicket so callers can re-fetch.
	Create(ctx context.Context, ticket *entity.Ticket) error
	Update(ctx context.Context, ticket *entity.Ticket) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOpenByFingerprint(ctx context.Context, fp TicketFingerprint) (*entity.Ticket, error)
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	CountGroupedBySeverity(ctx context.Context) (map[string]int64, error)
	CountGroupedByTier(ctx context.Context) (map[string]int64, error)
	CountDistinctSessions(ctx context.Context) (int64, error)
}
