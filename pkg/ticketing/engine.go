package ticketing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/memory"

	"github.com/google/uuid"
)

// CategoryGeneral is assigned when no category rule matches.
const CategoryGeneral = "GENERAL"

type categoryRule struct {
	category string
	keywords []string
}

// Rules are checked in order; the first matching keyword wins.
var categoryRules = []categoryRule{
	{"AUTH", []string{"login", "authentication", "mfa", "redirect"}},
	{"VM", []string{"vm", "kernel", "crash", "freeze"}},
	{"DNS", []string{"dns", "resolve", "domain"}},
	{"CONTAINER", []string{"container", "startup.sh"}},
	{"SECURITY", []string{"disable logging", "bypass", "host access"}},
}

// Categorize maps a user message onto a ticket category.
func Categorize(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lowered, kw) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// EscalationInput is the classification outcome of a turn, as far as the
// deduplication engine cares about it.
type EscalationInput struct {
	Tier           constant.Tier
	Severity       constant.Severity
	Confidence     float64
	NeedEscalation bool
	KBReferences   []entity.TicketKBReference
}

// Engine creates tickets for escalated turns while guaranteeing at most one
// OPEN ticket per (session, category, severity). Concurrent turns on the same
// session are serialized with a per-session lock; a partial unique index on
// the tickets table backstops races across processes.
type Engine struct {
	locks *memory.SessionLockRegistry
}

func NewEngine(locks *memory.SessionLockRegistry) *Engine {
	return &Engine{locks: locks}
}

// CreateIfNeeded creates a ticket for the turn unless an OPEN ticket with the
// same fingerprint already exists, in which case that ticket is returned. The
// bool reports whether a new ticket was created.
func (e *Engine) CreateIfNeeded(
	ctx context.Context,
	repo contract.TicketRepository,
	session *entity.ChatSession,
	message string,
	in EscalationInput,
) (*entity.Ticket, bool, error) {
	if !in.NeedEscalation {
		return nil, false, nil
	}

	category := Categorize(message)

	unlock := e.locks.Lock(session.SessionKey)
	defer unlock()

	fp := contract.TicketFingerprint{
		ChatSessionId: session.Id,
		Category:      category,
		Severity:      in.Severity,
	}

	existing, err := repo.FindOpenByFingerprint(ctx, fp)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check for open ticket: %w", err)
	}
	if existing != nil {
		return existing, false, nil
	}

	ticket := &entity.Ticket{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Tier:          in.Tier,
		Severity:      in.Severity,
		Status:        constant.TicketStatusOpen,
		Category:      category,
		UserRole:      session.UserRole,
		AIResults: entity.TicketAIResults{
			Confidence:   in.Confidence,
			Category:     category,
			KBReferences: in.KBReferences,
		},
	}

	if err := repo.Create(ctx, ticket); err != nil {
		if errors.Is(err, contract.ErrDuplicateTicket) {
			// Lost the race to another process; adopt the winner.
			winner, ferr := repo.FindOpenByFingerprint(ctx, fp)
			if ferr != nil {
				return nil, false, fmt.Errorf("failed to fetch duplicate ticket: %w", ferr)
			}
			if winner != nil {
				return winner, false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create ticket: %w", err)
	}

	return ticket, true, nil
}
