package ticketing

import (
	"context"
	"testing"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/memory"
	"helpdesk-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

// fakeTicketRepo keeps tickets in a map keyed by fingerprint and can be
// primed to fail one Create with ErrDuplicateTicket.
type fakeTicketRepo struct {
	open          map[contract.TicketFingerprint]*entity.Ticket
	createCalls   int
	failNext      error
	suppressFinds int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{open: map[contract.TicketFingerprint]*entity.Ticket{}}
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	f.createCalls++
	if f.failNext != nil {
		err := f.failNext
		f.failNext = nil
		return err
	}
	fp := contract.TicketFingerprint{
		ChatSessionId: ticket.ChatSessionId,
		Category:      ticket.Category,
		Severity:      ticket.Severity,
	}
	if _, exists := f.open[fp]; exists {
		return contract.ErrDuplicateTicket
	}
	f.open[fp] = ticket
	return nil
}

func (f *fakeTicketRepo) FindOpenByFingerprint(ctx context.Context, fp contract.TicketFingerprint) (*entity.Ticket, error) {
	if f.suppressFinds > 0 {
		f.suppressFinds--
		return nil, nil
	}
	return f.open[fp], nil
}

func (f *fakeTicketRepo) Update(ctx context.Context, ticket *entity.Ticket) error { return nil }
func (f *fakeTicketRepo) Delete(ctx context.Context, id uuid.UUID) error          { return nil }
func (f *fakeTicketRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error) {
	return nil, nil
}
func (f *fakeTicketRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error) {
	return nil, nil
}
func (f *fakeTicketRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (f *fakeTicketRepo) CountGroupedBySeverity(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (f *fakeTicketRepo) CountGroupedByTier(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (f *fakeTicketRepo) CountDistinctSessions(ctx context.Context) (int64, error) { return 0, nil }

func testSession() *entity.ChatSession {
	return &entity.ChatSession{
		Id:         uuid.New(),
		SessionKey: uuid.New().String(),
		UserId:     uuid.New(),
		UserRole:   constant.RoleTrainee,
	}
}

func escalation(severity constant.Severity) EscalationInput {
	return EscalationInput{
		Tier:           constant.Tier2,
		Severity:       severity,
		Confidence:     0.9,
		NeedEscalation: true,
	}
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		message string
		want    string
	}{
		{"my login redirects in a loop", "AUTH"},
		{"the VM had a kernel panic", "VM"},
		{"domain won't resolve inside the lab", "DNS"},
		{"container exits right after startup.sh", "CONTAINER"},
		{"how do I bypass the proxy", "SECURITY"},
		{"something else entirely", CategoryGeneral},
		{"login issue on my vm", "AUTH"}, // first rule wins
	}

	for _, tt := range tests {
		if got := Categorize(tt.message); got != tt.want {
			t.Errorf("Categorize(%q) = %s, want %s", tt.message, got, tt.want)
		}
	}
}

func TestCreateIfNeeded_NoEscalation(t *testing.T) {
	repo := newFakeTicketRepo()
	engine := NewEngine(memory.NewSessionLockRegistry())

	in := escalation(constant.SeverityMedium)
	in.NeedEscalation = false

	ticket, created, err := engine.CreateIfNeeded(context.Background(), repo, testSession(), "vm crash", in)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ticket != nil || created {
		t.Errorf("expected no ticket, got %v (created=%v)", ticket, created)
	}
	if repo.createCalls != 0 {
		t.Errorf("Create should not be called, got %d calls", repo.createCalls)
	}
}

func TestCreateIfNeeded_CreatesTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	engine := NewEngine(memory.NewSessionLockRegistry())
	session := testSession()

	ticket, created, err := engine.CreateIfNeeded(context.Background(), repo, session, "the vm keeps crashing", escalation(constant.SeverityHigh))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created || ticket == nil {
		t.Fatalf("expected a new ticket, got created=%v", created)
	}
	if ticket.Category != "VM" {
		t.Errorf("Category = %s, want VM", ticket.Category)
	}
	if ticket.Status != constant.TicketStatusOpen {
		t.Errorf("Status = %s, want OPEN", ticket.Status)
	}
	if ticket.UserRole != session.UserRole {
		t.Errorf("UserRole = %s, want %s", ticket.UserRole, session.UserRole)
	}
	if ticket.AIResults.Category != "VM" {
		t.Errorf("AIResults.Category = %s, want VM", ticket.AIResults.Category)
	}
}

func TestCreateIfNeeded_ReturnsExistingOpenTicket(t *testing.T) {
	repo := newFakeTicketRepo()
	engine := NewEngine(memory.NewSessionLockRegistry())
	session := testSession()

	first, created, err := engine.CreateIfNeeded(context.Background(), repo, session, "vm crash", escalation(constant.SeverityHigh))
	if err != nil || !created {
		t.Fatalf("setup create failed: %v (created=%v)", err, created)
	}

	second, created, err := engine.CreateIfNeeded(context.Background(), repo, session, "the vm crashed again", escalation(constant.SeverityHigh))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected dedup, got a second ticket")
	}
	if second == nil || second.Id != first.Id {
		t.Errorf("expected existing ticket %s back, got %v", first.Id, second)
	}
}

func TestCreateIfNeeded_DistinctFingerprintsCreateSeparateTickets(t *testing.T) {
	repo := newFakeTicketRepo()
	engine := NewEngine(memory.NewSessionLockRegistry())
	session := testSession()

	_, created, err := engine.CreateIfNeeded(context.Background(), repo, session, "vm crash", escalation(constant.SeverityHigh))
	if err != nil || !created {
		t.Fatalf("first create failed: %v", err)
	}

	// Same session, different severity: different fingerprint.
	_, created, err = engine.CreateIfNeeded(context.Background(), repo, session, "vm is slow", escalation(constant.SeverityMedium))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("different severity should create a separate ticket")
	}
}

func TestCreateIfNeeded_AdoptsWinnerOnDuplicateKey(t *testing.T) {
	repo := newFakeTicketRepo()
	engine := NewEngine(memory.NewSessionLockRegistry())
	session := testSession()

	// Simulate another process winning the insert between the existence
	// check and our Create.
	winner := &entity.Ticket{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Category:      "VM",
		Severity:      constant.SeverityHigh,
		Status:        constant.TicketStatusOpen,
	}
	repo.failNext = contract.ErrDuplicateTicket
	repo.suppressFinds = 1
	repo.open[contract.TicketFingerprint{
		ChatSessionId: session.Id,
		Category:      "VM",
		Severity:      constant.SeverityHigh,
	}] = winner

	ticket, created, err := engine.CreateIfNeeded(context.Background(), repo, session, "vm crash", escalation(constant.SeverityHigh))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("losing the race must not report a created ticket")
	}
	if ticket == nil || ticket.Id != winner.Id {
		t.Errorf("expected the winner ticket back, got %v", ticket)
	}
}
