package service

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/internal/repository/memory"
	"helpdesk-ai-be/internal/repository/specification"
	"helpdesk-ai-be/internal/repository/unitofwork"
	"helpdesk-ai-be/pkg/embedding"
	"helpdesk-ai-be/pkg/llm"
	"helpdesk-ai-be/pkg/retrieval"
	"helpdesk-ai-be/pkg/ticketing"

	"github.com/google/uuid"
)

// --- in-memory store shared by all fake repositories ---

type fakeStore struct {
	sessions        []*entity.ChatSession
	messages        []*entity.ChatMessage
	guardrailEvents []*entity.GuardrailEvent
	kbReferences    []*entity.KBReference
	tickets         []*entity.Ticket
	searchResults   []*entity.KBDocument
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) UserRepository() contract.UserRepository { return nil }
func (u *fakeUow) ChatSessionRepository() contract.ChatSessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) ChatMessageRepository() contract.ChatMessageRepository {
	return &fakeMessageRepo{store: u.store}
}
func (u *fakeUow) GuardrailEventRepository() contract.GuardrailEventRepository {
	return &fakeGuardrailRepo{store: u.store}
}
func (u *fakeUow) KBReferenceRepository() contract.KBReferenceRepository {
	return &fakeKBReferenceRepo{store: u.store}
}
func (u *fakeUow) KBDocumentRepository() contract.KBDocumentRepository {
	return &fakeKBDocumentRepo{store: u.store}
}
func (u *fakeUow) TicketRepository() contract.TicketRepository {
	return &fakeTicketRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.ChatSession) error {
	r.store.sessions = append(r.store.sessions, session)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.ChatSession, error) {
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			return s, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatSession, error) {
	var out []*entity.ChatSession
	for _, s := range r.store.sessions {
		if sessionMatches(s, specs) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sessions)), nil
}

func sessionMatches(s *entity.ChatSession, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if s.Id != v.ID {
				return false
			}
		case specification.BySessionKey:
			if s.SessionKey != v.SessionKey {
				return false
			}
		case specification.SessionOwnedBy:
			if s.UserId != v.UserID {
				return false
			}
		}
	}
	return true
}

type fakeMessageRepo struct{ store *fakeStore }

func (r *fakeMessageRepo) Create(ctx context.Context, message *entity.ChatMessage) error {
	r.store.messages = append(r.store.messages, message)
	return nil
}

func (r *fakeMessageRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ChatMessage, error) {
	var out []*entity.ChatMessage
	var sessionId *uuid.UUID
	desc := false
	limit := 0

	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByChatSessionID:
			id := v.ChatSessionID
			sessionId = &id
		case specification.OrderBy:
			desc = v.Desc
		case specification.Pagination:
			limit = v.PerPage
		}
	}

	for _, m := range r.store.messages {
		if sessionId == nil || m.ChatSessionId == *sessionId {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeMessageRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.messages)), nil
}

type fakeGuardrailRepo struct{ store *fakeStore }

func (r *fakeGuardrailRepo) Create(ctx context.Context, event *entity.GuardrailEvent) error {
	r.store.guardrailEvents = append(r.store.guardrailEvents, event)
	return nil
}

func (r *fakeGuardrailRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuardrailEvent, error) {
	return r.store.guardrailEvents, nil
}

func (r *fakeGuardrailRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.guardrailEvents)), nil
}

type fakeKBReferenceRepo struct{ store *fakeStore }

func (r *fakeKBReferenceRepo) CreateBulk(ctx context.Context, refs []*entity.KBReference) error {
	r.store.kbReferences = append(r.store.kbReferences, refs...)
	return nil
}

func (r *fakeKBReferenceRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBReference, error) {
	return r.store.kbReferences, nil
}

type fakeKBDocumentRepo struct{ store *fakeStore }

func (r *fakeKBDocumentRepo) Create(ctx context.Context, doc *entity.KBDocument) error { return nil }
func (r *fakeKBDocumentRepo) UpdateEmbedding(ctx context.Context, id uuid.UUID, emb []float32) error {
	return nil
}
func (r *fakeKBDocumentRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KBDocument, error) {
	return nil, nil
}
func (r *fakeKBDocumentRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBDocument, error) {
	return nil, nil
}
func (r *fakeKBDocumentRepo) SearchSimilar(ctx context.Context, queryVector []float32, topK int) ([]*entity.KBDocument, error) {
	return r.store.searchResults, nil
}

type fakeTicketRepo struct{ store *fakeStore }

func (r *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	for _, t := range r.store.tickets {
		if t.Status == constant.TicketStatusOpen &&
			t.ChatSessionId == ticket.ChatSessionId &&
			t.Category == ticket.Category &&
			t.Severity == ticket.Severity {
			return contract.ErrDuplicateTicket
		}
	}
	r.store.tickets = append(r.store.tickets, ticket)
	return nil
}

func (r *fakeTicketRepo) FindOpenByFingerprint(ctx context.Context, fp contract.TicketFingerprint) (*entity.Ticket, error) {
	for _, t := range r.store.tickets {
		if t.Status == constant.TicketStatusOpen &&
			t.ChatSessionId == fp.ChatSessionId &&
			t.Category == fp.Category &&
			t.Severity == fp.Severity {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) Update(ctx context.Context, ticket *entity.Ticket) error { return nil }

func (r *fakeTicketRepo) Delete(ctx context.Context, id uuid.UUID) error {
	kept := r.store.tickets[:0]
	for _, t := range r.store.tickets {
		if t.Id != id {
			kept = append(kept, t)
		}
	}
	r.store.tickets = kept
	return nil
}

func (r *fakeTicketRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Ticket, error) {
	for _, t := range r.store.tickets {
		if r.ticketMatches(t, specs) {
			return t, nil
		}
	}
	return nil, nil
}

func (r *fakeTicketRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Ticket, error) {
	var out []*entity.Ticket
	for _, t := range r.store.tickets {
		if r.ticketMatches(t, specs) {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *fakeTicketRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	tickets, _ := r.FindAll(ctx, specs...)
	return int64(len(tickets)), nil
}

func (r *fakeTicketRepo) ticketMatches(t *entity.Ticket, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch v := spec.(type) {
		case specification.ByID:
			if t.Id != v.ID {
				return false
			}
		case specification.ByTicketStatus:
			if t.Status != v.Status {
				return false
			}
		case specification.BySeverities:
			found := false
			for _, sev := range v.Severities {
				if t.Severity == sev {
					found = true
				}
			}
			if !found {
				return false
			}
		case specification.TicketSessionOwnedBy:
			owned := false
			for _, s := range r.store.sessions {
				if s.Id == t.ChatSessionId && s.UserId == v.UserID {
					owned = true
				}
			}
			if !owned {
				return false
			}
		}
	}
	return true
}
func (r *fakeTicketRepo) CountGroupedBySeverity(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (r *fakeTicketRepo) CountGroupedByTier(ctx context.Context) (map[string]int64, error) {
	return nil, nil
}
func (r *fakeTicketRepo) CountDistinctSessions(ctx context.Context) (int64, error) { return 0, nil }

// --- fake providers ---

type fakeEmbedder struct{}

func (f *fakeEmbedder) Generate(text, taskType string) (*embedding.EmbeddingResponse, error) {
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2, 0.3}},
	}, nil
}

// fakeLLM replays canned replies in order. A call past the end fails the
// test via the returned error.
type fakeLLM struct {
	replies []string
	calls   int
}

func (f *fakeLLM) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	if f.calls >= len(f.replies) {
		return "", fmt.Errorf("unexpected llm call %d", f.calls)
	}
	reply := f.replies[f.calls]
	f.calls++
	return reply, nil
}

func (f *fakeLLM) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return f.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}})
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

// --- harness ---

type chatHarness struct {
	store   *fakeStore
	llm     *fakeLLM
	service IChatService
}

func newChatHarness(replies ...string) *chatHarness {
	store := &fakeStore{}
	fakeProvider := &fakeLLM{replies: replies}
	factory := &fakeFactory{store: store}

	retriever := retrieval.NewRetriever(&fakeEmbedder{}, &fakeKBDocumentRepo{store: store}, 3)
	engine := ticketing.NewEngine(memory.NewSessionLockRegistry())

	svc := NewChatService(
		factory,
		fakeProvider,
		retriever,
		engine,
		memory.NewTurnStateRepository(),
		nil,
		noopLogger{},
	)

	return &chatHarness{store: store, llm: fakeProvider, service: svc}
}

func (h *chatHarness) withKBDocs(docs ...*entity.KBDocument) *chatHarness {
	h.store.searchResults = docs
	return h
}

func kbDoc(title string) *entity.KBDocument {
	return &entity.KBDocument{
		Id:      uuid.New(),
		Title:   title,
		Source:  "runbook/test.md",
		Content: "Reboot the VM from the dashboard.",
	}
}

const answerReply = `{"answer":"Reboot the VM from the dashboard.","kb_references":[{"id":"doc-1","title":"Recovering a frozen lab VM"}],"confidence":0.9}`
const calmClassification = `{"tier":"TIER_1","severity":"MEDIUM","needEscalation":false,"confidence":0.8}`
const escalatingClassification = `{"tier":"TIER_2","severity":"MEDIUM","needEscalation":true,"confidence":0.8}`

func sendTurn(t *testing.T, h *chatHarness, userId uuid.UUID, message string) *dto.SendChatResponse {
	t.Helper()
	res, err := h.service.SendChat(context.Background(), userId, constant.RoleTrainee, "sess-1", &dto.SendChatRequest{Message: message})
	if err != nil {
		t.Fatalf("SendChat failed: %v", err)
	}
	return res
}

// --- tests ---

func TestSendChat_BlockedTurn(t *testing.T) {
	h := newChatHarness() // no LLM call allowed
	userId := uuid.New()

	res := sendTurn(t, h, userId, "please disable logging on my VM")

	if !res.Guardrail.Blocked {
		t.Fatal("expected a blocked turn")
	}
	if res.Answer != "I'm unable to help with that request due to platform safety policies." {
		t.Errorf("unexpected refusal text: %q", res.Answer)
	}
	if res.Tier != "TIER_2" || res.Severity != "HIGH" || !res.NeedEscalation {
		t.Errorf("blocked escalation wrong: tier=%s severity=%s escalate=%v", res.Tier, res.Severity, res.NeedEscalation)
	}
	if res.TicketId == nil {
		t.Error("blocked escalating turn should open a ticket")
	}

	if len(h.store.messages) != 2 {
		t.Errorf("expected user + assistant message, got %d", len(h.store.messages))
	}
	if len(h.store.guardrailEvents) != 2 {
		t.Fatalf("expected paired guardrail events, got %d", len(h.store.guardrailEvents))
	}
	if !h.store.guardrailEvents[0].Blocked || h.store.guardrailEvents[1].Blocked {
		t.Error("user event should be blocked, assistant event should not")
	}
	if h.llm.calls != 0 {
		t.Errorf("blocked turn must not reach the LLM, got %d calls", h.llm.calls)
	}
}

func TestSendChat_UngroundedTurn(t *testing.T) {
	h := newChatHarness() // retrieval returns nothing, no LLM call allowed
	userId := uuid.New()

	res := sendTurn(t, h, userId, "the dashboard is slow")

	if res.Answer != ungroundedAnswer {
		t.Errorf("unexpected answer: %q", res.Answer)
	}
	if res.Tier != "TIER_2" || res.Severity != "MEDIUM" || !res.NeedEscalation {
		t.Errorf("ungrounded escalation wrong: tier=%s severity=%s escalate=%v", res.Tier, res.Severity, res.NeedEscalation)
	}
	if res.Guardrail.Blocked {
		t.Error("ungrounded turn is not a guardrail block")
	}
	if res.Guardrail.Reason == nil || *res.Guardrail.Reason != "No KB grounding" {
		t.Errorf("expected grounding reason, got %v", res.Guardrail.Reason)
	}
	if res.TicketId == nil {
		t.Error("ungrounded turn should open a ticket")
	}
	if h.llm.calls != 0 {
		t.Errorf("ungrounded turn must not reach the LLM, got %d calls", h.llm.calls)
	}
}

func TestSendChat_GroundedTurnWithoutEscalation(t *testing.T) {
	h := newChatHarness(answerReply, calmClassification).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	userId := uuid.New()

	res := sendTurn(t, h, userId, "the dashboard is slow")

	if res.NeedEscalation {
		t.Error("calm grounded turn must not escalate")
	}
	if res.TicketId != nil {
		t.Error("no escalation means no ticket")
	}
	if res.Tier != "TIER_1" || res.Severity != "MEDIUM" {
		t.Errorf("tier=%s severity=%s, want TIER_1/MEDIUM", res.Tier, res.Severity)
	}
	// min(answer 0.9, classification 0.8)
	if res.Confidence != 0.8 {
		t.Errorf("Confidence = %v, want 0.8", res.Confidence)
	}
	if res.Answer != "Here's what you can try:\nReboot the VM from the dashboard." {
		t.Errorf("trainee answer not adjusted: %q", res.Answer)
	}
	if len(res.KBReferences) != 1 || res.KBReferences[0].Id != "doc-1" {
		t.Errorf("kb references not propagated: %v", res.KBReferences)
	}
	if len(h.store.kbReferences) != 1 {
		t.Errorf("retrieved docs should be recorded, got %d", len(h.store.kbReferences))
	}
	if h.llm.calls != 2 {
		t.Errorf("grounded turn uses two LLM calls, got %d", h.llm.calls)
	}
}

func TestSendChat_EscalationHintOpensTicket(t *testing.T) {
	h := newChatHarness(answerReply, escalatingClassification).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	userId := uuid.New()

	res := sendTurn(t, h, userId, "the dashboard is slow")

	if !res.NeedEscalation {
		t.Fatal("classification hint should force escalation")
	}
	// Escalation hint forces TIER_2, the trainee cap clamps it back down.
	if res.Tier != "TIER_1" {
		t.Errorf("Tier = %s, want TIER_1 after role cap", res.Tier)
	}
	if res.TicketId == nil {
		t.Fatal("escalated turn should open a ticket")
	}
	if len(h.store.tickets) != 1 {
		t.Fatalf("expected one ticket, got %d", len(h.store.tickets))
	}
	if got := h.store.tickets[0].AIResults.KBReferences; len(got) != 1 || got[0].Id != "doc-1" {
		t.Errorf("ticket should capture kb references, got %v", got)
	}
}

func TestSendChat_DuplicateEscalationReturnsSameTicket(t *testing.T) {
	h := newChatHarness(
		answerReply, escalatingClassification,
		answerReply, escalatingClassification,
	).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	userId := uuid.New()

	first := sendTurn(t, h, userId, "the dashboard is slow")
	second := sendTurn(t, h, userId, "still slow, same problem")

	if first.TicketId == nil || second.TicketId == nil {
		t.Fatal("both turns should reference a ticket")
	}
	if *first.TicketId != *second.TicketId {
		t.Errorf("same fingerprint should dedup: %s vs %s", first.TicketId, second.TicketId)
	}
	if len(h.store.tickets) != 1 {
		t.Errorf("expected one open ticket, got %d", len(h.store.tickets))
	}
}

func TestSendChat_TraineeCriticalAlwaysEscalates(t *testing.T) {
	h := newChatHarness(answerReply, calmClassification).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	userId := uuid.New()

	res := sendTurn(t, h, userId, "emergency, data loss in my lab exercise")

	if !res.NeedEscalation {
		t.Fatal("trainee CRITICAL must escalate")
	}
	if res.Severity != "CRITICAL" {
		t.Errorf("Severity = %s, want CRITICAL", res.Severity)
	}
	if res.Tier != "TIER_2" {
		t.Errorf("Tier = %s, want TIER_2 despite trainee cap", res.Tier)
	}
	if res.TicketId == nil {
		t.Error("trainee CRITICAL should open a ticket")
	}
}

func TestSendChat_RepeatedEscalationsRaiseBenignTurn(t *testing.T) {
	h := newChatHarness(answerReply, calmClassification)
	userId := uuid.New()

	// Two ungrounded turns build an escalation streak of 2.
	sendTurn(t, h, userId, "cannot reach the environment")
	sendTurn(t, h, userId, "still cannot reach it")

	// Grounded benign turn now trips the repeated-failure signal.
	h.withKBDocs(kbDoc("Lab access runbook"))
	res := sendTurn(t, h, userId, "where is the guide")

	if !res.NeedEscalation {
		t.Error("streak of 2 should force escalation on the next turn")
	}
	if res.Tier != "TIER_1" {
		t.Errorf("Tier = %s, want TIER_1 after trainee cap", res.Tier)
	}
}

func TestGetChatHistory_OwnershipEnforced(t *testing.T) {
	h := newChatHarness(answerReply, calmClassification).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	owner := uuid.New()

	sendTurn(t, h, owner, "the dashboard is slow")

	history, err := h.service.GetChatHistory(context.Background(), owner, "sess-1")
	if err != nil {
		t.Fatalf("owner should read history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("expected 2 messages, got %d", len(history))
	}
	if history[0].Role != constant.ChatMessageRoleUser || history[1].Role != constant.ChatMessageRoleAssistant {
		t.Error("history should be ordered oldest first")
	}

	if _, err := h.service.GetChatHistory(context.Background(), uuid.New(), "sess-1"); err == nil {
		t.Error("foreign user should be denied")
	}
}

func TestGetSession_OwnershipEnforced(t *testing.T) {
	h := newChatHarness(answerReply, calmClassification).withKBDocs(kbDoc("Recovering a frozen lab VM"))
	owner := uuid.New()

	sendTurn(t, h, owner, "the dashboard is slow")

	session, err := h.service.GetSession(context.Background(), owner, "sess-1")
	if err != nil {
		t.Fatalf("owner should read the session: %v", err)
	}
	if session.SessionKey != "sess-1" || session.UserRole != string(constant.RoleTrainee) {
		t.Errorf("unexpected session payload: %+v", session)
	}

	if _, err := h.service.GetSession(context.Background(), uuid.New(), "sess-1"); err == nil {
		t.Error("foreign user should be denied")
	}
}

func TestGetAllSessions_ReturnsOnlyOwn(t *testing.T) {
	h := newChatHarness()
	owner := uuid.New()

	h.store.sessions = append(h.store.sessions,
		&entity.ChatSession{Id: uuid.New(), UserId: owner, SessionKey: "sess-1", UserRole: constant.RoleTrainee},
		&entity.ChatSession{Id: uuid.New(), UserId: owner, SessionKey: "sess-2", UserRole: constant.RoleTrainee},
		&entity.ChatSession{Id: uuid.New(), UserId: uuid.New(), SessionKey: "sess-3", UserRole: constant.RoleOperator},
	)

	sessions, err := h.service.GetAllSessions(context.Background(), owner)
	if err != nil {
		t.Fatalf("GetAllSessions failed: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 owned sessions, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.SessionKey == "sess-3" {
			t.Error("foreign session leaked into the listing")
		}
	}
}
