package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/pkg/logger"
	"helpdesk-ai-be/internal/repository/memory"
	"helpdesk-ai-be/internal/repository/specification"
	"helpdesk-ai-be/internal/repository/unitofwork"
	"helpdesk-ai-be/pkg/events"
	"helpdesk-ai-be/pkg/guardrail"
	"helpdesk-ai-be/pkg/llm"
	pktNats "helpdesk-ai-be/pkg/nats"
	"helpdesk-ai-be/pkg/retrieval"
	"helpdesk-ai-be/pkg/rolepolicy"
	"helpdesk-ai-be/pkg/ticketing"
	"helpdesk-ai-be/pkg/triage"

	"github.com/google/uuid"
)

const ungroundedAnswer = "This information is not available in the knowledge base. I'll escalate this to support."

// historyLimit bounds the conversation window fed to the classification call.
const historyLimit = 10

type IChatService interface {
	SendChat(ctx context.Context, userId uuid.UUID, role constant.Role, sessionKey string, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetChatHistory(ctx context.Context, userId uuid.UUID, sessionKey string) ([]*dto.GetChatHistoryResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID, sessionKey string) (*dto.GetSessionResponse, error)
	GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetSessionResponse, error)
}

// chatService runs the turn pipeline: guardrail, retrieval, grounded answer,
// classification, role constraints, ticket dedup, persistence.
type chatService struct {
	uowFactory     unitofwork.RepositoryFactory
	llmProvider    llm.LLMProvider
	retriever      *retrieval.Retriever
	classifier     *triage.Classifier
	ticketEngine   *ticketing.Engine
	turnStateRepo  *memory.TurnStateRepository
	eventPublisher *pktNats.Publisher
	logger         logger.ILogger
}

func NewChatService(
	uowFactory unitofwork.RepositoryFactory,
	llmProvider llm.LLMProvider,
	retriever *retrieval.Retriever,
	ticketEngine *ticketing.Engine,
	turnStateRepo *memory.TurnStateRepository,
	eventPublisher *pktNats.Publisher,
	log logger.ILogger,
) IChatService {
	return &chatService{
		uowFactory:     uowFactory,
		llmProvider:    llmProvider,
		retriever:      retriever,
		classifier:     triage.NewClassifier(),
		ticketEngine:   ticketEngine,
		turnStateRepo:  turnStateRepo,
		eventPublisher: eventPublisher,
		logger:         log,
	}
}

// SendChat processes one user turn end to end. The user message and its
// guardrail event are committed before any external call, so a failed LLM or
// retrieval call aborts the turn leaving the audit trail intact.
func (cs *chatService) SendChat(ctx context.Context, userId uuid.UUID, role constant.Role, sessionKey string, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	session, err := cs.getOrCreateSession(ctx, uow, userId, role, sessionKey, request.Context)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	userMsg := &entity.ChatMessage{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		Role:          constant.ChatMessageRoleUser,
		Content:       request.Message,
		CreatedAt:     now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, userMsg); err != nil {
		return nil, err
	}

	verdict := guardrail.Evaluate(request.Message, role)

	if err := uow.GuardrailEventRepository().Create(ctx, &entity.GuardrailEvent{
		Id:            uuid.New(),
		ChatSessionId: session.Id,
		ChatMessageId: userMsg.Id,
		Blocked:       verdict.Blocked,
		Reason:        verdict.Reason,
		CreatedAt:     now,
	}); err != nil {
		return nil, err
	}

	// Durable point: the user message and its guardrail verdict survive any
	// failure below.
	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if verdict.Blocked {
		return cs.finishBlockedTurn(ctx, session, request, verdict)
	}

	docs, err := cs.retriever.Retrieve(ctx, request.Message)
	if err != nil {
		cs.logger.Error("chat", "retrieval failed", map[string]interface{}{
			"sessionKey": sessionKey,
			"error":      err.Error(),
		})
		return nil, err
	}

	if err := cs.saveKBReferences(ctx, session.Id, docs); err != nil {
		return nil, err
	}

	if !retrieval.IsGrounded(docs) {
		return cs.finishUngroundedTurn(ctx, session, request)
	}

	return cs.finishGroundedTurn(ctx, session, request, docs)
}

func (cs *chatService) getOrCreateSession(ctx context.Context, uow unitofwork.UnitOfWork, userId uuid.UUID, role constant.Role, sessionKey string, turnContext map[string]interface{}) (*entity.ChatSession, error) {
	session, err := uow.ChatSessionRepository().FindOne(ctx, specification.BySessionKey{SessionKey: sessionKey})
	if err != nil {
		return nil, err
	}
	if session != nil {
		return session, nil
	}

	session = &entity.ChatSession{
		Id:         uuid.New(),
		SessionKey: sessionKey,
		UserId:     userId,
		UserRole:   role,
		Context:    turnContext,
		CreatedAt:  time.Now(),
	}
	if err := uow.ChatSessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (cs *chatService) saveKBReferences(ctx context.Context, sessionId uuid.UUID, docs []*entity.KBDocument) error {
	if len(docs) == 0 {
		return nil
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()
	refs := make([]*entity.KBReference, 0, len(docs))
	for _, doc := range docs {
		refs = append(refs, &entity.KBReference{
			Id:            uuid.New(),
			ChatSessionId: sessionId,
			KBDocumentId:  doc.Id.String(),
			Title:         doc.Title,
			CreatedAt:     now,
		})
	}
	return uow.KBReferenceRepository().CreateBulk(ctx, refs)
}

// finishBlockedTurn answers a guardrail-blocked turn with the per-role
// refusal text. The refusal never reaches the LLM.
func (cs *chatService) finishBlockedTurn(ctx context.Context, session *entity.ChatSession, request *dto.SendChatRequest, verdict guardrail.Verdict) (*dto.SendChatResponse, error) {
	role := session.UserRole

	tier := constant.Tier1
	if verdict.NeedEscalation {
		tier = constant.Tier2
	}
	severity := constant.SeverityMedium
	if verdict.Severity != nil {
		severity = *verdict.Severity
	}

	response := &dto.SendChatResponse{
		SessionKey:     session.SessionKey,
		Answer:         rolepolicy.RefusalMessage(role),
		KBReferences:   []dto.KBReferenceDTO{},
		Confidence:     1.0,
		Tier:           string(tier),
		Severity:       string(severity),
		NeedEscalation: verdict.NeedEscalation,
		Guardrail: dto.GuardrailDTO{
			Blocked: true,
			Reason:  verdict.Reason,
		},
	}

	ticket, created, err := cs.createTicket(ctx, session, request.Message, ticketing.EscalationInput{
		Tier:           tier,
		Severity:       severity,
		Confidence:     1.0,
		NeedEscalation: verdict.NeedEscalation,
	})
	if err != nil {
		return nil, err
	}
	if ticket != nil {
		id := ticket.Id
		response.TicketId = &id
	}

	if err := cs.persistAssistantTurn(ctx, session, response, true); err != nil {
		return nil, err
	}

	cs.publishGuardrailBlocked(ctx, session, verdict)
	if created {
		cs.publishTicketCreated(ctx, session, ticket)
	}
	cs.recordTurnOutcome(session.SessionKey, verdict.NeedEscalation, true)

	return response, nil
}

// finishUngroundedTurn handles retrieval coming back empty: fixed escalation
// answer, no generation call.
func (cs *chatService) finishUngroundedTurn(ctx context.Context, session *entity.ChatSession, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	reason := "No KB grounding"

	response := &dto.SendChatResponse{
		SessionKey:     session.SessionKey,
		Answer:         ungroundedAnswer,
		KBReferences:   []dto.KBReferenceDTO{},
		Confidence:     1.0,
		Tier:           string(constant.Tier2),
		Severity:       string(constant.SeverityMedium),
		NeedEscalation: true,
		Guardrail: dto.GuardrailDTO{
			Blocked: false,
			Reason:  &reason,
		},
	}

	ticket, created, err := cs.createTicket(ctx, session, request.Message, ticketing.EscalationInput{
		Tier:           constant.Tier2,
		Severity:       constant.SeverityMedium,
		Confidence:     1.0,
		NeedEscalation: true,
	})
	if err != nil {
		return nil, err
	}
	if ticket != nil {
		id := ticket.Id
		response.TicketId = &id
	}

	if err := cs.persistAssistantTurn(ctx, session, response, false); err != nil {
		return nil, err
	}

	if created {
		cs.publishTicketCreated(ctx, session, ticket)
	}
	cs.recordTurnOutcome(session.SessionKey, true, false)

	return response, nil
}

// finishGroundedTurn runs the two LLM calls (answer generation and
// classification assistance), reconciles with the deterministic classifier
// and the role policy, and persists the assistant message.
func (cs *chatService) finishGroundedTurn(ctx context.Context, session *entity.ChatSession, request *dto.SendChatRequest, docs []*entity.KBDocument) (*dto.SendChatResponse, error) {
	role := session.UserRole

	answer, err := llm.CompleteStructured(ctx, cs.llmProvider, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.HelpDeskSystemPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(
			"Role: %s\nContext: %s\n\nQuestion: %s",
			role, retrieval.FormatContext(docs), request.Message,
		)},
	}, llm.WithTemperature(0))
	if err != nil {
		cs.logger.Error("chat", "answer generation failed", map[string]interface{}{
			"sessionKey": session.SessionKey,
			"error":      err.Error(),
		})
		return nil, err
	}

	historyText, err := cs.loadHistoryText(ctx, session.Id)
	if err != nil {
		return nil, err
	}

	classification, err := llm.CompleteStructured(ctx, cs.llmProvider, []llm.Message{
		{Role: constant.ChatMessageRoleSystem, Content: constant.ClassificationPromptV1},
		{Role: constant.ChatMessageRoleUser, Content: fmt.Sprintf(
			"Support Request: %s\n\nGenerated Answer: %s\n\nConversation History: %s",
			request.Message, answer.Answer, historyText,
		)},
	}, llm.WithTemperature(0))
	if err != nil {
		cs.logger.Error("chat", "classification failed", map[string]interface{}{
			"sessionKey": session.SessionKey,
			"error":      err.Error(),
		})
		return nil, err
	}

	// The LLM hint can only raise the outcome; the keyword classifier has
	// the final word.
	repeatedFailure := classification.NeedEscalation
	if state, ok := cs.turnStateRepo.Get(session.SessionKey); ok && state.EscalationStreak >= 2 {
		repeatedFailure = true
	}

	result := cs.classifier.Classify(request.Message, role, triage.Signals{
		KBCoverage:      true,
		RepeatedFailure: repeatedFailure,
		EscalationHint:  classification.NeedEscalation,
	})

	tier := rolepolicy.CapTier(role, result.Tier)
	severity := result.Severity
	needEscalation := result.NeedEscalation

	answerConfidence := answer.Confidence
	if answerConfidence == 0 {
		answerConfidence = 0.97
	}
	confidence := answerConfidence
	if classification.Confidence < confidence {
		confidence = classification.Confidence
	}

	// Trainees never sit on an unescalated CRITICAL, regardless of tier caps.
	if role == constant.RoleTrainee && severity == constant.SeverityCritical {
		needEscalation = true
		tier = constant.Tier2
	}

	kbRefs := make([]dto.KBReferenceDTO, 0, len(answer.KBReferences))
	ticketRefs := make([]entity.TicketKBReference, 0, len(answer.KBReferences))
	for _, ref := range answer.KBReferences {
		kbRefs = append(kbRefs, dto.KBReferenceDTO{Id: ref.Id, Title: ref.Title})
		ticketRefs = append(ticketRefs, entity.TicketKBReference{Id: ref.Id, Title: ref.Title})
	}

	response := &dto.SendChatResponse{
		SessionKey:     session.SessionKey,
		Answer:         rolepolicy.AdjustAnswer(answer.Answer, role),
		KBReferences:   kbRefs,
		Confidence:     confidence,
		Tier:           string(tier),
		Severity:       string(severity),
		NeedEscalation: needEscalation,
		Guardrail:      dto.GuardrailDTO{Blocked: false},
	}

	ticket, created, err := cs.createTicket(ctx, session, request.Message, ticketing.EscalationInput{
		Tier:           tier,
		Severity:       severity,
		Confidence:     confidence,
		NeedEscalation: needEscalation,
		KBReferences:   ticketRefs,
	})
	if err != nil {
		return nil, err
	}
	if ticket != nil {
		id := ticket.Id
		response.TicketId = &id
	}

	if err := cs.persistAssistantTurn(ctx, session, response, false); err != nil {
		return nil, err
	}

	if created {
		cs.publishTicketCreated(ctx, session, ticket)
	}
	cs.recordTurnOutcome(session.SessionKey, needEscalation, false)

	return response, nil
}

// createTicket runs the dedup engine on an autocommit connection so a
// duplicate-key conflict cannot poison the surrounding work.
func (cs *chatService) createTicket(ctx context.Context, session *entity.ChatSession, message string, in ticketing.EscalationInput) (*entity.Ticket, bool, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	return cs.ticketEngine.CreateIfNeeded(ctx, uow.TicketRepository(), session, message, in)
}

// persistAssistantTurn writes the assistant message, and for blocked turns
// the trailing non-blocking guardrail event, in one transaction.
func (cs *chatService) persistAssistantTurn(ctx context.Context, session *entity.ChatSession, response *dto.SendChatResponse, blockedTurn bool) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	now := time.Now()
	tier := constant.Tier(response.Tier)
	severity := constant.Severity(response.Severity)
	needEscalation := response.NeedEscalation
	confidence := response.Confidence

	assistantMsg := &entity.ChatMessage{
		Id:             uuid.New(),
		ChatSessionId:  session.Id,
		Role:           constant.ChatMessageRoleAssistant,
		Content:        response.Answer,
		Tier:           &tier,
		Severity:       &severity,
		NeedEscalation: &needEscalation,
		Confidence:     &confidence,
		CreatedAt:      now,
	}
	if err := uow.ChatMessageRepository().Create(ctx, assistantMsg); err != nil {
		return err
	}

	if blockedTurn {
		if err := uow.GuardrailEventRepository().Create(ctx, &entity.GuardrailEvent{
			Id:            uuid.New(),
			ChatSessionId: session.Id,
			ChatMessageId: assistantMsg.Id,
			Blocked:       false,
			CreatedAt:     now,
		}); err != nil {
			return err
		}
	}

	return uow.Commit()
}

// loadHistoryText renders the last messages of the session, oldest first, as
// plain "role: content" lines for the classification prompt.
func (cs *chatService) loadHistoryText(ctx context.Context, sessionId uuid.UUID) (string, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: sessionId},
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Page: 1, PerPage: historyLimit},
	)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		lines = append(lines, fmt.Sprintf("%s: %s", messages[i].Role, messages[i].Content))
	}
	return strings.Join(lines, "\n"), nil
}

func (cs *chatService) recordTurnOutcome(sessionKey string, escalated bool, blocked bool) {
	state, ok := cs.turnStateRepo.Get(sessionKey)
	if !ok {
		state = &memory.TurnState{SessionKey: sessionKey}
	}
	if escalated {
		state.EscalationStreak++
	} else {
		state.EscalationStreak = 0
	}
	state.LastBlocked = blocked
	cs.turnStateRepo.Save(state)
}

func (cs *chatService) publishTicketCreated(ctx context.Context, session *entity.ChatSession, ticket *entity.Ticket) {
	if cs.eventPublisher == nil {
		return
	}
	event := events.NewTicketCreatedEvent(
		ticket.Id.String(),
		session.SessionKey,
		ticket.Category,
		string(ticket.Tier),
		string(ticket.Severity),
		string(ticket.UserRole),
	)
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("chat", "failed to publish TICKET_CREATED event", map[string]interface{}{
			"ticketId": ticket.Id.String(),
			"error":    err.Error(),
		})
	}
}

func (cs *chatService) publishGuardrailBlocked(ctx context.Context, session *entity.ChatSession, verdict guardrail.Verdict) {
	if cs.eventPublisher == nil {
		return
	}
	reason := ""
	if verdict.Reason != nil {
		reason = *verdict.Reason
	}
	event := events.NewGuardrailBlockedEvent(session.SessionKey, string(session.UserRole), reason)
	if err := cs.eventPublisher.Publish(ctx, event); err != nil {
		cs.logger.Warn("chat", "failed to publish GUARDRAIL_BLOCKED event", map[string]interface{}{
			"sessionKey": session.SessionKey,
			"error":      err.Error(),
		})
	}
}

// GetChatHistory returns the session's messages oldest first. Sessions are
// only visible to their owner.
func (cs *chatService) GetChatHistory(ctx context.Context, userId uuid.UUID, sessionKey string) ([]*dto.GetChatHistoryResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.SessionOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.ByChatSessionID{ChatSessionID: session.Id},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetChatHistoryResponse, 0, len(messages))
	for _, msg := range messages {
		item := &dto.GetChatHistoryResponse{
			Id:             msg.Id,
			Role:           msg.Role,
			Content:        msg.Content,
			NeedEscalation: msg.NeedEscalation,
			Confidence:     msg.Confidence,
			CreatedAt:      msg.CreatedAt,
		}
		if msg.Tier != nil {
			tier := string(*msg.Tier)
			item.Tier = &tier
		}
		if msg.Severity != nil {
			severity := string(*msg.Severity)
			item.Severity = &severity
		}
		resp = append(resp, item)
	}

	return resp, nil
}

func (cs *chatService) GetSession(ctx context.Context, userId uuid.UUID, sessionKey string) (*dto.GetSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.ChatSessionRepository().FindOne(ctx,
		specification.BySessionKey{SessionKey: sessionKey},
		specification.SessionOwnedBy{UserID: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("session not found or access denied")
	}

	return &dto.GetSessionResponse{
		Id:         session.Id,
		SessionKey: session.SessionKey,
		UserRole:   string(session.UserRole),
		Context:    session.Context,
		CreatedAt:  session.CreatedAt,
	}, nil
}

func (cs *chatService) GetAllSessions(ctx context.Context, userId uuid.UUID) ([]*dto.GetSessionResponse, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.ChatSessionRepository().FindAll(ctx,
		specification.SessionOwnedBy{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	resp := make([]*dto.GetSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, &dto.GetSessionResponse{
			Id:         session.Id,
			SessionKey: session.SessionKey,
			UserRole:   string(session.UserRole),
			Context:    session.Context,
			CreatedAt:  session.CreatedAt,
		})
	}
	return resp, nil
}
