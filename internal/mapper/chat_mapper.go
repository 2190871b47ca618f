package mapper

import (
	"encoding/json"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/model"
)

type ChatMapper struct{}

func NewChatMapper() *ChatMapper {
	return &ChatMapper{}
}

// Session Mappers

func (m *ChatMapper) ChatSessionToEntity(s *model.ChatSession) *entity.ChatSession {
	if s == nil {
		return nil
	}

	ctx := map[string]interface{}{}
	if len(s.Context) > 0 {
		_ = json.Unmarshal(s.Context, &ctx)
	}

	return &entity.ChatSession{
		Id:         s.Id,
		SessionKey: s.SessionKey,
		UserId:     s.UserId,
		UserRole:   constant.Role(s.UserRole),
		Context:    ctx,
		CreatedAt:  s.CreatedAt,
	}
}

func (m *ChatMapper) ChatSessionToModel(s *entity.ChatSession) *model.ChatSession {
	if s == nil {
		return nil
	}

	ctxJSON, err := json.Marshal(s.Context)
	if err != nil || s.Context == nil {
		ctxJSON = []byte("{}")
	}

	return &model.ChatSession{
		Id:         s.Id,
		SessionKey: s.SessionKey,
		UserId:     s.UserId,
		UserRole:   string(s.UserRole),
		Context:    ctxJSON,
		CreatedAt:  s.CreatedAt,
	}
}

// Message Mappers

func (m *ChatMapper) ChatMessageToEntity(msg *model.ChatMessage) *entity.ChatMessage {
	if msg == nil {
		return nil
	}

	var tier *constant.Tier
	if msg.Tier != nil {
		t := constant.Tier(*msg.Tier)
		tier = &t
	}
	var severity *constant.Severity
	if msg.Severity != nil {
		s := constant.Severity(*msg.Severity)
		severity = &s
	}

	return &entity.ChatMessage{
		Id:             msg.Id,
		ChatSessionId:  msg.ChatSessionId,
		Role:           msg.Role,
		Content:        msg.Content,
		Tier:           tier,
		Severity:       severity,
		NeedEscalation: msg.NeedEscalation,
		Confidence:     msg.Confidence,
		CreatedAt:      msg.CreatedAt,
	}
}

func (m *ChatMapper) ChatMessageToModel(msg *entity.ChatMessage) *model.ChatMessage {
	if msg == nil {
		return nil
	}

	var tier *string
	if msg.Tier != nil {
		t := string(*msg.Tier)
		tier = &t
	}
	var severity *string
	if msg.Severity != nil {
		s := string(*msg.Severity)
		severity = &s
	}

	return &model.ChatMessage{
		Id:             msg.Id,
		ChatSessionId:  msg.ChatSessionId,
		Role:           msg.Role,
		Content:        msg.Content,
		Tier:           tier,
		Severity:       severity,
		NeedEscalation: msg.NeedEscalation,
		Confidence:     msg.Confidence,
		CreatedAt:      msg.CreatedAt,
	}
}

// Guardrail Event Mappers

func (m *ChatMapper) GuardrailEventToEntity(e *model.GuardrailEvent) *entity.GuardrailEvent {
	if e == nil {
		return nil
	}
	return &entity.GuardrailEvent{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		ChatMessageId: e.ChatMessageId,
		Blocked:       e.Blocked,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
	}
}

func (m *ChatMapper) GuardrailEventToModel(e *entity.GuardrailEvent) *model.GuardrailEvent {
	if e == nil {
		return nil
	}
	return &model.GuardrailEvent{
		Id:            e.Id,
		ChatSessionId: e.ChatSessionId,
		ChatMessageId: e.ChatMessageId,
		Blocked:       e.Blocked,
		Reason:        e.Reason,
		CreatedAt:     e.CreatedAt,
	}
}

// KB Reference Mappers

func (m *ChatMapper) KBReferenceToEntity(r *model.KBReference) *entity.KBReference {
	if r == nil {
		return nil
	}
	return &entity.KBReference{
		Id:            r.Id,
		ChatSessionId: r.ChatSessionId,
		KBDocumentId:  r.KBDocumentId,
		Title:         r.Title,
		CreatedAt:     r.CreatedAt,
	}
}

func (m *ChatMapper) KBReferenceToModel(r *entity.KBReference) *model.KBReference {
	if r == nil {
		return nil
	}
	return &model.KBReference{
		Id:            r.Id,
		ChatSessionId: r.ChatSessionId,
		KBDocumentId:  r.KBDocumentId,
		Title:         r.Title,
		CreatedAt:     r.CreatedAt,
	}
}
