package mapper

import (
	"encoding/json"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/model"
)

type TicketMapper struct{}

func NewTicketMapper() *TicketMapper {
	return &TicketMapper{}
}

func (m *TicketMapper) ToEntity(t *model.Ticket) *entity.Ticket {
	if t == nil {
		return nil
	}

	var aiResults entity.TicketAIResults
	if len(t.AIResults) > 0 {
		_ = json.Unmarshal(t.AIResults, &aiResults)
	}

	return &entity.Ticket{
		Id:            t.Id,
		ChatSessionId: t.ChatSessionId,
		Tier:          constant.Tier(t.Tier),
		Severity:      constant.Severity(t.Severity),
		Status:        constant.TicketStatus(t.Status),
		Category:      t.Category,
		UserRole:      constant.Role(t.UserRole),
		AIResults:     aiResults,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m *TicketMapper) ToModel(t *entity.Ticket) *model.Ticket {
	if t == nil {
		return nil
	}

	aiJSON, err := json.Marshal(t.AIResults)
	if err != nil {
		aiJSON = []byte("{}")
	}

	return &model.Ticket{
		Id:            t.Id,
		ChatSessionId: t.ChatSessionId,
		Tier:          string(t.Tier),
		Severity:      string(t.Severity),
		Status:        string(t.Status),
		Category:      t.Category,
		UserRole:      string(t.UserRole),
		AIResults:     aiJSON,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
	}
}

func (m *TicketMapper) ToEntities(models []*model.Ticket) []*entity.Ticket {
	entities := make([]*entity.Ticket, len(models))
	for i, t := range models {
		entities[i] = m.ToEntity(t)
	}
	return entities
}
