package dto

type ConversationVolumesDTO struct {
	Sessions int64 `json:"sessions"`
	Messages int64 `json:"messages"`
}

type MetricsSummaryResponse struct {
	TotalTickets         int64                  `json:"totalTickets"`
	OpenTickets          int64                  `json:"openTickets"`
	ClosedTickets        int64                  `json:"closedTickets"`
	TicketsBySeverity    map[string]int64       `json:"ticketsBySeverity"`
	TicketsByTier        map[string]int64       `json:"ticketsByTier"`
	GuardrailActivations int64                  `json:"guardrailActivations"`
	Escalations          int64                  `json:"escalations"`
	ConversationVolumes  ConversationVolumesDTO `json:"conversationVolumes"`
	DeflectionRate       float64                `json:"deflectionRate"`
}
