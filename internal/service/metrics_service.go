package service

import (
	"context"
	"math"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/repository/specification"
	"helpdesk-ai-be/internal/repository/unitofwork"
)

type IMetricsService interface {
	Summary(ctx context.Context) (*dto.MetricsSummaryResponse, error)
}

type metricsService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMetricsService(uowFactory unitofwork.RepositoryFactory) IMetricsService {
	return &metricsService{
		uowFactory: uowFactory,
	}
}

func (s *metricsService) Summary(ctx context.Context) (*dto.MetricsSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	totalTickets, err := uow.TicketRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	openTickets, err := uow.TicketRepository().Count(ctx,
		specification.ByTicketStatus{Status: constant.TicketStatusOpen})
	if err != nil {
		return nil, err
	}

	closedTickets, err := uow.TicketRepository().Count(ctx,
		specification.ByTicketStatus{Status: constant.TicketStatusResolved})
	if err != nil {
		return nil, err
	}

	ticketsBySeverity, err := uow.TicketRepository().CountGroupedBySeverity(ctx)
	if err != nil {
		return nil, err
	}

	ticketsByTier, err := uow.TicketRepository().CountGroupedByTier(ctx)
	if err != nil {
		return nil, err
	}

	guardrailHits, err := uow.GuardrailEventRepository().Count(ctx,
		specification.Filter("blocked", true))
	if err != nil {
		return nil, err
	}

	escalations, err := uow.ChatMessageRepository().Count(ctx,
		specification.Filter("need_escalation", true))
	if err != nil {
		return nil, err
	}

	totalSessions, err := uow.ChatSessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	totalMessages, err := uow.ChatMessageRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	// Deflection: share of sessions that never produced a ticket.
	var deflectionRate float64
	if totalSessions > 0 {
		sessionsWithTickets, err := uow.TicketRepository().CountDistinctSessions(ctx)
		if err != nil {
			return nil, err
		}
		deflected := totalSessions - sessionsWithTickets
		deflectionRate = math.Round(float64(deflected)/float64(totalSessions)*1000) / 1000
	}

	return &dto.MetricsSummaryResponse{
		TotalTickets:         totalTickets,
		OpenTickets:          openTickets,
		ClosedTickets:        closedTickets,
		TicketsBySeverity:    ticketsBySeverity,
		TicketsByTier:        ticketsByTier,
		GuardrailActivations: guardrailHits,
		Escalations:          escalations,
		ConversationVolumes: dto.ConversationVolumesDTO{
			Sessions: totalSessions,
			Messages: totalMessages,
		},
		DeflectionRate: deflectionRate,
	}, nil
}
