package service

import (
	"context"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/pkg/serverutils"
	"helpdesk-ai-be/internal/repository/specification"
	"helpdesk-ai-be/internal/repository/unitofwork"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ITicketService interface {
	List(ctx context.Context, userId uuid.UUID, role constant.Role, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error)
	Update(ctx context.Context, userId uuid.UUID, role constant.Role, ticketId uuid.UUID, req *dto.UpdateTicketRequest) (*dto.TicketResponse, error)
	Delete(ctx context.Context, role constant.Role, ticketId uuid.UUID) error
}

// ticketService is the management surface over tickets the pipeline created.
// Visibility and mutation rights depend on the caller's role.
type ticketService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewTicketService(uowFactory unitofwork.RepositoryFactory) ITicketService {
	return &ticketService{
		uowFactory: uowFactory,
	}
}

// visibilitySpecs maps a role onto the ticket filter it is allowed to see.
// Admin and support engineer see everything; trainee and instructor see only
// tickets from their own sessions; operators see HIGH and CRITICAL.
func visibilitySpecs(userId uuid.UUID, role constant.Role) ([]specification.Specification, error) {
	switch role {
	case constant.RoleAdmin, constant.RoleSupportEngineer:
		return nil, nil
	case constant.RoleTrainee, constant.RoleInstructor:
		return []specification.Specification{
			specification.TicketSessionOwnedBy{UserID: userId},
		}, nil
	case constant.RoleOperator:
		return []specification.Specification{
			specification.BySeverities{Severities: []constant.Severity{
				constant.SeverityHigh,
				constant.SeverityCritical,
			}},
		}, nil
	default:
		return nil, serverutils.NewApiError(fiber.StatusForbidden, "Unauthorized role")
	}
}

func (s *ticketService) List(ctx context.Context, userId uuid.UUID, role constant.Role, req *dto.ListTicketsRequest) (*dto.ListTicketsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs, err := visibilitySpecs(userId, role)
	if err != nil {
		return nil, err
	}

	if req.Status != "" {
		specs = append(specs, specification.ByTicketStatus{Status: constant.TicketStatus(req.Status)})
	}
	if req.Severity != "" {
		specs = append(specs, specification.BySeverities{Severities: []constant.Severity{constant.Severity(req.Severity)}})
	}

	total, err := uow.TicketRepository().Count(ctx, specs...)
	if err != nil {
		return nil, err
	}

	listSpecs := append(specs, specification.OrderBy{Field: "created_at", Desc: true})
	if req.Page > 0 && req.PerPage > 0 {
		listSpecs = append(listSpecs, specification.Pagination{Page: req.Page, PerPage: req.PerPage})
	}

	tickets, err := uow.TicketRepository().FindAll(ctx, listSpecs...)
	if err != nil {
		return nil, err
	}

	resp := &dto.ListTicketsResponse{
		Tickets: make([]dto.TicketResponse, 0, len(tickets)),
		Total:   total,
	}
	for _, t := range tickets {
		resp.Tickets = append(resp.Tickets, toTicketResponse(t))
	}
	return resp, nil
}

func (s *ticketService) Update(ctx context.Context, userId uuid.UUID, role constant.Role, ticketId uuid.UUID, req *dto.UpdateTicketRequest) (*dto.TicketResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: ticketId})
	if err != nil {
		return nil, err
	}
	if ticket == nil {
		return nil, serverutils.NewApiError(fiber.StatusNotFound, "Ticket not found")
	}

	switch role {
	case constant.RoleAdmin, constant.RoleSupportEngineer:
		// unrestricted
	case constant.RoleInstructor:
		session, err := uow.ChatSessionRepository().FindOne(ctx,
			specification.ByID{ID: ticket.ChatSessionId},
			specification.SessionOwnedBy{UserID: userId},
		)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, serverutils.NewApiError(fiber.StatusForbidden, "Not allowed to update this ticket")
		}
	case constant.RoleOperator:
		if req.Tier != "" {
			return nil, serverutils.NewApiError(fiber.StatusForbidden, "Operator cannot change ticket tier")
		}
	default:
		return nil, serverutils.NewApiError(fiber.StatusForbidden, "Permission denied")
	}

	if req.Status != "" {
		ticket.Status = constant.TicketStatus(req.Status)
	}
	if req.Tier != "" {
		ticket.Tier = constant.Tier(req.Tier)
	}
	if req.Severity != "" {
		ticket.Severity = constant.Severity(req.Severity)
	}

	if err := uow.TicketRepository().Update(ctx, ticket); err != nil {
		return nil, err
	}

	resp := toTicketResponse(ticket)
	return &resp, nil
}

func (s *ticketService) Delete(ctx context.Context, role constant.Role, ticketId uuid.UUID) error {
	if role != constant.RoleAdmin {
		return serverutils.NewApiError(fiber.StatusForbidden, "Only admin can delete tickets")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	ticket, err := uow.TicketRepository().FindOne(ctx, specification.ByID{ID: ticketId})
	if err != nil {
		return err
	}
	if ticket == nil {
		return serverutils.NewApiError(fiber.StatusNotFound, "Ticket not found")
	}

	return uow.TicketRepository().Delete(ctx, ticketId)
}

func toTicketResponse(t *entity.Ticket) dto.TicketResponse {
	refs := make([]dto.KBReferenceDTO, 0, len(t.AIResults.KBReferences))
	for _, r := range t.AIResults.KBReferences {
		refs = append(refs, dto.KBReferenceDTO{Id: r.Id, Title: r.Title})
	}

	return dto.TicketResponse{
		Id:            t.Id,
		ChatSessionId: t.ChatSessionId,
		Tier:          string(t.Tier),
		Severity:      string(t.Severity),
		Status:        string(t.Status),
		Category:      t.Category,
		UserRole:      string(t.UserRole),
		AIResults: dto.TicketAIResultsDTO{
			Confidence:   t.AIResults.Confidence,
			Category:     t.AIResults.Category,
			KBReferences: refs,
		},
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
