package service

import (
	"context"
	"errors"
	"testing"

	"helpdesk-ai-be/internal/constant"
	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/pkg/serverutils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ticketFixture struct {
	store   *fakeStore
	service ITicketService

	trainee    uuid.UUID
	instructor uuid.UUID

	traineeTicket    *entity.Ticket
	instructorTicket *entity.Ticket
	criticalTicket   *entity.Ticket
}

func newTicketFixture() *ticketFixture {
	store := &fakeStore{}
	f := &ticketFixture{
		store:      store,
		service:    NewTicketService(&fakeFactory{store: store}),
		trainee:    uuid.New(),
		instructor: uuid.New(),
	}

	traineeSession := &entity.ChatSession{Id: uuid.New(), SessionKey: "t-sess", UserId: f.trainee, UserRole: constant.RoleTrainee}
	instructorSession := &entity.ChatSession{Id: uuid.New(), SessionKey: "i-sess", UserId: f.instructor, UserRole: constant.RoleInstructor}
	store.sessions = []*entity.ChatSession{traineeSession, instructorSession}

	f.traineeTicket = &entity.Ticket{
		Id: uuid.New(), ChatSessionId: traineeSession.Id,
		Tier: constant.Tier1, Severity: constant.SeverityMedium,
		Status: constant.TicketStatusOpen, Category: "AUTH", UserRole: constant.RoleTrainee,
	}
	f.instructorTicket = &entity.Ticket{
		Id: uuid.New(), ChatSessionId: instructorSession.Id,
		Tier: constant.Tier1, Severity: constant.SeverityLow,
		Status: constant.TicketStatusResolved, Category: "GENERAL", UserRole: constant.RoleInstructor,
	}
	f.criticalTicket = &entity.Ticket{
		Id: uuid.New(), ChatSessionId: instructorSession.Id,
		Tier: constant.Tier2, Severity: constant.SeverityCritical,
		Status: constant.TicketStatusOpen, Category: "VM", UserRole: constant.RoleInstructor,
	}
	store.tickets = []*entity.Ticket{f.traineeTicket, f.instructorTicket, f.criticalTicket}

	return f
}

func apiErrorCode(t *testing.T, err error) int {
	t.Helper()
	var apiErr *serverutils.ApiError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected ApiError, got %v", err)
	}
	return apiErr.Code
}

func TestTicketList_Visibility(t *testing.T) {
	f := newTicketFixture()
	ctx := context.Background()

	tests := []struct {
		name      string
		userId    uuid.UUID
		role      constant.Role
		wantTotal int64
	}{
		{"admin sees all", uuid.New(), constant.RoleAdmin, 3},
		{"support engineer sees all", uuid.New(), constant.RoleSupportEngineer, 3},
		{"trainee sees own sessions only", f.trainee, constant.RoleTrainee, 1},
		{"instructor sees own sessions only", f.instructor, constant.RoleInstructor, 2},
		{"operator sees high and critical", uuid.New(), constant.RoleOperator, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := f.service.List(ctx, tt.userId, tt.role, &dto.ListTicketsRequest{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Total != tt.wantTotal {
				t.Errorf("Total = %d, want %d", res.Total, tt.wantTotal)
			}
			if int64(len(res.Tickets)) != tt.wantTotal {
				t.Errorf("len(Tickets) = %d, want %d", len(res.Tickets), tt.wantTotal)
			}
		})
	}
}

func TestTicketList_UnknownRoleRejected(t *testing.T) {
	f := newTicketFixture()

	_, err := f.service.List(context.Background(), uuid.New(), constant.Role("auditor"), &dto.ListTicketsRequest{})
	if code := apiErrorCode(t, err); code != fiber.StatusForbidden {
		t.Errorf("code = %d, want 403", code)
	}
}

func TestTicketList_StatusFilter(t *testing.T) {
	f := newTicketFixture()

	res, err := f.service.List(context.Background(), uuid.New(), constant.RoleAdmin, &dto.ListTicketsRequest{Status: "OPEN"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Total != 2 {
		t.Errorf("Total = %d, want 2 OPEN tickets", res.Total)
	}
}

func TestTicketUpdate_RoleRules(t *testing.T) {
	ctx := context.Background()

	t.Run("admin updates anything", func(t *testing.T) {
		f := newTicketFixture()
		res, err := f.service.Update(ctx, uuid.New(), constant.RoleAdmin, f.traineeTicket.Id, &dto.UpdateTicketRequest{Status: "RESOLVED", Tier: "TIER_3"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != "RESOLVED" || res.Tier != "TIER_3" {
			t.Errorf("update not applied: %+v", res)
		}
	})

	t.Run("instructor updates own session ticket", func(t *testing.T) {
		f := newTicketFixture()
		if _, err := f.service.Update(ctx, f.instructor, constant.RoleInstructor, f.instructorTicket.Id, &dto.UpdateTicketRequest{Status: "CLOSED"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("instructor denied on foreign ticket", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.Update(ctx, f.instructor, constant.RoleInstructor, f.traineeTicket.Id, &dto.UpdateTicketRequest{Status: "CLOSED"})
		if code := apiErrorCode(t, err); code != fiber.StatusForbidden {
			t.Errorf("code = %d, want 403", code)
		}
	})

	t.Run("operator cannot change tier", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.Update(ctx, uuid.New(), constant.RoleOperator, f.criticalTicket.Id, &dto.UpdateTicketRequest{Tier: "TIER_3"})
		if code := apiErrorCode(t, err); code != fiber.StatusForbidden {
			t.Errorf("code = %d, want 403", code)
		}
	})

	t.Run("operator may change status", func(t *testing.T) {
		f := newTicketFixture()
		res, err := f.service.Update(ctx, uuid.New(), constant.RoleOperator, f.criticalTicket.Id, &dto.UpdateTicketRequest{Status: "IN_PROGRESS"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Status != "IN_PROGRESS" {
			t.Errorf("Status = %s, want IN_PROGRESS", res.Status)
		}
	})

	t.Run("trainee denied", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.Update(ctx, f.trainee, constant.RoleTrainee, f.traineeTicket.Id, &dto.UpdateTicketRequest{Status: "CLOSED"})
		if code := apiErrorCode(t, err); code != fiber.StatusForbidden {
			t.Errorf("code = %d, want 403", code)
		}
	})

	t.Run("missing ticket is 404", func(t *testing.T) {
		f := newTicketFixture()
		_, err := f.service.Update(ctx, uuid.New(), constant.RoleAdmin, uuid.New(), &dto.UpdateTicketRequest{Status: "CLOSED"})
		if code := apiErrorCode(t, err); code != fiber.StatusNotFound {
			t.Errorf("code = %d, want 404", code)
		}
	})
}

func TestTicketDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("admin deletes", func(t *testing.T) {
		f := newTicketFixture()
		if err := f.service.Delete(ctx, constant.RoleAdmin, f.traineeTicket.Id); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(f.store.tickets) != 2 {
			t.Errorf("ticket not removed, %d left", len(f.store.tickets))
		}
	})

	t.Run("non-admin denied", func(t *testing.T) {
		f := newTicketFixture()
		err := f.service.Delete(ctx, constant.RoleSupportEngineer, f.traineeTicket.Id)
		if code := apiErrorCode(t, err); code != fiber.StatusForbidden {
			t.Errorf("code = %d, want 403", code)
		}
	})

	t.Run("missing ticket is 404", func(t *testing.T) {
		f := newTicketFixture()
		err := f.service.Delete(ctx, constant.RoleAdmin, uuid.New())
		if code := apiErrorCode(t, err); code != fiber.StatusNotFound {
			t.Errorf("code = %d, want 404", code)
		}
	})
}
