package contract

import (
	"context"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/specification"
)

type GuardrailEventRepository interface {
	Create(ctx context.Context, event *entity.GuardrailEvent) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuardrailEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
