package contract

import (
	"context"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/specification"
)

type KBReferenceRepository interface {
	CreateBulk(ctx context.Context, refs []*entity.KBReference) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBReference, error)
}
