package contract

import (
	"context"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/specification"

	"github.com/google/uuid"
)

type KBDocumentRepository interface {
	Create(ctx context.Context, doc *entity.KBDocument) error
	UpdateEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.KBDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.KBDocument, error)
	// SearchSimilar returns the topK embedded documents nearest to the query
	// vector by cosine distance. Documents without an embedding are skipped.
	SearchSimilar(ctx context.Context, queryVector []float32, topK int) ([]*entity.KBDocument, error)
}
