package retrieval

import (
	"context"
	"fmt"
	"strings"

	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/contract"
	"helpdesk-ai-be/pkg/embedding"
)

const defaultTopK = 3

// Retriever embeds a query and looks up the nearest knowledge base
// chunks by cosine distance.
type Retriever struct {
	embedder embedding.EmbeddingProvider
	kbRepo   contract.KBDocumentRepository
	topK     int
}

func NewRetriever(embedder embedding.EmbeddingProvider, kbRepo contract.KBDocumentRepository, topK int) *Retriever {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Retriever{
		embedder: embedder,
		kbRepo:   kbRepo,
		topK:     topK,
	}
}

func (r *Retriever) Retrieve(ctx context.Context, query string) ([]*entity.KBDocument, error) {
	embRes, err := r.embedder.Generate(query, embedding.TaskRetrievalQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	docs, err := r.kbRepo.SearchSimilar(ctx, embRes.Embedding.Values, r.topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search knowledge base: %w", err)
	}
	return docs, nil
}

// IsGrounded reports whether the retrieved set is usable as answer
// context. An empty set means the assistant must not answer from it.
func IsGrounded(docs []*entity.KBDocument) bool {
	return len(docs) > 0
}

// FormatContext renders retrieved chunks into the context block fed to
// the model. Each chunk is prefixed with its id and source so the model
// can cite them back.
func FormatContext(docs []*entity.KBDocument) string {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		parts = append(parts, fmt.Sprintf("[ID: %s | SOURCE: %s]\n%s", doc.Id, doc.Source, doc.Content))
	}
	return strings.Join(parts, "\n\n")
}
