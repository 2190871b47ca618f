package entity

import (
	"time"

	"github.com/google/uuid"
)

// KBDocument is one chunk of knowledge base content. The embedding is
// populated asynchronously by the ingest consumer.
type KBDocument struct {
	Id        uuid.UUID
	Title     string
	Source    string
	Content   string
	Embedding []float32
	CreatedAt time.Time
}
