package dto

import "github.com/google/uuid"

type IngestDocumentRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=255"`
	Source  string `json:"source" validate:"required,min=1,max=255"`
	Content string `json:"content" validate:"required,min=1"`
}

type IngestDocumentResponse struct {
	DocumentIds []uuid.UUID `json:"document_ids"`
	Chunks      int         `json:"chunks"`
}

// PublishEmbedDocumentMessage is the embed-queue payload. The consumer
// fetches the chunk by id and backfills its vector.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
