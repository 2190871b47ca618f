package service

import (
	"context"
	"encoding/json"
	"time"

	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/entity"
	"helpdesk-ai-be/internal/repository/unitofwork"
	"helpdesk-ai-be/pkg/events"
	pktNats "helpdesk-ai-be/pkg/nats"
	"helpdesk-ai-be/pkg/utils"

	"github.com/google/uuid"
)

// Chunk sizing for knowledge base articles. Help desk articles are short, so
// chunks rarely exceed one or two per document.
const (
	kbChunkSize    = 1500
	kbChunkOverlap = 200
)

type IKnowledgeService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error)
}

// knowledgeService stores knowledge base articles as chunks and queues each
// chunk for asynchronous embedding.
type knowledgeService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
}

func NewKnowledgeService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService, eventPublisher *pktNats.Publisher) IKnowledgeService {
	return &knowledgeService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
	}
}

func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.IngestDocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	chunks := utils.SplitText(req.Content, kbChunkSize, kbChunkOverlap)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	docs := make([]*entity.KBDocument, 0, len(chunks))
	for _, chunk := range chunks {
		doc := &entity.KBDocument{
			Id:        uuid.New(),
			Title:     req.Title,
			Source:    req.Source,
			Content:   chunk,
			CreatedAt: time.Now(),
		}
		if err := uow.KBDocumentRepository().Create(ctx, doc); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(docs))
	for _, doc := range docs {
		payload, err := json.Marshal(dto.PublishEmbedDocumentMessage{DocumentId: doc.Id})
		if err != nil {
			return nil, err
		}
		if err := s.publisherService.Publish(ctx, payload); err != nil {
			return nil, err
		}
		ids = append(ids, doc.Id)

		if s.eventPublisher != nil {
			// Informational only; ingestion succeeds whether or not the bus is up.
			_ = s.eventPublisher.Publish(ctx, events.NewKBDocumentAddedEvent(doc.Id.String()))
		}
	}

	return &dto.IngestDocumentResponse{
		DocumentIds: ids,
		Chunks:      len(chunks),
	}, nil
}
