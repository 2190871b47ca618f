package service

import (
	"context"
	"encoding/json"
	"log"

	"helpdesk-ai-be/internal/dto"
	"helpdesk-ai-be/internal/repository/specification"
	"helpdesk-ai-be/internal/repository/unitofwork"
	"helpdesk-ai-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embed queue: for each queued chunk it generates
// a vector and backfills the row. Until then the chunk is invisible to
// retrieval (SearchSimilar skips NULL embeddings).
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal embed message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.KBDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get kb document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if doc == nil {
		log.Printf("[ERROR] KB document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	res, err := cs.embeddingProvider.Generate(doc.Content, embedding.TaskRetrievalDocument)
	if err != nil {
		log.Printf("[ERROR] Failed to generate embedding for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	if err := uow.KBDocumentRepository().UpdateEmbedding(ctx, doc.Id, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for document %s: %v", doc.Id, err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] KB document embedded: %s (%s)", doc.Id, doc.Title)
	msg.Ack()
}
