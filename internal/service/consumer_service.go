package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/embedding"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService backfills pain point embeddings from the channel bus.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	logger            logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		logger:            log,
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
	var payload dto.PublishEmbedPainPointMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // malformed messages are not retriable
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	repo := uow.PainPointRepository()

	pp, err := repo.FindOne(ctx, specification.ByID{ID: payload.PainPointId})
	if err != nil {
		cs.logger.Error("ConsumerService", "Failed to load pain point", map[string]interface{}{
			"painPointId": payload.PainPointId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	if pp == nil {
		// Deleted before the backfill ran.
		msg.Ack()
		return
	}

	text := embeddingText(pp.Title, pp.Description, pp.Quotes)
	resp, err := cs.embeddingProvider.Generate(text, "RETRIEVAL_DOCUMENT")
	if err != nil {
		cs.logger.Error("ConsumerService", "Embedding generation failed", map[string]interface{}{
			"painPointId": payload.PainPointId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	pp.Embedding = resp.Embedding.Values
	if err := repo.Update(ctx, pp); err != nil {
		cs.logger.Error("ConsumerService", "Failed to persist embedding", map[string]interface{}{
			"painPointId": payload.PainPointId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}

	cs.logger.Info("ConsumerService", "Pain point embedding backfilled", map[string]interface{}{
		"painPointId": payload.PainPointId,
		"dimensions":  len(pp.Embedding),
	})
	msg.Ack()
}

func embeddingText(title, description string, quotes []string) string {
	var sb strings.Builder
	sb.WriteString(title)
	sb.WriteString("\n\n")
	sb.WriteString(description)
	for _, q := range quotes {
		sb.WriteString("\n\nQuote: ")
		sb.WriteString(q)
	}
	return sb.String()
}
