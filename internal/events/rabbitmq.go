package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/cuongbtq/jobreel/shared/rabbitmq"
)

type messagePublisher interface {
	PublishWithRetry(ctx context.Context, msg rabbitmq.Message) error
}

// RabbitMQPublisher publishes events as persistent JSON messages
type RabbitMQPublisher struct {
	client messagePublisher
	logger *slog.Logger
}

func NewRabbitMQPublisher(client messagePublisher, logger *slog.Logger) *RabbitMQPublisher {
	return &RabbitMQPublisher{client: client, logger: logger}
}

func (p *RabbitMQPublisher) Publish(ctx context.Context, ev *PostingEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal posting event: %w", err)
	}

	msg := rabbitmq.Message{
		Body:        body,
		ContentType: "application/json",
		MessageID:   ev.EventID,
		Type:        string(ev.Kind),
	}
	if err := p.client.PublishWithRetry(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish posting event: %w", err)
	}

	p.logger.Info("Posting event published",
		slog.String("event_id", ev.EventID),
		slog.String("kind", string(ev.Kind)),
		slog.String("draft_id", ev.DraftID),
		slog.Int("success_count", ev.SuccessCount),
		slog.Int("total", ev.Total),
	)
	return nil
}
