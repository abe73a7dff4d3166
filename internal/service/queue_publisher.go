package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/fake-news-api/internal/queue"
)

// PredictionPublisher publishes PredictionCompletedEvent messages to the
// prediction.completed queue. Each call dials the broker; failures are
// returned for the caller to log.
type PredictionPublisher struct {
	URL string
}

// Record implements Recorder.
func (p *PredictionPublisher) Record(ctx context.Context, rec PredictionRecord) error {
	return p.Publish(ctx, toEvent(rec))
}

// Publish sends event as a persistent JSON message.
func (p *PredictionPublisher) Publish(ctx context.Context, event queue.PredictionCompletedEvent) error {
	conn, err := amqp.Dial(p.URL)
	if err != nil {
		return fmt.Errorf("rabbitmq dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := queue.DeclarePredictionQueue(ch); err != nil {
		return fmt.Errorf("rabbitmq declare queue: %w", err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("rabbitmq marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.RequestID,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}

	if err := ch.PublishWithContext(ctx,
		"",                        // default exchange
		queue.PredictionQueueName, // routing key = queue name
		false,                     // mandatory
		false,                     // immediate
		pub,
	); err != nil {
		return fmt.Errorf("rabbitmq publish: %w", err)
	}
	return nil
}
