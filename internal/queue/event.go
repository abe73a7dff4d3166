// Package queue defines message payloads exchanged over the message broker.
package queue

import amqp "github.com/rabbitmq/amqp091-go"

// PredictionQueueName is the durable queue carrying prediction events.
const PredictionQueueName = "prediction.completed"

// PredictionCompletedEvent is published after /predict answers successfully.
// It carries the outcome and input sizes, never the submitted text.
type PredictionCompletedEvent struct {
	RequestID        string  `json:"request_id"`
	Prediction       string  `json:"prediction"`
	Class            int     `json:"class"`
	Confidence       float64 `json:"confidence"`
	TextLength       int     `json:"text_length"`
	NormalizedLength int     `json:"normalized_length"`
	CompletedAt      string  `json:"completed_at"`
}

// DeclarePredictionQueue declares the durable prediction queue. It is
// idempotent and shared by the publisher and the consumer.
func DeclarePredictionQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(
		PredictionQueueName, // name
		true,                // durable
		false,               // autoDelete
		false,               // exclusive
		false,               // noWait
		nil,                 // args
	)
}
