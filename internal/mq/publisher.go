package mq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Publisher emits import lifecycle events so dashboards and operators see
// run outcomes without polling the store.
type Publisher struct {
	conn     *Connection
	channel  *amqp.Channel
	exchange string
	logger   *zap.Logger
}

// NewPublisher creates a new RabbitMQ publisher
func NewPublisher(conn *Connection, exchange string, logger *zap.Logger) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to create channel: %w", err)
	}

	// Declare exchange
	err = ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return &Publisher{
		conn:     conn,
		channel:  ch,
		exchange: exchange,
		logger:   logger,
	}, nil
}

// ImportCompletedEvent is published after an ingestion run finishes.
type ImportCompletedEvent struct {
	RequestID      string `json:"request_id"`
	Dataset        string `json:"dataset"`
	Actor          string `json:"actor,omitempty"`
	Processed      int    `json:"processed"`
	Skipped        int    `json:"skipped"`
	ParseFallbacks int    `json:"parse_fallbacks,omitempty"`
}

// PublishImportCompleted publishes one import completion event.
func (p *Publisher) PublishImportCompleted(ctx context.Context, event ImportCompletedEvent, routingKey string) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)

	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("published import completed event",
		zap.String("routing_key", routingKey),
		zap.String("request_id", event.RequestID),
		zap.String("dataset", event.Dataset),
		zap.Int("processed", event.Processed),
	)

	return nil
}

// Close closes the publisher channel
func (p *Publisher) Close() error {
	if p.channel != nil {
		return p.channel.Close()
	}
	return nil
}
