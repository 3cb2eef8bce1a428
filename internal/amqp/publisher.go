// Package amqp mirrors change messages onto a RabbitMQ topic exchange so
// other services can follow society activity without polling the API.
package amqp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/dukerupert/society/internal/events"
)

const (
	queueSize      = 256
	publishTimeout = 5 * time.Second
)

// channel is the subset of *amqp091.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
	Close() error
}

// Publisher implements events.Broadcaster. Broadcast only enqueues; Run
// drains the queue onto the exchange.
type Publisher struct {
	conn     *amqp091.Connection
	ch       channel
	exchange string
	queue    chan events.Message
	logger   *slog.Logger

	mu      sync.Mutex
	dropped int
}

// Dial connects to url and declares a durable topic exchange.
func Dial(url, exchange string, logger *slog.Logger) (*Publisher, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	p := newPublisher(ch, exchange, logger)
	p.conn = conn
	return p, nil
}

func newPublisher(ch channel, exchange string, logger *slog.Logger) *Publisher {
	return &Publisher{
		ch:       ch,
		exchange: exchange,
		queue:    make(chan events.Message, queueSize),
		logger:   logger,
	}
}

// Broadcast queues msg for publishing; it never blocks.
func (p *Publisher) Broadcast(msg events.Message) {
	select {
	case p.queue <- msg:
	default:
		p.mu.Lock()
		p.dropped++
		p.mu.Unlock()
		p.logger.Warn("publish queue full, dropping message", "type", msg.Type, "id", msg.ID)
	}
}

// Run publishes queued messages until ctx is cancelled. Publish errors are
// logged and the message is discarded.
func (p *Publisher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-p.queue:
			if err := p.publish(ctx, msg); err != nil {
				p.logger.Error("publish change message", "type", msg.Type, "id", msg.ID, "error", err)
			}
		}
	}
}

func (p *Publisher) publish(ctx context.Context, msg events.Message) error {
	body, err := encode(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.ch.PublishWithContext(
		ctx,
		p.exchange,       // exchange
		msg.RoutingKey(), // routing key
		false,            // mandatory
		false,            // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         msg.Type,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish message: %w", err)
	}

	p.logger.Debug("published change message", "type", msg.Type, "id", msg.ID, "exchange", p.exchange)
	return nil
}

func encode(msg events.Message) ([]byte, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}
	return body, nil
}

// Dropped returns how many messages were discarded on a full queue.
func (p *Publisher) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
