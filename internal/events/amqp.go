package events

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

const publishTimeout = 5 * time.Second

// AMQPPublisher publishes events to a durable topic exchange, routed by event name.
// A closed connection or channel is re-dialed on the next publish.
type AMQPPublisher struct {
	mu       sync.Mutex
	url      string
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	logger   zerolog.Logger
}

var _ Publisher = (*AMQPPublisher)(nil)

// NewAMQPPublisher connects to url and declares exchange.
func NewAMQPPublisher(url, exchange string, logger zerolog.Logger) (*AMQPPublisher, error) {
	p := &AMQPPublisher{
		url:      url,
		exchange: exchange,
		logger:   logger,
	}
	if err := p.connect(); err != nil {
		return nil, err
	}
	return p, nil
}

// connect dials the broker, opens a channel and declares the exchange. Callers hold mu
// or own p exclusively.
func (p *AMQPPublisher) connect() error {
	conn, err := amqp091.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		p.exchange, // name
		"topic",    // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return fmt.Errorf("declare exchange: %w", err)
	}

	closed := channel.NotifyClose(make(chan *amqp091.Error, 1))
	go func() {
		if amqpErr, ok := <-closed; ok && amqpErr != nil {
			p.logger.Warn().Str("reason", amqpErr.Reason).Int("code", amqpErr.Code).Msg("AMQP channel closed, will reconnect on next publish")
		}
	}()

	p.conn = conn
	p.channel = channel
	return nil
}

// ensureChannel re-dials when the channel or connection has gone away. Callers hold mu.
func (p *AMQPPublisher) ensureChannel() error {
	if p.channel != nil && !p.channel.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	if p.conn != nil && !p.conn.IsClosed() {
		p.conn.Close()
	}
	p.conn, p.channel = nil, nil
	if err := p.connect(); err != nil {
		return fmt.Errorf("reconnect: %w", err)
	}
	p.logger.Info().Str("exchange", p.exchange).Msg("AMQP publisher reconnected")
	return nil
}

// PublishTransaction publishes event as a persistent JSON message.
func (p *AMQPPublisher) PublishTransaction(ctx context.Context, event TransactionEvent) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannel(); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	err = p.channel.PublishWithContext(
		ctx,
		p.exchange,  // exchange
		event.Event, // routing key
		false,       // mandatory
		false,       // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.TransactionID.String(),
			Timestamp:    event.OccurredAt,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	p.logger.Debug().
		Str("event", event.Event).
		Str("transaction_id", event.TransactionID.String()).
		Str("exchange", p.exchange).
		Msg("published transaction event")
	return nil
}

// Close closes the channel and the connection.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
