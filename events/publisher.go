package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"wastewise-backend/models"
	"wastewise-backend/utils/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher delivers pickup lifecycle events to downstream consumers
type Publisher interface {
	Publish(ctx context.Context, event *models.PickupEvent) error
	Close() error
}

// confirmation is a single publish's pending broker confirm
type confirmation interface {
	WaitContext(ctx context.Context) (bool, error)
}

// confirmingChannel publishes one message and hands back the confirm for
// exactly that delivery tag
type confirmingChannel interface {
	PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error)
	Close() error
}

type amqpChannel struct {
	*amqp.Channel
}

func (c amqpChannel) PublishConfirmed(ctx context.Context, exchange, key string, msg amqp.Publishing) (confirmation, error) {
	dc, err := c.PublishWithDeferredConfirmWithContext(ctx, exchange, key, false, false, msg)
	if err != nil {
		return nil, err
	}
	if dc == nil {
		return nil, errors.New("channel is not in confirm mode")
	}
	return dc, nil
}

// RabbitMQPublisher publishes persistent JSON messages to a topic exchange
// and waits for the broker's confirm before returning.
type RabbitMQPublisher struct {
	conn     *amqp.Connection
	ch       confirmingChannel
	exchange string
	logger   logger.Logger
}

// NewRabbitMQPublisher dials the broker, declares the exchange and enables publisher confirms
func NewRabbitMQPublisher(url, exchange string, log logger.Logger) (*RabbitMQPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	if err := ch.Confirm(false); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("failed to enable publisher confirms: %w", err)
	}

	log.Infof("Connected to RabbitMQ, publishing to exchange %s", exchange)
	return &RabbitMQPublisher{
		conn:     conn,
		ch:       amqpChannel{ch},
		exchange: exchange,
		logger:   log,
	}, nil
}

// Publish sends event and blocks until the broker confirms that delivery.
// A confirm arriving after ctx is done is discarded with its own delivery.
func (p *RabbitMQPublisher) Publish(ctx context.Context, event *models.PickupEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	conf, err := p.ch.PublishConfirmed(ctx, p.exchange, event.Type, amqp.Publishing{
		DeliveryMode: amqp.Persistent,
		ContentType:  "application/json",
		MessageId:    event.EventID,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}

	acked, err := conf.WaitContext(ctx)
	if err != nil {
		return err
	}
	if !acked {
		return fmt.Errorf("broker nacked %s for pickup %s", event.Type, event.PickupID)
	}
	p.logger.Debugf("Published %s for pickup %s", event.Type, event.PickupID)
	return nil
}

func (p *RabbitMQPublisher) Close() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
	}
	return errors.Join(errs...)
}

// NoopPublisher drops every event. Used when messaging is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, event *models.PickupEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }

// NewPublisher returns a RabbitMQ publisher when enabled in cfg, otherwise a no-op
func NewPublisher(cfg *models.Config, log logger.Logger) (Publisher, error) {
	if !cfg.RabbitMQEnabled {
		log.Info("Event publishing disabled")
		return NoopPublisher{}, nil
	}
	return NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange, log)
}
