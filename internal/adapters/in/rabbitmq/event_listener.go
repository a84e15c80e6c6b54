package rabbitmq

import (
	"context"
	"encoding/json"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suchimauz/booking-calendar-service/internal/config"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/in"
	"github.com/suchimauz/booking-calendar-service/internal/core/ports/out"
)

// EventListener слушает сообщения об изменении событий от других писателей
// хранилища и сбрасывает локальный кэш. Хирургически патчить корзины по
// сообщению не пытаемся - дешевле перечитать.
type EventListener struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	useCase in.CalendarUseCase
	cfg     *config.Config
	logger  out.LoggerPort
}

type EventChangeMessage struct {
	Action  string `json:"action"`
	EventID string `json:"eventId,omitempty"`
}

func NewEventListener(useCase in.CalendarUseCase, cfg *config.Config, logger out.LoggerPort) (*EventListener, error) {
	if !cfg.RabbitMQ.Enabled {
		logger.Info("rabbitmq.disabled", out.LogFields{
			"message": "RabbitMQ is disabled, listener will not be started",
		})
		return nil, nil
	}

	conn, err := amqp.Dial(cfg.RabbitMQ.URL)
	if err != nil {
		logger.Error("rabbitmq.connect.failed", out.LogFields{
			"error": err.Error(),
			"url":   cfg.RabbitMQ.URL,
		})
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		logger.Error("rabbitmq.channel.failed", out.LogFields{
			"error": err.Error(),
		})
		return nil, err
	}

	return &EventListener{
		conn:    conn,
		channel: channel,
		useCase: useCase,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

func (l *EventListener) Start(ctx context.Context) error {
	queue, err := l.channel.QueueDeclare(
		l.cfg.RabbitMQ.Queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	msgs, err := l.channel.Consume(
		queue.Name,
		"",    // consumer
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,   // args
	)
	if err != nil {
		return err
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				if err := l.processMessage(ctx, msg); err != nil {
					l.logger.Warn("rabbitmq.message.process_failed", out.LogFields{
						"error": err.Error(),
					})
					msg.Nack(false, false)
					continue
				}
				msg.Ack(false)
			}
		}
	}()

	l.logger.Info("rabbitmq.listener.started", out.LogFields{
		"queue": queue.Name,
	})
	return nil
}

func (l *EventListener) processMessage(ctx context.Context, msg amqp.Delivery) error {
	var change EventChangeMessage
	if err := json.Unmarshal(msg.Body, &change); err != nil {
		return err
	}

	// Любое изменение событий снаружи делает кэш подозрительным целиком
	l.useCase.InvalidateEventsCache(ctx)

	l.logger.Info("rabbitmq.events.invalidated", out.LogFields{
		"action":  change.Action,
		"eventId": change.EventID,
	})
	return nil
}

func (l *EventListener) Stop() error {
	if l.channel != nil {
		if err := l.channel.Close(); err != nil {
			return err
		}
	}
	if l.conn != nil {
		return l.conn.Close()
	}
	return nil
}
