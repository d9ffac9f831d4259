package notifier

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	config "github.com/Keoroanthony/go-inventory/configs"
)

type amqpPublisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AMQPSink publishes OrderCreated as JSON to a durable RabbitMQ queue.
type AMQPSink struct {
	conn    *amqp.Connection
	channel amqpPublisher
	queue   string
}

func NewAMQPSink(cfg config.AMQPConfig) (*AMQPSink, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open a channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.Queue, // name of the queue
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", cfg.Queue, err)
	}

	return &AMQPSink{conn: conn, channel: ch, queue: cfg.Queue}, nil
}

func (s *AMQPSink) Name() string { return "amqp" }

func (s *AMQPSink) Send(ctx context.Context, e OrderCreated) error {
	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode order event: %w", err)
	}
	err = s.channel.PublishWithContext(ctx,
		"",      // exchange
		s.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    e.OrderID,
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish order event: %w", err)
	}
	return nil
}

func (s *AMQPSink) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}
