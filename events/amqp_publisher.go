package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// dialTimeout bounds the TCP connect and AMQP handshake when the caller's
// context carries no earlier deadline.
const dialTimeout = 5 * time.Second

// AMQPPublisher sends events to a durable RabbitMQ queue, opening a
// connection per publish.
type AMQPPublisher struct {
	url   string
	queue string
}

var _ Publisher = (*AMQPPublisher)(nil)

func NewAMQPPublisher(url, queue string) *AMQPPublisher {
	if queue == "" {
		queue = BookingConfirmedType
	}
	return &AMQPPublisher{url: url, queue: queue}
}

func (p *AMQPPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("[AMQPPublisher] marshal event: %w", err)
	}
	return p.publish(ctx, body)
}

func (p *AMQPPublisher) publish(ctx context.Context, body []byte) error {
	timeout, err := handshakeTimeout(ctx)
	if err != nil {
		return fmt.Errorf("[AMQPPublisher] dial: %w", err)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(timeout),
	})
	if err != nil {
		return fmt.Errorf("[AMQPPublisher] dial: %w", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("[AMQPPublisher] open channel: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(
		p.queue, // name
		true,    // durable
		false,   // autoDelete
		false,   // exclusive
		false,   // noWait
		nil,     // args
	); err != nil {
		return fmt.Errorf("[AMQPPublisher] declare queue %s: %w", p.queue, err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         BookingConfirmedType,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, msg); err != nil {
		return fmt.Errorf("[AMQPPublisher] publish: %w", err)
	}
	return nil
}

// handshakeTimeout is the shorter of dialTimeout and the time left on ctx.
func handshakeTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	timeout := dialTimeout
	if deadline, ok := ctx.Deadline(); ok {
		left := time.Until(deadline)
		if left <= 0 {
			return 0, context.DeadlineExceeded
		}
		if left < timeout {
			timeout = left
		}
	}
	return timeout, nil
}
