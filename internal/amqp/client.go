// Package amqp connects the service to the ledger-sync broker. The server
// publishes payment events; the worker consumes them and mirrors the rows.
package amqp

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const publishTimeout = 5 * time.Second

// Client wraps one connection and channel bound to the payment-sync queue.
type Client struct {
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// NewClient dials the broker and declares the durable exchange, queue and
// binding. The routing key is the queue name.
func NewClient(url, exchange, queue string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	c := &Client{conn: conn, channel: channel, exchange: exchange, queue: queue}
	if err := c.declareTopology(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) declareTopology() error {
	if err := c.channel.ExchangeDeclare(c.exchange, "direct", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange %q: %w", c.exchange, err)
	}
	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue %q: %w", c.queue, err)
	}
	if err := c.channel.QueueBind(c.queue, c.queue, c.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue %q: %w", c.queue, err)
	}
	return nil
}

// PublishPaymentEvent sends a persistent upsert/delete event for paymentID.
func (c *Client) PublishPaymentEvent(ctx context.Context, paymentID, op string) error {
	body, err := NewPaymentEventMessage(paymentID, op).ToJSON()
	if err != nil {
		return fmt.Errorf("marshal payment event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = c.channel.PublishWithContext(ctx, c.exchange, c.queue, false, false, amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish payment event: %w", err)
	}

	slog.InfoContext(ctx, "Published payment event", "payment_id", paymentID, "op", op)
	return nil
}

// ConsumePaymentEvents delivers queued events to handler until ctx is
// cancelled. Undecodable messages are dropped; handler failures are
// requeued.
func (c *Client) ConsumePaymentEvents(ctx context.Context, handler func(*PaymentEventMessage) error) error {
	deliveries, err := c.channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("start consuming: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed")
			}
			msg, err := PaymentEventMessageFromJSON(d.Body)
			if err != nil {
				slog.ErrorContext(ctx, "Dropping undecodable payment event", "error", err)
				d.Nack(false, false)
				continue
			}
			if err := handler(msg); err != nil {
				slog.ErrorContext(ctx, "Payment event handling failed, requeueing",
					"error", err, "payment_id", msg.PaymentID, "op", msg.Op)
				d.Nack(false, true)
				continue
			}
			d.Ack(false)
			slog.InfoContext(ctx, "Mirrored payment event", "payment_id", msg.PaymentID, "op", msg.Op)
		}
	}
}

func (c *Client) Close() error {
	if c.channel != nil {
		c.channel.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}
