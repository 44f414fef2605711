// Package amqppush delivers platform notifications through a RabbitMQ
// exchange. Subscribing binds a durable queue; each notification is published
// as a persistent JSON message for whatever displays them downstream.
package amqppush

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/tmeta22/MetaHouse/internal/platform"
)

type Client struct {
	conn         *amqp091.Connection
	channel      *amqp091.Channel
	exchangeName string
	queueName    string
	subscribed   bool
}

var _ platform.Pusher = (*Client)(nil)

func NewClient(url, exchangeName, queueName string) (*Client, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	client := &Client{
		conn:         conn,
		channel:      channel,
		exchangeName: exchangeName,
		queueName:    queueName,
	}

	if err := client.setup(); err != nil {
		client.Close()
		return nil, fmt.Errorf("setup exchange: %w", err)
	}

	return client, nil
}

func (c *Client) setup() error {
	err := c.channel.ExchangeDeclare(
		c.exchangeName, // name
		"direct",       // type
		true,           // durable
		false,          // auto-deleted
		false,          // internal
		false,          // no-wait
		nil,            // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}

func (c *Client) Supported() bool {
	return c.conn != nil && !c.conn.IsClosed()
}

// RequestPermission is granted by holding a broker connection; there is no
// interactive consent step on this platform.
func (c *Client) RequestPermission(_ context.Context) (bool, error) {
	if !c.Supported() {
		return false, platform.ErrUnsupported
	}
	return true, nil
}

// Subscribe declares the durable delivery queue and binds it to the
// exchange. The queue name doubles as the opaque subscription handle.
func (c *Client) Subscribe(ctx context.Context) (string, error) {
	if !c.Supported() {
		return "", platform.ErrUnsupported
	}

	_, err := c.channel.QueueDeclare(
		c.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		return "", fmt.Errorf("declare queue: %w", err)
	}

	err = c.channel.QueueBind(
		c.queueName,    // queue name
		c.queueName,    // routing key
		c.exchangeName, // exchange
		false,
		nil,
	)
	if err != nil {
		return "", fmt.Errorf("bind queue: %w", err)
	}

	c.subscribed = true
	slog.InfoContext(ctx, "Push queue bound",
		"queue", c.queueName,
		"exchange", c.exchangeName)
	return c.queueName, nil
}

func (c *Client) Unsubscribe(ctx context.Context) error {
	if !c.Supported() {
		return platform.ErrUnsupported
	}
	if err := c.channel.QueueUnbind(c.queueName, c.queueName, c.exchangeName, nil); err != nil {
		return fmt.Errorf("unbind queue: %w", err)
	}
	c.subscribed = false
	slog.InfoContext(ctx, "Push queue unbound", "queue", c.queueName)
	return nil
}

// SendLocal publishes one notification payload to the exchange.
func (c *Client) SendLocal(ctx context.Context, p platform.Payload) error {
	if !c.Supported() {
		return platform.ErrUnsupported
	}

	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = c.channel.PublishWithContext(
		ctx,
		c.exchangeName, // exchange
		c.queueName,    // routing key
		false,          // mandatory
		false,          // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish payload: %w", err)
	}

	slog.DebugContext(ctx, "Published platform notification",
		"title", p.Title,
		"exchange", c.exchangeName,
		"queue", c.queueName)
	return nil
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
