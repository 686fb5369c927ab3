package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"ai-engine/internal/engine"
	"ai-engine/pkg/api"
)

// Replies are delivered over RabbitMQ's direct reply-to pseudo queue, which
// must be consumed in no-ack mode on the channel that publishes the request.
const directReplyTo = "amq.rabbitmq.reply-to"

func connectToRabbitMQ(url string) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	for i := 0; i < MaxConnectRetry; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			slog.Info("connected to rabbitmq")
			return conn, nil
		}
		slog.Warn("failed to connect to rabbitmq", "attempt", i+1, "max_attempts", MaxConnectRetry, "error", err)
		time.Sleep(RetryDelay)
	}
	slog.Error("failed to connect to rabbitmq", "attempts", MaxConnectRetry, "error", err)
	return nil, fmt.Errorf("failed to connect to rabbitmq after %d attempts: %w", MaxConnectRetry, err)
}

// RabbitMQClient invokes engine operations on workers listening on the engine
// queue and waits for their replies.
type RabbitMQClient struct {
	connLock   sync.RWMutex
	conn       *amqp.Connection
	channel    *amqp.Channel
	url        string
	queue      string
	destructor sync.Once

	pendingLock sync.Mutex
	pending     map[string]chan amqp.Delivery
}

var _ engine.Invoker = (*RabbitMQClient)(nil)

func NewRabbitMQClient(rabbitMQURL, queue string) (*RabbitMQClient, error) {
	c := &RabbitMQClient{url: rabbitMQURL, queue: queue, pending: make(map[string]chan amqp.Delivery)}
	if err := c.connect(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RabbitMQClient) connect() error {
	var err error
	c.conn, err = connectToRabbitMQ(c.url)
	if err != nil {
		return err
	}

	c.channel, err = c.conn.Channel()
	if err != nil {
		c.conn.Close()
		slog.Error("failed to open rabbitmq channel", "error", err)
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if _, err := c.channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to declare rabbitmq queue %s: %w", c.queue, err)
	}

	replies, err := c.channel.Consume(directReplyTo, "", true, false, false, false, nil)
	if err != nil {
		c.conn.Close()
		return fmt.Errorf("failed to consume from %s: %w", directReplyTo, err)
	}

	slog.Info("rabbitmq channel opened and engine queue declared")

	go c.dispatchReplies(replies)
	go c.handleReconnect(c.channel)

	return nil
}

func (c *RabbitMQClient) dispatchReplies(replies <-chan amqp.Delivery) {
	for d := range replies {
		c.pendingLock.Lock()
		waiter, ok := c.pending[d.CorrelationId]
		delete(c.pending, d.CorrelationId)
		c.pendingLock.Unlock()

		if !ok {
			slog.Warn("dropping reply with unknown correlation id", "correlation_id", d.CorrelationId)
			continue
		}
		waiter <- d
	}
}

func (c *RabbitMQClient) handleReconnect(channel *amqp.Channel) {
	notifyClose := make(chan *amqp.Error)
	channel.NotifyClose(notifyClose)

	err, ok := <-notifyClose
	if !ok { // channel is just closed on graceful close
		slog.Info("rabbitmq connection closed", "error", err)
		return
	}

	slog.Warn("rabbit connection closed, attempting to reconnect", "error", err)

	c.connLock.Lock() // This is to ensure that the connection is not used while we are reconnecting
	defer c.connLock.Unlock()

	c.channel = nil
	c.conn = nil
	for {
		if c.connect() == nil {
			slog.Info("successfully reconnected to rabbitmq.")
			return
		}
		time.Sleep(RetryDelay * 10)
	}
}

func (c *RabbitMQClient) await(correlationId string) chan amqp.Delivery {
	waiter := make(chan amqp.Delivery, 1)
	c.pendingLock.Lock()
	c.pending[correlationId] = waiter
	c.pendingLock.Unlock()
	return waiter
}

func (c *RabbitMQClient) forget(correlationId string) {
	c.pendingLock.Lock()
	delete(c.pending, correlationId)
	c.pendingLock.Unlock()
}

func (c *RabbitMQClient) publish(ctx context.Context, operation, correlationId string, data []byte) error {
	c.connLock.RLock()
	defer c.connLock.RUnlock()

	if c.channel == nil || c.channel.IsClosed() {
		return fmt.Errorf("rabbitmq connection is closed")
	}

	err := c.channel.PublishWithContext(ctx,
		"",      // exchange (default)
		c.queue, // routing key (queue name)
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:   "application/json",
			Type:          operation,
			CorrelationId: correlationId,
			ReplyTo:       directReplyTo,
			Body:          data,
		})
	if err != nil {
		slog.Error("failed to publish engine request, potential connection issue", "operation", operation, "error", err)
		return fmt.Errorf("failed to publish %s request: %w", operation, err)
	}
	return nil
}

func replyResult(d amqp.Delivery) ([]byte, error) {
	if kind, ok := d.Headers[ErrorKindHeader].(string); ok {
		message, _ := d.Headers[ErrorHeader].(string)
		return nil, engine.KindError(kind, message)
	}
	return d.Body, nil
}

func (c *RabbitMQClient) Invoke(ctx context.Context, operation string, data []byte) ([]byte, error) {
	correlationId := uuid.NewString()

	waiter := c.await(correlationId)
	defer c.forget(correlationId)

	if err := c.publish(ctx, operation, correlationId, data); err != nil {
		return nil, err
	}

	select {
	case d := <-waiter:
		return replyResult(d)
	case <-ctx.Done():
		return nil, fmt.Errorf("waiting for %s reply: %w", operation, ctx.Err())
	}
}

func (c *RabbitMQClient) ListOperations(ctx context.Context) ([]string, error) {
	data, err := c.Invoke(ctx, ListOperationsType, nil)
	if err != nil {
		return nil, err
	}
	var res api.ListOperationsResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("error parsing list operations reply: %w", err)
	}
	return res.Operations, nil
}

func (c *RabbitMQClient) Close() {
	c.destructor.Do(func() {
		c.connLock.RLock()
		defer c.connLock.RUnlock()
		if c.conn == nil {
			return
		}
		if err := c.conn.Close(); err != nil {
			slog.Error("error closing rabbitmq connection", "error", err)
		}
	})
}

type RabbitMQTask struct {
	d       amqp.Delivery
	channel *amqp.Channel
}

func (t *RabbitMQTask) Type() string {
	return t.d.Type
}

func (t *RabbitMQTask) Payload() []byte {
	return t.d.Body
}

func (t *RabbitMQTask) Reply(ctx context.Context, data []byte, err error) error {
	if t.d.ReplyTo == "" {
		return nil
	}

	msg := amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: t.d.CorrelationId,
		Body:          data,
	}
	if err != nil {
		msg.Body = nil
		msg.Headers = amqp.Table{
			ErrorKindHeader: engine.ErrorKind(err),
			ErrorHeader:     err.Error(),
		}
	}

	if err := t.channel.PublishWithContext(ctx, "", t.d.ReplyTo, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish reply: %w", err)
	}
	return nil
}

func (t *RabbitMQTask) Ack() error {
	return t.d.Ack(false)
}

// Requests are not requeued: the caller has either received an error reply or
// timed out waiting.
func (t *RabbitMQTask) Nack() error {
	return t.d.Nack(false, false)
}

type RabbitMQReceiver struct {
	tasks    chan Task
	url      string
	queue    string
	prefetch int
	stop     chan struct{}
	stopOnce sync.Once
}

var _ Reciever = (*RabbitMQReceiver)(nil)

func NewRabbitMQReceiver(rabbitMQURL, queue string, prefetch int) (*RabbitMQReceiver, error) {
	c := &RabbitMQReceiver{
		tasks:    make(chan Task),
		url:      rabbitMQURL,
		queue:    queue,
		prefetch: max(prefetch, 1),
		stop:     make(chan struct{}),
	}

	if err := c.receiveTasks(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *RabbitMQReceiver) consume(msgs <-chan amqp.Delivery, channel *amqp.Channel) {
	for d := range msgs {
		select {
		case c.tasks <- &RabbitMQTask{d: d, channel: channel}:
		case <-c.stop:
			return
		}
	}
}

func (c *RabbitMQReceiver) receiveTasks() error {
	conn, err := connectToRabbitMQ(c.url)
	if err != nil {
		return err
	}
	channel, err := conn.Channel()
	if err != nil {
		slog.Error("failed to open rabbitmq channel", "error", err)
		conn.Close()
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	if err := channel.Qos(c.prefetch, 0, false); err != nil {
		slog.Error("failed to set channel qos", "error", err)
		conn.Close()
		return fmt.Errorf("failed to set channel qos: %w", err)
	}

	if _, err := channel.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
		conn.Close()
		return fmt.Errorf("failed to declare rabbitmq queue %s: %w", c.queue, err)
	}

	msgs, err := channel.Consume(c.queue, "", false, false, false, false, nil)
	if err != nil {
		slog.Error("failed to consume from rabbitmq queue", "queue", c.queue, "error", err)
		conn.Close()
		return fmt.Errorf("failed to consume from rabbitmq queue %s: %w", c.queue, err)
	}

	go c.consume(msgs, channel)
	go c.handleReconnect(conn, channel)

	return nil
}

func (c *RabbitMQReceiver) handleReconnect(conn *amqp.Connection, channel *amqp.Channel) {
	notifyClose := make(chan *amqp.Error)
	channel.NotifyClose(notifyClose)

	select {
	case err, ok := <-notifyClose:
		if !ok { // channel is just closed on graceful close
			slog.Info("rabbitmq connection closed", "error", err)
			return
		}

		slog.Warn("rabbit connection closed, attempting to reconnect", "error", err)

		for {
			if c.receiveTasks() == nil {
				slog.Info("successfully restarted rabbitmq consumer")
				return
			}
			time.Sleep(RetryDelay * 10)
		}
	case <-c.stop:
		slog.Info("stopping rabbitmq consumer")
		if err := conn.Close(); err != nil {
			slog.Error("error closing rabbitmq conn", "error", err)
		}
		return
	}
}

func (c *RabbitMQReceiver) Tasks() <-chan Task {
	return c.tasks
}

func (c *RabbitMQReceiver) Close() {
	c.stopOnce.Do(func() { close(c.stop) })
}
