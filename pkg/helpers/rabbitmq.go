package helpers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ErrQueueUnavailable is returned while the broker connection is down.
var ErrQueueUnavailable = errors.New("rabbitmq: not connected")

const maxRedialDelay = 30 * time.Second

// amqpChannel is the part of *amqp.Channel the queue uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type amqpConnection interface {
	channel() (amqpChannel, error)
	notifyClose() <-chan *amqp.Error
	Close() error
}

type dialedConn struct{ *amqp.Connection }

func (c dialedConn) channel() (amqpChannel, error) {
	ch, err := c.Channel()
	if err != nil {
		return nil, err
	}
	return ch, nil
}

func (c dialedConn) notifyClose() <-chan *amqp.Error {
	return c.NotifyClose(make(chan *amqp.Error, 1))
}

func dialAMQP(url string) (amqpConnection, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	return dialedConn{conn}, nil
}

// RabbitQueue owns an AMQP connection and channel bound to one durable queue.
// It is used both to publish jobs from the API and to consume them in the worker.
// A lost connection is redialled in the background with capped backoff.
type RabbitQueue struct {
	Queue string

	url        string
	dial       func(url string) (amqpConnection, error)
	logger     *logrus.Logger
	retryDelay time.Duration

	mu   sync.RWMutex
	conn amqpConnection
	ch   amqpChannel

	done      chan struct{}
	closeOnce sync.Once
}

func DialRabbitQueue(url, queue string, logger *logrus.Logger) (*RabbitQueue, error) {
	return dialRabbitQueue(url, queue, logger, dialAMQP, time.Second)
}

func dialRabbitQueue(url, queue string, logger *logrus.Logger, dial func(string) (amqpConnection, error), retryDelay time.Duration) (*RabbitQueue, error) {
	q := &RabbitQueue{
		Queue:      queue,
		url:        url,
		dial:       dial,
		logger:     logger,
		retryDelay: retryDelay,
		done:       make(chan struct{}),
	}
	if err := q.connect(); err != nil {
		return nil, err
	}
	return q, nil
}

func (q *RabbitQueue) connect() error {
	conn, err := q.dial(q.url)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}
	// durable, not auto-deleted, not exclusive
	if _, err := ch.QueueDeclare(q.Queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("queue declare: %w", err)
	}

	q.mu.Lock()
	select {
	case <-q.done:
		q.mu.Unlock()
		_ = ch.Close()
		_ = conn.Close()
		return nil
	default:
	}
	q.conn, q.ch = conn, ch
	q.mu.Unlock()

	go q.watch(conn.notifyClose())
	return nil
}

// watch waits for the connection to drop and redials until it succeeds or
// the queue is closed.
func (q *RabbitQueue) watch(closed <-chan *amqp.Error) {
	var reason *amqp.Error
	select {
	case <-q.done:
		return
	case reason = <-closed:
	}
	select {
	case <-q.done:
		return
	default:
	}

	q.mu.Lock()
	q.conn, q.ch = nil, nil
	q.mu.Unlock()

	entry := q.logger.WithField("queue", q.Queue)
	if reason != nil {
		entry = entry.WithFields(logrus.Fields{"code": reason.Code, "reason": reason.Reason})
	}
	entry.Error("rabbitmq connection lost, reconnecting")

	delay := q.retryDelay
	for {
		select {
		case <-q.done:
			return
		case <-time.After(delay):
		}
		if err := q.connect(); err != nil {
			q.logger.WithError(err).WithField("queue", q.Queue).Warn("rabbitmq redial failed")
			delay = min(delay*2, maxRedialDelay)
			continue
		}
		q.logger.WithField("queue", q.Queue).Info("rabbitmq reconnected")
		return
	}
}

func (q *RabbitQueue) channel() (amqpChannel, error) {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.ch == nil {
		return nil, ErrQueueUnavailable
	}
	return q.ch, nil
}

func (q *RabbitQueue) Close() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() { close(q.done) })

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.ch != nil {
		_ = q.ch.Close()
	}
	if q.conn != nil {
		_ = q.conn.Close()
	}
	q.conn, q.ch = nil, nil
}

// PublishJSON publishes a persistent JSON message to the queue via the default exchange.
func (q *RabbitQueue) PublishJSON(ctx context.Context, body any) error {
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	ch, err := q.channel()
	if err != nil {
		return err
	}
	return ch.PublishWithContext(ctx, "", q.Queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         b,
	})
}

// Consume starts a manual-ack consumer with the given prefetch. The delivery
// channel closes when the connection drops; call Consume again to resume.
func (q *RabbitQueue) Consume(prefetch int) (<-chan amqp.Delivery, error) {
	ch, err := q.channel()
	if err != nil {
		return nil, err
	}
	if err := ch.Qos(prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("qos: %w", err)
	}
	return ch.Consume(q.Queue, "", false, false, false, false, nil)
}
