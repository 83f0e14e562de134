package broker

import (
	"context"
	"fmt"
	"log"
	"route-dispatch-service/internal/domain"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	defaultWorkQueue = "route.optimize"
	replyDeadline    = 30 * time.Second
)

// AMQPOptimizer ships stop sets to the external optimization worker over
// a RabbitMQ work queue and awaits the correlated reply on an exclusive,
// anonymous reply queue.
//
// Each Optimize call acquires its own channel and releases it on every
// exit path, timeout included; closing the channel also deletes the
// exclusive reply queue, so a timed-out request leaks nothing a retry
// could observe.
type AMQPOptimizer struct {
	url       string
	workQueue string
	deadline  time.Duration

	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPOptimizer(url string) *AMQPOptimizer {
	return &AMQPOptimizer{
		url:       url,
		workQueue: defaultWorkQueue,
		deadline:  replyDeadline,
	}
}

// channel returns a fresh channel, dialing (or re-dialing after a broker
// restart) as needed.
func (o *AMQPOptimizer) channel() (*amqp.Channel, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.conn == nil || o.conn.IsClosed() {
		conn, err := amqp.Dial(o.url)
		if err != nil {
			return nil, fmt.Errorf("dial broker: %v: %w", err, domain.ErrTransport)
		}
		o.conn = conn
	}

	ch, err := o.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %v: %w", err, domain.ErrTransport)
	}
	return ch, nil
}

// Optimize publishes the stop set and blocks until the correlated reply
// arrives or the deadline passes.
func (o *AMQPOptimizer) Optimize(
	ctx context.Context,
	stops []domain.Stop,
	numberDrivers int,
	returnToStart bool,
) ([]domain.Stop, error) {
	payload, err := encodeRequest(stops, numberDrivers, returnToStart)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	ch, err := o.channel()
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(o.workQueue, true, false, false, false, nil); err != nil {
		return nil, fmt.Errorf("optimize: declare work queue: %v: %w", err, domain.ErrTransport)
	}

	// Anonymous, exclusive, auto-delete reply queue scoped to this channel.
	replyQueue, err := ch.QueueDeclare("", false, true, true, false, nil)
	if err != nil {
		return nil, fmt.Errorf("optimize: declare reply queue: %v: %w", err, domain.ErrTransport)
	}

	deliveries, err := ch.ConsumeWithContext(ctx, replyQueue.Name, "", false, true, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("optimize: consume reply queue: %v: %w", err, domain.ErrTransport)
	}

	correlationID := uuid.NewString()

	err = ch.PublishWithContext(ctx, "", o.workQueue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		ReplyTo:       replyQueue.Name,
		Body:          payload,
	})
	if err != nil {
		return nil, fmt.Errorf("optimize: publish: %v: %w", err, domain.ErrTransport)
	}

	reply, err := awaitReply(ctx, deliveries, correlationID, o.deadline)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	features, err := decodeReply(reply.Body)
	if err != nil {
		return nil, fmt.Errorf("optimize: %w", err)
	}

	return reconcile(stops, features), nil
}

// awaitReply consumes the reply stream until a correlation match, the
// deadline, or cancellation. Messages bearing a foreign correlation id
// (stale replies from an earlier request sharing the channel) are
// rejected back to the queue, not dropped; the matching reply is
// acknowledged before being returned.
func awaitReply(
	ctx context.Context,
	deliveries <-chan amqp.Delivery,
	correlationID string,
	deadline time.Duration,
) (amqp.Delivery, error) {
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return amqp.Delivery{}, ctx.Err()

		case <-timer.C:
			return amqp.Delivery{}, domain.ErrTimeout

		case d, ok := <-deliveries:
			if !ok {
				return amqp.Delivery{}, fmt.Errorf("reply stream closed: %w", domain.ErrTransport)
			}
			if d.CorrelationId != correlationID {
				if err := d.Reject(true); err != nil {
					log.Printf("broker: reject stale reply correlation_id=%s: %v", d.CorrelationId, err)
				}
				continue
			}
			if err := d.Ack(false); err != nil {
				return amqp.Delivery{}, fmt.Errorf("ack reply: %v: %w", err, domain.ErrTransport)
			}
			return d, nil
		}
	}
}

// Close releases the broker connection.
func (o *AMQPOptimizer) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.conn == nil {
		return nil
	}
	err := o.conn.Close()
	o.conn = nil
	return err
}
