package queue

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher sends order events to a durable queue on the default exchange.
// Each publish uses its own connection; order creation is not hot enough
// to need a pooled channel.
type Publisher struct {
	url   string
	queue string
}

// NewPublisher returns a publisher for the given broker URL and queue.
func NewPublisher(url, queue string) *Publisher {
	return &Publisher{url: url, queue: queue}
}

// PublishOrderCreated publishes ev as persistent JSON.  Errors are logged
// and returned so the caller can ignore them.
func (p *Publisher) PublishOrderCreated(ctx context.Context, ev OrderCreatedEvent) error {
	body, err := json.Marshal(ev)
	if err != nil {
		log.Printf("rabbitmq: marshal event failed: %v", err)
		return err
	}

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Printf("rabbitmq: dial failed: %v", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Printf("rabbitmq: channel open failed: %v", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if err := declare(ch, p.queue); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	if err := ch.PublishWithContext(ctx, "", p.queue, false, false, newPublishing(body)); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}

func newPublishing(body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Type:         "order.created",
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
}

// declare makes sure the durable queue exists.  It is idempotent.
func declare(ch *amqp.Channel, name string) error {
	_, err := ch.QueueDeclare(name, true, false, false, false, nil)
	return err
}
