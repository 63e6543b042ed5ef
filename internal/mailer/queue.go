package mailer

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// QueueName is the durable RabbitMQ queue carrying outbound mail jobs.
const QueueName = "email.outbound"

// Queue publishes mail jobs to RabbitMQ instead of sending them inline.
// Publishing is the fire-and-forget boundary: once the broker accepts the
// job the request flow is done, and the consumer in internal/queue performs
// the actual SMTP delivery.
type Queue struct {
	url string
}

// NewQueue returns a Queue publishing to the broker at url.
func NewQueue(url string) *Queue {
	return &Queue{url: url}
}

// Send marshals msg and publishes it persistently to the email.outbound
// queue. Errors are logged and returned so callers can report a delivery
// problem without rolling back the work that triggered the mail.
func (q *Queue) Send(msg Message) error {
	conn, err := amqp.Dial(q.url)
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

	// Ensure the queue exists (idempotent). Durable so jobs survive broker restarts.
	if _, err := ch.QueueDeclare(QueueName, true, false, false, false, nil); err != nil {
		log.Printf("rabbitmq: queue declare failed: %v", err)
		return err
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", QueueName, false, false, pub); err != nil {
		log.Printf("rabbitmq: publish failed: %v", err)
		return err
	}
	return nil
}
