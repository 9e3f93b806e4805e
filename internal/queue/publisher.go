package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// AssignmentQueueName is the durable queue carrying AssignmentChangedEvent.
const AssignmentQueueName = "lift.assignment.changed"

// Publisher sends assignment events to RabbitMQ.  A connection is opened
// per publish; assignment changes are rare compared to board reads.
type Publisher struct {
	url    string
	logger *zap.Logger
}

// NewPublisher returns a Publisher for the given broker URL.
func NewPublisher(url string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{url: url, logger: logger}
}

// PublishAssignmentChanged publishes the event to the
// "lift.assignment.changed" queue as a persistent message.  Any error is
// logged and returned so the caller can choose to ignore it.
func (p *Publisher) PublishAssignmentChanged(ctx context.Context, event AssignmentChangedEvent) error {
	log := p.logger.With(zap.String("queue", AssignmentQueueName), zap.String("assignment_id", event.AssignmentID))

	conn, err := amqp.Dial(p.url)
	if err != nil {
		log.Warn("rabbitmq dial failed", zap.Error(err))
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Warn("rabbitmq channel open failed", zap.Error(err))
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := declareAssignmentQueue(ch); err != nil {
		log.Warn("rabbitmq queue declare failed", zap.Error(err))
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		log.Warn("marshal assignment event failed", zap.Error(err))
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		Type:         event.Action,
		Body:         body,
	}
	// default exchange, routing key = queue name
	if err := ch.PublishWithContext(ctx, "", AssignmentQueueName, false, false, pub); err != nil {
		log.Warn("rabbitmq publish failed", zap.Error(err))
		return err
	}
	return nil
}

// declareAssignmentQueue is idempotent.  Durable so messages survive broker restarts.
func declareAssignmentQueue(ch *amqp.Channel) (amqp.Queue, error) {
	return ch.QueueDeclare(AssignmentQueueName, true, false, false, false, nil)
}
