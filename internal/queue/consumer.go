package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Consumer listens to the lift.assignment.changed queue and appends one
// line per event to <dir>/lift_board.log, giving the shop an audit trail
// of who moved which car.
type Consumer struct {
	url    string
	dir    string
	logger *zap.Logger
}

// NewConsumer returns a Consumer writing into dir ("logs" when empty).
func NewConsumer(url, dir string, logger *zap.Logger) *Consumer {
	if dir == "" {
		dir = "logs"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Consumer{url: url, dir: dir, logger: logger}
}

// Run connects to RabbitMQ and consumes until ctx is cancelled.  Broken
// connections are retried with exponential backoff capped at 30s.
// Messages that cannot be handled are rejected without requeue so a bad
// payload cannot spin the consumer.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		conn, err := amqp.Dial(c.url)
		if err != nil {
			c.logger.Warn("assignment consumer: dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("assignment consumer: consume loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.logger.Warn("assignment consumer: set QoS failed", zap.Error(err))
	}
	if _, err := declareAssignmentQueue(ch); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(AssignmentQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			if err := c.handleMessage(d.Body); err != nil {
				c.logger.Error("assignment consumer: handle message failed", zap.Error(err))
				_ = d.Nack(false, false)
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (c *Consumer) handleMessage(body []byte) error {
	var ev AssignmentChangedEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(filepath.Join(c.dir, "lift_board.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatLogLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatLogLine renders an event as a single human friendly log line
// terminated by a newline.
func FormatLogLine(ev AssignmentChangedEvent) string {
	lift := "-"
	if ev.LiftID != nil && *ev.LiftID != "" {
		lift = *ev.LiftID
	}
	window := "-"
	if ev.ScheduledStart != "" || ev.ScheduledEnd != "" {
		window = ev.ScheduledStart + ".." + ev.ScheduledEnd
	}
	by := ev.ChangedBy
	if by == "" {
		by = "system"
	}
	return fmt.Sprintf("[%s] Lift assignment %s | assignment_id=%s | order_id=%s | lift=%s | window=%s | waiting_for_parts=%t | by=%s\n",
		ev.ChangedAt, ev.Action, ev.AssignmentID, ev.RepairOrderID, lift, window, ev.WaitingForParts, by)
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
