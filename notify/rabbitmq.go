package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RabbitMQ publishes messages as persistent JSON to a durable queue.
type RabbitMQ struct {
	Channel *amqp091.Channel
	Queue   string
	Log     *zap.Logger
}

// NewRabbitMQ opens a channel on conn and declares queue.
func NewRabbitMQ(conn *amqp091.Connection, logger *zap.Logger, queue string) (*RabbitMQ, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}
	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		ch.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
	}
	return &RabbitMQ{Channel: ch, Queue: queue, Log: logger}, nil
}

func (r *RabbitMQ) Publish(ctx context.Context, msg Message) error {
	body, err := json.Marshal(msg)
	if err != nil {
		r.Log.Error("notify.RabbitMQ.Publish error marshaling JSON", zap.Error(err))
		return err
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Headers: amqp091.Table{
			"message_type": "JSON",
			"channel":      msg.Channel,
		},
	}

	if err := r.Channel.PublishWithContext(ctx, "", r.Queue, false, false, publishing); err != nil {
		r.Log.Error("notify.RabbitMQ.Publish error publishing message",
			zap.String("queue", r.Queue),
			zap.Uint("notification_id", msg.NotificationID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish to %s: %w", r.Queue, err)
	}

	r.Log.Info("notify.RabbitMQ.Publish succeeded",
		zap.String("queue", r.Queue),
		zap.Uint("notification_id", msg.NotificationID),
	)
	return nil
}

// Close closes the channel.
func (r *RabbitMQ) Close() error {
	return r.Channel.Close()
}
