package config

import (
	"fmt"

	"github.com/rabbitmq/amqp091-go"
)

// ConnectRabbitMQ dials the broker configured by RABBITMQ_URL.
// It returns nil without error when no broker is configured.
func ConnectRabbitMQ() (*amqp091.Connection, error) {
	cfg := LoadConfig()
	if cfg.RabbitMQURL == "" {
		return nil, nil
	}
	conn, err := amqp091.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	return conn, nil
}
