package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/yungbote/storefront/internal/platform/logger"
)

// AMQPSink publishes notifications to a durable queue on the default exchange.
type AMQPSink struct {
	url   string
	queue string
	log   *logger.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPSink(url, queue string, log *logger.Logger) (*AMQPSink, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("missing amqp url")
	}
	if strings.TrimSpace(queue) == "" {
		queue = "storefront_notifications"
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &AMQPSink{url: url, queue: queue, log: log.With("sink", "amqp", "queue", queue)}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connectLocked(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AMQPSink) connectLocked() error {
	if s.conn == nil || s.conn.IsClosed() {
		conn, err := amqp.Dial(s.url)
		if err != nil {
			return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
		}
		s.conn = conn
		s.ch = nil
	}
	if s.ch == nil || s.ch.IsClosed() {
		ch, err := s.conn.Channel()
		if err != nil {
			return fmt.Errorf("open channel: %w", err)
		}
		if _, err := ch.QueueDeclare(s.queue, true, false, false, false, nil); err != nil {
			_ = ch.Close()
			return fmt.Errorf("failed to declare queue: %w", err)
		}
		s.ch = ch
	}
	return nil
}

func (s *AMQPSink) Notify(ctx context.Context, n Notification) error {
	body, err := json.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.connectLocked(); err != nil {
		return err
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = s.ch.PublishWithContext(pubCtx,
		"",      // exchange
		s.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Timestamp:    n.At,
			Type:         string(n.Level),
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("failed to publish notification: %w", err)
	}
	s.log.Debug("notification published", "level", n.Level)
	return nil
}

func (s *AMQPSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ch != nil {
		_ = s.ch.Close()
		s.ch = nil
	}
	if s.conn != nil {
		err := s.conn.Close()
		s.conn = nil
		return err
	}
	return nil
}
