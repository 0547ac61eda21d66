// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/danielhkuo/vote-ledger/models"
)

const (
	amqpPublishTimeout = 2 * time.Second
	amqpQueueSize      = 64
)

// AMQPMirror forwards every published snapshot to a RabbitMQ fanout exchange
// in addition to the wrapped feed. Watch is served by the wrapped feed.
// Snapshots are versioned here and sent one at a time in publish order.
type AMQPMirror struct {
	Feed
	exchange string
	conn     *amqp.Connection
	channel  *amqp.Channel

	send    func(ctx context.Context, msg amqp.Publishing) error
	mu      sync.Mutex
	version uint64
	closed  bool
	queue   chan amqp.Publishing
	done    chan struct{}
}

func NewAMQPMirror(inner Feed, url, exchange string) (*AMQPMirror, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		exchange,            // name
		amqp.ExchangeFanout, // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}

	m := newMirror(inner, exchange, func(ctx context.Context, msg amqp.Publishing) error {
		return ch.PublishWithContext(ctx,
			exchange, // exchange
			"",       // routing key
			false,    // mandatory
			false,    // immediate
			msg,
		)
	})
	m.conn = conn
	m.channel = ch
	return m, nil
}

func newMirror(inner Feed, exchange string, send func(context.Context, amqp.Publishing) error) *AMQPMirror {
	m := &AMQPMirror{
		Feed:     inner,
		exchange: exchange,
		send:     send,
		queue:    make(chan amqp.Publishing, amqpQueueSize),
		done:     make(chan struct{}),
	}
	go m.run()
	return m
}

// Publish @ConcurrentAccess
// Stamps the next version on both the mirrored and the wrapped snapshot.
// A full queue drops the message: consumers catch up on the next one.
func (m *AMQPMirror) Publish(snap models.Snapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.version++
	snap.Version = m.version
	m.Feed.Publish(snap)

	if m.closed {
		return
	}

	msg, err := encodeSnapshot(snap)
	if err != nil {
		slog.Error("failed to encode snapshot", "error", err)
		return
	}

	select {
	case m.queue <- msg:
	default:
		slog.Warn("RabbitMQ mirror queue full, dropping snapshot", "version", snap.Version)
	}
}

func (m *AMQPMirror) run() {
	defer close(m.done)
	for msg := range m.queue {
		ctx, cancel := context.WithTimeout(context.Background(), amqpPublishTimeout)
		err := m.send(ctx, msg)
		cancel()
		if err != nil {
			slog.Warn("failed to mirror snapshot to RabbitMQ", "exchange", m.exchange, "error", err)
		}
	}
}

// Close drains the queue, then closes the channel and connection
func (m *AMQPMirror) Close() error {
	m.mu.Lock()
	if !m.closed {
		m.closed = true
		close(m.queue)
	}
	m.mu.Unlock()
	<-m.done

	if m.channel == nil {
		return nil
	}
	if err := m.channel.Close(); err != nil {
		m.conn.Close()
		return err
	}
	return m.conn.Close()
}

func encodeSnapshot(snap models.Snapshot) (amqp.Publishing, error) {
	body, err := json.Marshal(snap)
	if err != nil {
		return amqp.Publishing{}, err
	}

	return amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.New().String(),
		Timestamp:   snap.TakenAt,
		Type:        "vote-ledger.snapshot",
		Body:        body,
	}, nil
}
