// Package eventbus provides the change-notification bus backed by NATS
// JetStream. Delivery is at-least-once with no ordering guarantee across
// subjects; consumers must be idempotent.
package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	wmnats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/hackboard-live/hackboard/internal/observability/attr"
)

// EventBus is the publish/subscribe contract handed to every module. It
// satisfies watermill's Publisher and Subscriber so it can back a
// message.Router directly.
type EventBus interface {
	message.Publisher
	message.Subscriber
	CreateStream(ctx context.Context, streamName string, subjects ...string) error
}

type eventBus struct {
	publisher  message.Publisher
	subscriber message.Subscriber
	js         jetstream.JetStream
	natsConn   *nc.Conn
	logger     *slog.Logger

	streamMutex    sync.Mutex
	createdStreams map[string]bool
}

// NewEventBus connects to NATS, initializes JetStream, and wraps watermill
// publisher/subscriber around the connection.
func NewEventBus(ctx context.Context, natsURL string, logger *slog.Logger) (EventBus, error) {
	natsConn, err := nc.Connect(natsURL, nc.RetryOnFailedConnect(true))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(natsConn)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to initialize JetStream: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	marshaler := &wmnats.NATSMarshaler{}

	publisher, err := wmnats.NewPublisher(
		wmnats.PublisherConfig{
			URL:       natsURL,
			Marshaler: marshaler,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		natsConn.Close()
		return nil, fmt.Errorf("failed to create watermill publisher: %w", err)
	}

	subscriber, err := wmnats.NewSubscriber(
		wmnats.SubscriberConfig{
			URL:         natsURL,
			Unmarshaler: marshaler,
			NatsOptions: []nc.Option{
				nc.RetryOnFailedConnect(true),
			},
		},
		watermillLogger,
	)
	if err != nil {
		publisher.Close()
		natsConn.Close()
		return nil, fmt.Errorf("failed to create watermill subscriber: %w", err)
	}

	return &eventBus{
		publisher:      publisher,
		subscriber:     subscriber,
		js:             js,
		natsConn:       natsConn,
		logger:         logger,
		createdStreams: make(map[string]bool),
	}, nil
}

// Publish sends messages to a topic. Message UUIDs are assigned when absent.
func (eb *eventBus) Publish(topic string, messages ...*message.Message) error {
	for _, msg := range messages {
		if msg.UUID == "" {
			msg.UUID = watermill.NewUUID()
		}
		eb.logger.Debug("Publishing message",
			attr.String("topic", topic),
			attr.String("message_id", msg.UUID),
		)
	}
	return eb.publisher.Publish(topic, messages...)
}

// Subscribe returns the message channel for a topic.
func (eb *eventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	eb.logger.Info("Subscribing to topic", attr.String("topic", topic))
	return eb.subscriber.Subscribe(ctx, topic)
}

// CreateStream ensures a JetStream stream covering the given subjects
// exists, updating the subject set of an existing stream when needed.
func (eb *eventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	eb.streamMutex.Lock()
	defer eb.streamMutex.Unlock()

	if eb.createdStreams[streamName] {
		return nil
	}

	stream, err := eb.js.Stream(ctx, streamName)
	if err != nil && err != jetstream.ErrStreamNotFound {
		return fmt.Errorf("failed to check if stream exists: %w", err)
	}

	if err == jetstream.ErrStreamNotFound {
		_, err = eb.js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: subjects,
		})
		if err != nil {
			return fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}
		eb.logger.Info("Stream created", attr.String("stream_name", streamName))
	} else {
		info, err := stream.Info(ctx)
		if err != nil {
			return fmt.Errorf("failed to get stream info: %w", err)
		}
		existing := make(map[string]bool, len(info.Config.Subjects))
		for _, s := range info.Config.Subjects {
			existing[s] = true
		}
		changed := false
		for _, s := range subjects {
			if !existing[s] {
				info.Config.Subjects = append(info.Config.Subjects, s)
				changed = true
			}
		}
		if changed {
			if _, err := eb.js.UpdateStream(ctx, info.Config); err != nil {
				return fmt.Errorf("failed to update stream %s subjects: %w", streamName, err)
			}
			eb.logger.Info("Stream updated with new subjects", attr.String("stream_name", streamName))
		}
	}

	eb.createdStreams[streamName] = true
	return nil
}

// Close closes the watermill publisher/subscriber and the NATS connection.
func (eb *eventBus) Close() error {
	if eb.publisher != nil {
		if err := eb.publisher.Close(); err != nil {
			eb.logger.Error("Error closing publisher", attr.Error(err))
		}
	}
	if eb.subscriber != nil {
		if err := eb.subscriber.Close(); err != nil {
			eb.logger.Error("Error closing subscriber", attr.Error(err))
		}
	}
	if eb.natsConn != nil {
		eb.natsConn.Close()
	}
	return nil
}
