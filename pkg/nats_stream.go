package pkg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aquamarinepk/aqm"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// StreamMessage is one retained message with its stream position.
type StreamMessage struct {
	Data      []byte
	Sequence  uint64
	Timestamp time.Time
}

// NATSStream keeps the action audit trail in JetStream so operators can
// replay it after the fact.
type NATSStream struct {
	conn     *nats.Conn
	js       jetstream.JetStream
	stream   jetstream.Stream
	consumer jetstream.Consumer
	topic    string
	logger   aqm.Logger
}

type NATSStreamConfig struct {
	URL          string
	StreamName   string        // e.g. "FRONTDESK_ACTIONS"
	Topic        string        // e.g. "frontdesk.actions"
	ConsumerName string        // durable consumer, one per reader
	MaxAge       time.Duration // retention window
	MaxMsgs      int64         // 0 = unlimited
}

func (cfg NATSStreamConfig) withDefaults() NATSStreamConfig {
	if cfg.MaxAge <= 0 {
		cfg.MaxAge = 7 * 24 * time.Hour
	}
	if cfg.ConsumerName == "" {
		cfg.ConsumerName = "frontdesk-audit"
	}
	return cfg
}

// NewNATSStream connects and ensures the stream and its durable consumer exist.
func NewNATSStream(ctx context.Context, cfg NATSStreamConfig, logger aqm.Logger) (*NATSStream, error) {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	cfg = cfg.withDefaults()

	conn, err := nats.Connect(cfg.URL, nats.Name("frontdesk-stream"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	streamConfig := jetstream.StreamConfig{
		Name:     cfg.StreamName,
		Subjects: []string{cfg.Topic},
		MaxAge:   cfg.MaxAge,
	}
	if cfg.MaxMsgs > 0 {
		streamConfig.MaxMsgs = cfg.MaxMsgs
	}

	stream, err := js.CreateOrUpdateStream(ctx, streamConfig)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update stream %s: %w", cfg.StreamName, err)
	}

	consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
		Name:          cfg.ConsumerName,
		Durable:       cfg.ConsumerName,
		AckPolicy:     jetstream.AckExplicitPolicy,
		DeliverPolicy: jetstream.DeliverAllPolicy,
		FilterSubject: cfg.Topic,
	})
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create/update consumer %s: %w", cfg.ConsumerName, err)
	}

	return &NATSStream{
		conn:     conn,
		js:       js,
		stream:   stream,
		consumer: consumer,
		topic:    cfg.Topic,
		logger:   logger,
	}, nil
}

// Publish stores msg in the stream. An empty topic uses the configured one.
func (s *NATSStream) Publish(ctx context.Context, topic string, msg []byte) error {
	if topic == "" {
		topic = s.topic
	}
	if _, err := s.js.Publish(ctx, topic, msg); err != nil {
		return fmt.Errorf("failed to publish to stream: %w", err)
	}
	return nil
}

// Fetch returns up to limit messages not yet acknowledged by this consumer.
func (s *NATSStream) Fetch(ctx context.Context, limit int) ([]StreamMessage, error) {
	if limit <= 0 {
		limit = 1000
	}

	wait := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < wait {
			wait = left
		}
	}

	batch, err := s.consumer.Fetch(limit, jetstream.FetchMaxWait(wait))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	var messages []StreamMessage
	for msg := range batch.Messages() {
		meta, err := msg.Metadata()
		if err != nil {
			s.logger.Debug("skipping message without metadata", "error", err)
			_ = msg.Ack()
			continue
		}

		messages = append(messages, StreamMessage{
			Data:      msg.Data(),
			Sequence:  meta.Sequence.Stream,
			Timestamp: meta.Timestamp,
		})
		_ = msg.Ack()
	}
	if err := batch.Error(); err != nil && len(messages) == 0 && !isFetchTimeout(err) {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}

	return messages, nil
}

// SubscribeStream delivers new messages to handler until ctx is done.
// A handler error naks the message for redelivery.
func (s *NATSStream) SubscribeStream(ctx context.Context, handler HandlerFunc) error {
	cc, err := s.consumer.Consume(func(msg jetstream.Msg) {
		if err := handler(ctx, msg.Data()); err != nil {
			s.logger.Error("stream handler failed", "topic", s.topic, "error", err)
			_ = msg.Nak()
			return
		}
		_ = msg.Ack()
	})
	if err != nil {
		return err
	}

	go func() {
		<-ctx.Done()
		cc.Stop()
	}()
	return nil
}

func (s *NATSStream) Close() error {
	s.conn.Close()
	return nil
}

func isFetchTimeout(err error) bool {
	return errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded)
}
