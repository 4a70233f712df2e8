package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aquamarinepk/aqm"

	"github.com/appetiteclub/frontdesk/pkg"
	"github.com/appetiteclub/frontdesk/pkg/event"
)

const auditWait = 5 * time.Second

// Audit prints up to limit retained action events this consumer has not
// acknowledged yet, oldest first.
func Audit(ctx context.Context, config *aqm.Config, logger aqm.Logger, limit int, w io.Writer) error {
	natsURL := stringOr(config, "nats.url", "")
	if natsURL == "" {
		return fmt.Errorf("nats.url is required (set UTILS_NATS_URL)")
	}

	stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
		URL:          natsURL,
		StreamName:   stringOr(config, "nats.stream", event.ActionsStream),
		Topic:        stringOr(config, "nats.topic", event.ActionsTopic),
		ConsumerName: stringOr(config, "nats.consumer", ""),
	}, logger)
	if err != nil {
		return fmt.Errorf("open actions stream: %w", err)
	}
	defer stream.Close()

	fetchCtx, cancel := context.WithTimeout(ctx, auditWait)
	defer cancel()

	msgs, err := stream.Fetch(fetchCtx, limit)
	if err != nil {
		return fmt.Errorf("fetch actions: %w", err)
	}
	if len(msgs) == 0 {
		fmt.Fprintln(w, "No action events retained.")
		return nil
	}

	for _, m := range msgs {
		evt, err := decodeEvent(m.Data)
		if err != nil {
			logger.Error("skipping undecodable event", "sequence", m.Sequence, "error", err)
			continue
		}
		fmt.Fprintf(w, "#%d %s\n", m.Sequence, formatEvent(evt))
	}
	return nil
}

// Tail prints action events as they are published until ctx is done. With
// JetStream it reads through the durable consumer, so events published while
// no tail was running are printed first.
func Tail(ctx context.Context, config *aqm.Config, logger aqm.Logger, w io.Writer) error {
	natsURL := stringOr(config, "nats.url", "")
	if natsURL == "" {
		return fmt.Errorf("nats.url is required (set UTILS_NATS_URL)")
	}
	topic := stringOr(config, "nats.topic", event.ActionsTopic)

	show := func(ctx context.Context, msg []byte) error {
		evt, err := decodeEvent(msg)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, formatEvent(evt))
		return nil
	}

	if stringOr(config, "nats.jetstream", "true") == "false" {
		sub, err := pkg.NewNATSSubscriber(natsURL, logger)
		if err != nil {
			return fmt.Errorf("connect to NATS: %w", err)
		}
		defer sub.Close()

		if err := sub.Subscribe(ctx, topic, show); err != nil {
			return fmt.Errorf("subscribe to %s: %w", topic, err)
		}
	} else {
		stream, err := pkg.NewNATSStream(ctx, pkg.NATSStreamConfig{
			URL:          natsURL,
			StreamName:   stringOr(config, "nats.stream", event.ActionsStream),
			Topic:        topic,
			ConsumerName: stringOr(config, "nats.consumer", "frontdesk-tail"),
		}, logger)
		if err != nil {
			return fmt.Errorf("open actions stream: %w", err)
		}
		defer stream.Close()

		if err := stream.SubscribeStream(ctx, show); err != nil {
			return fmt.Errorf("consume %s: %w", topic, err)
		}
	}

	logger.Info("Tailing action events", "topic", topic)
	<-ctx.Done()
	return nil
}

func decodeEvent(data []byte) (event.ActionEvent, error) {
	var evt event.ActionEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return evt, fmt.Errorf("decode action event: %w", err)
	}
	if evt.EventType != event.EventActionCompleted {
		return evt, fmt.Errorf("unexpected event type %q", evt.EventType)
	}
	return evt, nil
}

func formatEvent(evt event.ActionEvent) string {
	var b strings.Builder
	b.WriteString(evt.OccurredAt.Local().Format("2006-01-02 15:04:05"))
	b.WriteString(" ")
	b.WriteString(evt.Action)
	if evt.EntityID != "" {
		b.WriteString(" " + evt.EntityID)
	}
	if evt.Status != "" {
		b.WriteString(" -> " + evt.Status)
	}
	if evt.TableID != "" && evt.TableID != evt.EntityID {
		b.WriteString(" table=" + evt.TableID)
	}
	if evt.Actor != "" {
		b.WriteString(" by " + evt.Actor)
	}
	if len(evt.Invalidated) > 0 {
		b.WriteString(" [" + strings.Join(evt.Invalidated, " ") + "]")
	}
	return b.String()
}
