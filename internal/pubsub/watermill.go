package pubsub

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillBridge implements Publisher and Subscriber on watermill's
// in-process GoChannel.
type WatermillBridge struct {
	channel *gochannel.GoChannel
	logger  *slog.Logger
}

const (
	// Metadata keys used to carry Message fields through a watermill message.
	metaKeySessionID = "session_id"
	metaKeyTopic     = "topic"

	outputBuffer = 64
)

var (
	_ Publisher  = (*WatermillBridge)(nil)
	_ Subscriber = (*WatermillBridge)(nil)
)

// NewWatermillBridge initializes an in-memory bus.
func NewWatermillBridge() *WatermillBridge {
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: outputBuffer},
		watermill.NewStdLogger(false, false),
	)

	return &WatermillBridge{
		channel: goChannel,
		logger:  slog.Default().With("service", "pubsub"),
	}
}

func toWatermill(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}
	wmMsg.Metadata.Set(metaKeySessionID, msg.SessionID)
	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)

	return wmMsg
}

func fromWatermill(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeySessionID && k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:     wmMsg.Metadata.Get(metaKeyTopic),
		SessionID: wmMsg.Metadata.Get(metaKeySessionID),
		Payload:   wmMsg.Payload,
		Metadata:  metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	return wb.channel.Publish(msg.Topic, toWatermill(msg))
}

// Subscribe implements the Subscriber interface.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	messages, err := wb.channel.Subscribe(ctx, topic)
	if err != nil {
		return err
	}

	go func() {
		for wmMsg := range messages {
			if err := handler(ctx, fromWatermill(wmMsg)); err != nil {
				wb.logger.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				// Nacked messages are redelivered forever; failures are logged and acked.
			}
			wmMsg.Ack()
		}
		wb.logger.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close shuts the bus down and ends every subscription.
func (wb *WatermillBridge) Close() error {
	return wb.channel.Close()
}
