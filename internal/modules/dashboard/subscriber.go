package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	core "github.com/nfrund/carmasy/internal/dashboard"
	"github.com/nfrund/carmasy/internal/dashboard/views"
	"github.com/nfrund/carmasy/internal/pubsub"
	"github.com/nfrund/carmasy/internal/rendering"
)

// TopicEventApplied carries every event a session accepted.
const TopicEventApplied = "dashboard.event.applied"

const (
	metaOrigin    = "origin_client"
	metaAppliedAt = "applied_at"
)

// sessionPusher delivers markup to the live connections of a session.
type sessionPusher interface {
	SendToSession(sessionID, exceptClientID string, payload []byte)
}

// eventPublisher puts applied events on the bus. It runs after the session
// lock is released.
type eventPublisher struct {
	publisher pubsub.Publisher
}

func (p *eventPublisher) EventApplied(ctx context.Context, sessionID string, ev core.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		slog.Error("Failed to encode applied event", "event", ev.Name, "error", err)
		return
	}

	msg := pubsub.Message{
		Topic:     TopicEventApplied,
		SessionID: sessionID,
		Payload:   payload,
		Metadata: map[string]string{
			metaOrigin:    originFrom(ctx),
			metaAppliedAt: time.Now().UTC().Format(time.RFC3339Nano),
		},
	}
	if err := p.publisher.Publish(ctx, msg); err != nil {
		slog.Error("Failed to publish applied event", "event", ev.Name, "session_id", sessionID, "error", err)
	}
}

// EventSubscriber keeps other tabs of a session in sync and writes the
// event audit log.
type EventSubscriber struct {
	subscriber pubsub.Subscriber
	store      *core.Store
	renderer   rendering.Renderer
	pusher     sessionPusher
	logger     *slog.Logger
}

// NewEventSubscriber creates the subscriber for applied events.
func NewEventSubscriber(sub pubsub.Subscriber, store *core.Store, renderer rendering.Renderer, pusher sessionPusher) *EventSubscriber {
	return &EventSubscriber{
		subscriber: sub,
		store:      store,
		renderer:   renderer,
		pusher:     pusher,
		logger:     slog.Default().With("component", "dashboard.subscriber"),
	}
}

// Start subscribes both handlers. They stop when ctx is canceled.
func (s *EventSubscriber) Start(ctx context.Context) error {
	if err := s.subscriber.Subscribe(ctx, TopicEventApplied, s.handleSync); err != nil {
		return fmt.Errorf("subscribe %s: %w", TopicEventApplied, err)
	}
	if err := s.subscriber.Subscribe(ctx, TopicEventApplied, s.handleAudit); err != nil {
		return fmt.Errorf("subscribe %s audit: %w", TopicEventApplied, err)
	}
	return nil
}

func decodeApplied(msg pubsub.Message) (core.Event, error) {
	var ev core.Event
	if err := json.Unmarshal(msg.Payload, &ev); err != nil {
		return core.Event{}, fmt.Errorf("decode applied event: %w", err)
	}
	return ev, nil
}

// handleSync pushes the session's current dashboard to its other tabs.
// Input bindings are not pushed: they would overwrite what the user is
// typing elsewhere.
func (s *EventSubscriber) handleSync(ctx context.Context, msg pubsub.Message) error {
	ev, err := decodeApplied(msg)
	if err != nil {
		return err
	}
	if ev.Name == core.EventSetField {
		return nil
	}

	snap, ok := s.store.Peek(msg.SessionID)
	if !ok {
		s.logger.Debug("Skipping sync for ended session", "session_id", msg.SessionID)
		return nil
	}
	html, err := s.renderer.RenderComponent(ctx, views.Dashboard(snap, nil))
	if err != nil {
		return fmt.Errorf("render dashboard for sync: %w", err)
	}
	s.pusher.SendToSession(msg.SessionID, msg.Metadata[metaOrigin], html)
	return nil
}

func (s *EventSubscriber) handleAudit(ctx context.Context, msg pubsub.Message) error {
	ev, err := decodeApplied(msg)
	if err != nil {
		return err
	}
	s.logger.Debug("Dashboard event applied",
		"session_id", msg.SessionID,
		"event", ev.Name,
		"args", ev.Args,
		"origin_client", msg.Metadata[metaOrigin],
		"applied_at", msg.Metadata[metaAppliedAt],
	)
	return nil
}
