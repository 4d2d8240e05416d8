package dashboard

import (
	"context"
	"errors"

	core "github.com/nfrund/carmasy/internal/dashboard"
	"github.com/nfrund/carmasy/internal/dashboard/views"
	"github.com/nfrund/carmasy/internal/rendering"
	"github.com/nfrund/carmasy/internal/websocket"
)

type originKey struct{}

// withOrigin marks ctx as carrying an event sent by the given connection.
func withOrigin(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, originKey{}, clientID)
}

func originFrom(ctx context.Context) string {
	id, _ := ctx.Value(originKey{}).(string)
	return id
}

// liveHandler applies events that arrive over the WebSocket and answers with
// the re-rendered dashboard, which the htmx ws extension swaps by id.
type liveHandler struct {
	store    *core.Store
	renderer rendering.Renderer
}

var _ websocket.MessageHandler = (*liveHandler)(nil)

func (l *liveHandler) HandleMessage(ctx context.Context, client *websocket.Client, payload []byte) ([]byte, error) {
	ev, err := decodeFrame(payload)
	if err != nil {
		return nil, err
	}

	snap, err := l.store.Apply(withOrigin(ctx, client.ID), client.SessionID, ev)
	var verr *core.ValidationError
	if err != nil && !errors.As(err, &verr) {
		return nil, err
	}
	return l.renderer.RenderComponent(ctx, views.Dashboard(snap, verr))
}
