package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"pulseboard/internal/domain"
	"pulseboard/internal/pubsub"
)

// outboundBuffer caps how many undelivered events a connection may queue.
// Broadcast deliveries beyond it are dropped so one stalled reader cannot
// hold up anyone else.
const outboundBuffer = 16

type clientMessage struct {
	Type        string `json:"type"`
	DashboardID string `json:"dashboardId"`
	Query       string `json:"query"`
}

type serverEvent struct {
	Type    string                 `json:"type"`
	Payload *domain.ResultEnvelope `json:"payload,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// stream upgrades the request to a websocket speaking the subscription
// protocol: the client sends subscribe, unsubscribe, and query messages and
// receives a result event for every envelope published to the dashboards it
// joined. A query sent on this connection is answered directly as well, so a
// subscribed client sees its own result twice and collapses the pair by
// queryId.
func (h *Handler) stream(w http.ResponseWriter, r *http.Request) {
	principal := mustPrincipal(r)

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket accept failed", "error", err)
		return
	}

	connID := uuid.NewString()
	logger := h.logger.With("conn", connID, "principal", principal.ID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	defer h.app.Registry.LeaveAll(connID)
	defer conn.Close(websocket.StatusNormalClosure, "") //nolint:errcheck

	outbound := make(chan serverEvent, outboundBuffer)

	// Broadcast deliveries must not block the registry, so when the client
	// cannot keep up the envelope is dropped rather than queued.
	listener := func(e *domain.ResultEnvelope) {
		select {
		case outbound <- serverEvent{Type: "result", Payload: e}:
		default:
			logger.Debug("dropping broadcast for slow subscriber", "query_id", e.QueryID)
		}
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-outbound:
				if err := wsjson.Write(ctx, conn, evt); err != nil {
					cancel()
					return
				}
			}
		}
	}()

	logger.Debug("stream opened")
	for {
		var msg clientMessage
		if err := wsjson.Read(ctx, conn, &msg); err != nil {
			if websocket.CloseStatus(err) != websocket.StatusNormalClosure && ctx.Err() == nil {
				logger.Debug("stream closed", "error", err)
			}
			return
		}
		h.handleStreamMessage(ctx, connID, principal, msg, outbound, listener)
	}
}

func (h *Handler) handleStreamMessage(ctx context.Context, connID string, principal domain.Principal, msg clientMessage, outbound chan<- serverEvent, listener pubsub.Listener) {
	switch msg.Type {
	case "subscribe":
		if msg.DashboardID == "" {
			sendEvent(ctx, outbound, errorEvent("dashboardId is required to subscribe"))
			return
		}
		h.app.Registry.Join(pubsub.Topic(msg.DashboardID), connID, listener)
	case "unsubscribe":
		h.app.Registry.Leave(pubsub.Topic(msg.DashboardID), connID)
	case "query":
		// Queries run off the read loop so a slow execution does not block
		// subscribe and unsubscribe messages arriving behind it.
		go func() {
			env, err := h.app.Queries.Execute(ctx, principal, msg.DashboardID, msg.Query)
			if err != nil {
				sendEvent(ctx, outbound, errorEvent(err.Error()))
				return
			}
			sendEvent(ctx, outbound, serverEvent{Type: "result", Payload: env})
		}()
	default:
		sendEvent(ctx, outbound, errorEvent(fmt.Sprintf("unknown message type %q", msg.Type)))
	}
}

func errorEvent(message string) serverEvent {
	return serverEvent{Type: "error", Message: message}
}

// sendEvent queues evt for the writer goroutine, giving up once the
// connection is torn down.
func sendEvent(ctx context.Context, outbound chan<- serverEvent, evt serverEvent) {
	select {
	case <-ctx.Done():
	case outbound <- evt:
	}
}
