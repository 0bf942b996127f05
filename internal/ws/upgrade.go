package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"arar/internal/confirm"
	"arar/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

const pingInterval = 30 * time.Second

// PhaseMessage is pushed to the browser on every phase change.
type PhaseMessage struct {
	Type           string        `json:"type"`
	Phase          confirm.Phase `json:"phase"`
	DisplayPhase   confirm.Phase `json:"display_phase"`
	Attempt        int           `json:"attempt"`
	MaxAttempts    int           `json:"max_attempts"`
	OrderReference string        `json:"order_reference"`
	Done           bool          `json:"done"`
}

func phaseMessage(s confirm.State) PhaseMessage {
	return PhaseMessage{
		Type:           "phase",
		Phase:          s.Phase,
		DisplayPhase:   s.Phase.Display(),
		Attempt:        s.Attempt,
		MaxAttempts:    s.MaxAttempts,
		OrderReference: s.OrderReference,
		Done:           s.Done(),
	}
}

// ServeConfirmation upgrades GET /ws/checkout?session_id= and runs a poller
// for the session server-side, pushing each phase change. The poll is
// cancelled as soon as the browser goes away.
func ServeConfirmation(hub *Hub, newPoller func() *confirm.Poller, m *metrics.Metrics, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()

		sessionID := c.Query("session_id")
		client := newClient(sessionID)
		hub.Register(client)
		defer client.Close()

		ctx, cancel := context.WithCancel(c.Request.Context())
		defer cancel()

		writerDone := make(chan struct{})
		go func() {
			defer close(writerDone)
			writePump(client, conn)
		}()
		go func() {
			readPump(conn)
			cancel()
		}()

		final := newPoller().Run(ctx, sessionID, func(s confirm.State) {
			data, err := json.Marshal(phaseMessage(s))
			if err != nil {
				return
			}
			if !client.push(data) {
				cancel()
			}
		})
		if final.Done() {
			m.ConfirmationPhases.WithLabelValues(string(final.Phase)).Inc()
		} else {
			log.Debug("confirmation stream closed before resolution", zap.String("session_id", sessionID))
		}
		client.Close()
		<-writerDone
	}
}

// writePump copies messages from client.Send to the connection and sends a
// close frame once Send is closed.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case msg, ok := <-c.Send:
			if !ok {
				conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func readPump(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
