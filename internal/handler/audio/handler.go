// Package audio exposes the live transcription websocket endpoint.
package audio

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/Fathima1123/mom-realtime/internal/service/session"
)

const (
	writeTimeout = 10 * time.Second
	pingInterval = 30 * time.Second
)

type Handler struct {
	engine      *session.Engine
	idleTimeout time.Duration
	upgrader    websocket.Upgrader
}

func New(engine *session.Engine, idleTimeout time.Duration) *Handler {
	if idleTimeout <= 0 {
		idleTimeout = 60 * time.Second
	}
	return &Handler{
		engine:      engine,
		idleTimeout: idleTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/audio", h.handleAudio)
}

// handleAudio upgrades the connection and hands it to the session engine.
// One session per connection; the handler blocks until the session ends.
func (h *Handler) handleAudio(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[audio] upgrade failed: %v", err)
		return
	}

	log.Printf("[audio] connection open from %s", conn.RemoteAddr())

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	client := newWSClient(conn, h.idleTimeout)
	go client.pingLoop(ctx)

	if err := h.engine.Run(ctx, client); err != nil {
		log.Printf("[audio] %v", err)
	}

	log.Printf("[audio] connection closed for %s", conn.RemoteAddr())
}

// transcriptMessage is the only outbound message type on the audio socket.
type transcriptMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// controlMessage covers inbound text frames; the only recognized one is the
// explicit end-of-audio signal.
type controlMessage struct {
	Type string `json:"type"`
}

// wsClient adapts a gorilla connection to session.ClientConn. Writes are
// serialized because the transcript pump and the ping loop run on separate
// goroutines.
type wsClient struct {
	conn *websocket.Conn
	idle time.Duration

	writeMu   sync.Mutex
	closeOnce sync.Once
	closeErr  error
}

func newWSClient(conn *websocket.Conn, idle time.Duration) *wsClient {
	c := &wsClient{conn: conn, idle: idle}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(idle))
	})
	return c
}

func (c *wsClient) ReadFrame() ([]byte, error) {
	for {
		_ = c.conn.SetReadDeadline(time.Now().Add(c.idle))
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return nil, io.EOF
			}
			return nil, err
		}

		switch messageType {
		case websocket.BinaryMessage:
			return data, nil
		case websocket.TextMessage:
			var msg controlMessage
			if err := json.Unmarshal(data, &msg); err == nil && msg.Type == "stop" {
				return nil, io.EOF
			}
			// Unknown text frames are ignored; audio arrives as binary.
		}
	}
}

func (c *wsClient) WriteTranscript(text string) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.conn.WriteJSON(transcriptMessage{Type: "transcript", Text: text})
}

func (c *wsClient) Close() error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		deadline := time.Now().Add(time.Second)
		_ = c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
		c.writeMu.Unlock()
		c.closeErr = c.conn.Close()
	})
	return c.closeErr
}

func (c *wsClient) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.writeMu.Lock()
			err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
			c.writeMu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
