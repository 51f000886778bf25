package http

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
)

// wsChatFrame is a single client message over the chat socket.
type wsChatFrame struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

// ChatSocketHandler returns a handler that upgrades to WebSocket and runs
// the conversational loop. Each incoming frame is one user turn; the reply
// is written back on the same socket. Frames for the same socket are
// processed in order.
func ChatSocketHandler(deps *Dependencies) func(*websocket.Conn) {
	return func(c *websocket.Conn) {
		defer c.Close()

		remoteAddr := c.RemoteAddr().String()
		log.Printf("ws chat client connected: %s", remoteAddr)

		var mu sync.Mutex
		writeJSON := func(v interface{}) error {
			data, err := json.Marshal(v)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return c.WriteMessage(websocket.TextMessage, data)
		}

		// Keep-alive ping
		done := make(chan struct{})
		go func() {
			ticker := time.NewTicker(30 * time.Second)
			defer ticker.Stop()
			for {
				select {
				case <-ticker.C:
					mu.Lock()
					err := c.WriteMessage(websocket.PingMessage, nil)
					mu.Unlock()
					if err != nil {
						return
					}
				case <-done:
					return
				}
			}
		}()

		for {
			_, msg, err := c.ReadMessage()
			if err != nil {
				break
			}

			var frame wsChatFrame
			if err := json.Unmarshal(msg, &frame); err != nil {
				_ = writeJSON(map[string]string{"error": "invalid JSON"})
				continue
			}
			if frame.Message == "" {
				_ = writeJSON(map[string]string{"error": "message is required"})
				continue
			}
			if frame.SessionID == "" {
				frame.SessionID = defaultSessionID
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			reply, err := deps.Assistant.HandleMessage(ctx, frame.SessionID, frame.Message)
			cancel()
			if err != nil {
				_ = writeJSON(map[string]string{"error": err.Error()})
				continue
			}

			_ = writeJSON(ChatResponse{
				Response:  reply,
				SessionID: frame.SessionID,
				Timestamp: time.Now().UTC().Format(time.RFC3339),
			})
		}

		close(done)
		log.Printf("ws chat client disconnected: %s", remoteAddr)
	}
}
