package api

import (
	"bufio"
	"encoding/json"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"outpost/models"
	"outpost/utils"
)

// Label event types pushed to connected UIs
const (
	EventLabelCreated    = "label_created"
	EventLabelUpdated    = "label_updated"
	EventLabelDeleted    = "label_deleted"
	EventLabelsRefreshed = "labels_refreshed"
)

// LabelEvent describes a change to the label collection
type LabelEvent struct {
	ID      string        `json:"id"`
	Type    string        `json:"type"`
	LabelID string        `json:"label_id,omitempty"`
	Label   *models.Label `json:"label,omitempty"`
	Time    time.Time     `json:"time"`
}

// LabelEventHub fans label change events out to SSE and websocket
// subscribers so open views re-render without polling.
type LabelEventHub struct {
	subscribers map[string]chan LabelEvent
	mu          sync.RWMutex
}

// NewLabelEventHub creates an empty hub
func NewLabelEventHub() *LabelEventHub {
	return &LabelEventHub{
		subscribers: make(map[string]chan LabelEvent),
	}
}

// Publish delivers an event to every subscriber. Slow subscribers are
// skipped rather than blocked on.
func (h *LabelEventHub) Publish(event LabelEvent) {
	event.ID = uuid.New().String()
	event.Time = time.Now()

	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.subscribers {
		select {
		case ch <- event:
		default:
			utils.Log.Warn("Dropping label event for slow subscriber %s", id)
		}
	}
}

func (h *LabelEventHub) subscribe() (string, chan LabelEvent) {
	id := uuid.New().String()
	ch := make(chan LabelEvent, 10)

	h.mu.Lock()
	h.subscribers[id] = ch
	h.mu.Unlock()

	return id, ch
}

func (h *LabelEventHub) unsubscribe(id string) {
	h.mu.Lock()
	if ch, ok := h.subscribers[id]; ok {
		delete(h.subscribers, id)
		close(ch)
	}
	h.mu.Unlock()
}

// SubscriberCount returns the number of connected subscribers
func (h *LabelEventHub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers)
}

// HandleSSE streams label events as Server-Sent Events
func (h *LabelEventHub) HandleSSE(c *fiber.Ctx) error {
	c.Set("Content-Type", "text/event-stream")
	c.Set("Cache-Control", "no-cache")
	c.Set("Connection", "keep-alive")
	c.Set("Transfer-Encoding", "chunked")

	id, events := h.subscribe()
	utils.Log.Info("SSE subscriber connected: %s", id)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer func() {
			h.unsubscribe(id)
			utils.Log.Info("SSE subscriber disconnected: %s", id)
		}()

		// Keep-alive ticker
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				data, err := json.Marshal(event)
				if err != nil {
					continue
				}
				if _, err := w.WriteString("data: " + string(data) + "\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": ping\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					return
				}
			}
		}
	}))

	return nil
}

// HandleWebsocket streams label events over a websocket connection
func (h *LabelEventHub) HandleWebsocket() fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		id, events := h.subscribe()
		defer h.unsubscribe(id)

		utils.Log.Info("Websocket subscriber connected: %s", id)

		// Drain reads so close frames are processed
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	})
}
