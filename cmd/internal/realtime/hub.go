package realtime

import (
	"log/slog"
	"sync"

	"notebook/cmd/internal/notes"

	"github.com/prometheus/client_golang/prometheus"
)

// Hub tracks connected clients per account and fans note changes out to the
// owner's clients only.
//
// Join/Leave are safe under concurrent Publish. Publish never blocks: frames
// for a full queue are dropped.
type Hub struct {
	log   *slog.Logger
	gauge prometheus.Gauge

	mu        sync.RWMutex
	byAccount map[string]map[string]*Client
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithClientGauge reports the number of connected clients to g.
func WithClientGauge(g prometheus.Gauge) HubOption {
	return func(h *Hub) { h.gauge = g }
}

// NewHub constructs a Hub instance.
func NewHub(log *slog.Logger, opts ...HubOption) *Hub {
	if log == nil {
		log = slog.Default()
	}
	h := &Hub{
		log:       log,
		byAccount: make(map[string]map[string]*Client),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(h)
		}
	}
	return h
}

var _ notes.Publisher = (*Hub)(nil)

// Join registers client under its account.
func (h *Hub) Join(client *Client) {
	if h == nil || client == nil || client.SessionID == "" || client.AccountID == "" {
		return
	}

	h.mu.Lock()
	set := h.byAccount[client.AccountID]
	if set == nil {
		set = make(map[string]*Client)
		h.byAccount[client.AccountID] = set
	}
	_, existed := set[client.SessionID]
	set[client.SessionID] = client
	h.mu.Unlock()

	if !existed && h.gauge != nil {
		h.gauge.Inc()
	}
	h.log.Info("realtime.client.join", "account_id", client.AccountID, "session_id", client.SessionID)
}

// Leave removes client and then signals it to shut down.
func (h *Hub) Leave(client *Client) {
	if h == nil || client == nil {
		return
	}

	h.mu.Lock()
	_, existed := h.byAccount[client.AccountID][client.SessionID]
	if existed {
		delete(h.byAccount[client.AccountID], client.SessionID)
		if len(h.byAccount[client.AccountID]) == 0 {
			delete(h.byAccount, client.AccountID)
		}
	}
	h.mu.Unlock()

	// Close after removal so a publisher never holds a client being torn down.
	client.Close()

	if existed {
		if h.gauge != nil {
			h.gauge.Dec()
		}
		h.log.Info("realtime.client.leave", "account_id", client.AccountID, "session_id", client.SessionID)
	}
}

// Publish delivers a note change to every client of the note's owner.
func (h *Hub) Publish(e notes.Event) {
	if h == nil || e.Note.OwnerID == "" {
		return
	}

	f := noteFrame(e)

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.byAccount[e.Note.OwnerID] {
		if !c.offer(f) {
			h.log.Debug("realtime.publish.drop", "account_id", c.AccountID, "session_id", c.SessionID, "type", f.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	if h == nil {
		return 0
	}
	h.mu.RLock()
	defer h.mu.RUnlock()

	n := 0
	for _, set := range h.byAccount {
		n += len(set)
	}
	return n
}
