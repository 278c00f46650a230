package ws

import (
	"encoding/json"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/wiremail/wiremail-backend/internal/directory"
	"github.com/wiremail/wiremail-backend/internal/domain"
	"github.com/wiremail/wiremail-backend/internal/mailbox"
	pkglogger "github.com/wiremail/wiremail-backend/pkg/logger"
)

var wsConnections = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "mailbox_ws_connections",
		Help: "Number of currently connected WebSocket clients",
	},
)

// Event is one frame pushed to a WebSocket client
type Event struct {
	Type    string      `json:"type"` // "snapshot", "presence"
	Payload interface{} `json:"payload"`
}

// SnapshotPayload is the viewer's projected mailbox view, recomputed
// from the latest collection snapshot on every change
type SnapshotPayload struct {
	Folder   string                    `json:"folder"`
	Query    string                    `json:"query"`
	Messages []*domain.MessageResponse `json:"messages"`
	Counters mailbox.Counters          `json:"counters"`
}

// PresencePayload lists the identities currently connected
type PresencePayload struct {
	Online []string `json:"online"`
}

type viewChange struct {
	client *Client
	folder mailbox.Folder
	query  string
}

// Hub owns the connected clients and the latest collection snapshot.
// Everything that touches view state runs on the single Run loop:
// presence changes feed the directory tracker synchronously, and each
// collection change re-filters and re-projects every client's view.
type Hub struct {
	clients map[*Client]bool

	register   chan *Client
	unregister chan *Client
	viewChange chan *viewChange
	snapshots  chan []domain.Message

	latest  []domain.Message
	tracker *directory.Tracker

	mu           sync.RWMutex // guards clients for reads off the loop
	presenceSubs []func(identities []string)
	presenceMu   sync.Mutex

	done chan struct{}
}

// NewHub creates a new Hub feeding the given tracker
func NewHub(tracker *directory.Tracker) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		viewChange: make(chan *viewChange, 64),
		snapshots:  make(chan []domain.Message, 16),
		tracker:    tracker,
		done:       make(chan struct{}),
	}
}

// Register adds a client to the hub
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// UpdateView replaces a client's folder/query selection
func (h *Hub) UpdateView(client *Client, folder mailbox.Folder, query string) {
	h.viewChange <- &viewChange{client: client, folder: folder, query: query}
}

// OnSnapshot is the collection subscription callback. It may be
// called from any goroutine; the snapshot is handed to the Run loop.
func (h *Hub) OnSnapshot(records []domain.Message) {
	select {
	case h.snapshots <- records:
	case <-h.done:
	}
}

// CurrentPeers returns connection-id → identity for every connection
func (h *Hub) CurrentPeers() map[string]string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	peers := make(map[string]string, len(h.clients))
	for client := range h.clients {
		peers[client.connID] = client.identity
	}
	return peers
}

// SubscribePresence registers a callback invoked with the full
// identity list after every join or leave
func (h *Hub) SubscribePresence(fn func(identities []string)) {
	h.presenceMu.Lock()
	h.presenceSubs = append(h.presenceSubs, fn)
	h.presenceMu.Unlock()
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			wsConnections.Inc()
			h.presenceChanged()
			h.pushView(client)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				wsConnections.Dec()
			}
			h.mu.Unlock()
			h.presenceChanged()

		case change := <-h.viewChange:
			h.mu.RLock()
			active := h.clients[change.client]
			h.mu.RUnlock()
			if active {
				change.client.folder = change.folder
				change.client.query = change.query
				h.pushView(change.client)
			}

		case records := <-h.snapshots:
			h.latest = records
			h.mu.RLock()
			clients := make([]*Client, 0, len(h.clients))
			for client := range h.clients {
				clients = append(clients, client)
			}
			h.mu.RUnlock()
			for _, client := range clients {
				h.pushView(client)
			}

		case <-h.done:
			return
		}
	}
}

// Stop shuts down the hub loop
func (h *Hub) Stop() {
	close(h.done)
}

// presenceChanged recomputes the present identity set, updates the
// tracker before anything else can observe the change, then notifies
// subscribers and all connected clients
func (h *Hub) presenceChanged() {
	h.mu.RLock()
	seen := make(map[string]struct{}, len(h.clients))
	identities := make([]string, 0, len(h.clients))
	for client := range h.clients {
		if _, dup := seen[client.identity]; dup {
			continue
		}
		seen[client.identity] = struct{}{}
		identities = append(identities, client.identity)
	}
	h.mu.RUnlock()

	h.tracker.SetPresent(identities)

	h.presenceMu.Lock()
	subs := make([]func([]string), len(h.presenceSubs))
	copy(subs, h.presenceSubs)
	h.presenceMu.Unlock()
	for _, fn := range subs {
		fn(identities)
	}

	h.broadcast(&Event{Type: "presence", Payload: &PresencePayload{Online: identities}})
}

// pushView recomputes one client's projected view from the latest
// snapshot and sends it. Visibility filtering always runs first.
func (h *Hub) pushView(client *Client) {
	visible := mailbox.Visible(h.latest, client.identity)
	counters := mailbox.Count(visible, client.identity)
	projected := mailbox.Project(visible, client.identity, client.folder, client.query)

	messages := make([]*domain.MessageResponse, len(projected))
	for i := range projected {
		messages[i] = projected[i].ToResponse()
	}

	h.send(client, &Event{
		Type: "snapshot",
		Payload: &SnapshotPayload{
			Folder:   string(client.folder),
			Query:    client.query,
			Messages: messages,
			Counters: counters,
		},
	})
}

func (h *Hub) broadcast(event *Event) {
	h.mu.RLock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.RUnlock()

	for _, client := range clients {
		h.send(client, event)
	}
}

func (h *Hub) send(client *Client, event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		pkglogger.GetLogger().Error().Err(err).Msg("ws event marshal failed")
		return
	}

	select {
	case client.send <- data:
	default:
		// Slow consumer: drop the connection rather than block the loop
		h.mu.Lock()
		if _, ok := h.clients[client]; ok {
			delete(h.clients, client)
			close(client.send)
			wsConnections.Dec()
		}
		h.mu.Unlock()
	}
}
