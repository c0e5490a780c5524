package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/coarpuno/recojo/internal/app/models"
	"github.com/coarpuno/recojo/internal/app/views"
)

// Message type discriminators so clients can route student and menu updates
// arriving on the same connection
const (
	snapshotTypeStudent = "STUDENT"
	snapshotTypeMenu    = "MENU"
)

// StudentSnapshot is one full-document update delivered to a subscriber.
// The store always delivers the complete current record; subscribers replace
// their cached copy rather than merging partial updates.
type StudentSnapshot struct {
	// Type is always "STUDENT"
	Type string `json:"type"`

	// The full student record as committed
	Student *models.Student `json:"student"`

	// View the receiving role should render for this state
	View views.View `json:"view"`

	// Alert is true exactly once per observed transition into PENDING on a
	// student's own subscription. Never set on the initial snapshot or on a
	// repeated delivery of the same status.
	Alert bool `json:"alert"`

	// CanRequest reports whether a parent may request a pickup in this state
	CanRequest bool `json:"canRequest"`

	// Timestamp when the snapshot was delivered
	Timestamp time.Time `json:"timestamp"`
}

// MenuSnapshot is one full daily menu update, broadcast to every subscriber
// regardless of which student it watches
type MenuSnapshot struct {
	// Type is always "MENU"
	Type string `json:"type"`

	// The full menu document as committed
	Menu *models.DailyMenu `json:"menu"`

	// Timestamp when the snapshot was delivered
	Timestamp time.Time `json:"timestamp"`
}

// Hub keeps every active subscription consistent with the store. Snapshots
// for one student are delivered in the order they were published; the single
// run loop is what guarantees that ordering.
type Hub struct {
	// Registered clients organized by the student ID they watch
	clients map[int64]map[*Client]bool

	// Committed student records waiting to be fanned out
	publish chan *models.Student

	// Committed menu documents waiting to be broadcast
	publishMenu chan *models.DailyMenu

	// Register requests from new subscribers
	register chan *Client

	// Unregister requests from subscribers tearing down
	unregister chan *Client

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	// Mutex for snapshot listeners
	listenersMu sync.RWMutex

	// In-process listeners that receive every published student record
	snapshotListeners []chan *models.Student

	// In-process listeners that receive every published menu
	menuListeners []chan *models.DailyMenu

	// Logger for Hub operations
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		publish:           make(chan *models.Student),
		publishMenu:       make(chan *models.DailyMenu),
		register:          make(chan *Client),
		unregister:        make(chan *Client),
		clients:           make(map[int64]map[*Client]bool),
		snapshotListeners: []chan *models.Student{},
		menuListeners:     []chan *models.DailyMenu{},
		logger:            logger,
	}
}

// Run starts the hub, handling registrations, teardowns and snapshot fan-out
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case student := <-h.publish:
			h.deliverSnapshot(student)

		case menu := <-h.publishMenu:
			h.deliverMenu(menu)
		}
	}
}

// registerClient adds a subscriber and sends it the initial snapshot. The
// initial snapshot primes the client's previous-status memory so the very
// first delivery can never fire an alert.
func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	studentID := client.studentID
	if _, ok := h.clients[studentID]; !ok {
		h.clients[studentID] = make(map[*Client]bool)
	}
	h.clients[studentID][client] = true

	if client.initial != nil {
		client.lastAuth = client.initial.PickupAuthorization
		client.primed = true
		h.sendSnapshot(client, client.initial, false)
		client.initial = nil
	}

	h.logger.Info().
		Int64("studentID", studentID).
		Int64("accountID", client.accountID).
		Str("role", string(client.role)).
		Msg("Subscriber registered")
}

// unregisterClient removes a subscriber. After this returns no further
// snapshot can reach the client, so a torn-down session never observes a
// stale update.
func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	studentID := client.studentID
	if _, ok := h.clients[studentID]; ok {
		if _, ok := h.clients[studentID][client]; ok {
			delete(h.clients[studentID], client)
			close(client.send)

			if len(h.clients[studentID]) == 0 {
				delete(h.clients, studentID)
			}

			h.logger.Info().
				Int64("studentID", studentID).
				Int64("accountID", client.accountID).
				Str("role", string(client.role)).
				Msg("Subscriber unregistered")
		}
	}
}

// deliverSnapshot fans a committed record out to everyone watching that
// student. The alert edge is computed per client against the status it last
// saw, so a repeated delivery of the same value stays silent.
func (h *Hub) deliverSnapshot(student *models.Student) {
	h.notifySnapshotListeners(student)

	h.mu.RLock()
	defer h.mu.RUnlock()

	clients, ok := h.clients[student.ID]
	if !ok {
		h.logger.Debug().
			Int64("studentID", student.ID).
			Msg("No subscribers for snapshot")
		return
	}

	for client := range clients {
		alert := client.role == models.RoleStudent &&
			client.primed &&
			client.lastAuth != models.PickupPending &&
			student.PickupAuthorization == models.PickupPending

		client.lastAuth = student.PickupAuthorization
		client.primed = true

		h.sendSnapshot(client, student, alert)
	}

	h.logger.Debug().
		Int64("studentID", student.ID).
		Int("subscriberCount", len(clients)).
		Str("pickupAuthorization", string(student.PickupAuthorization)).
		Msg("Snapshot delivered")
}

// deliverMenu broadcasts a committed menu document to every subscriber. The
// menu is school-wide, so it crosses all per-student groups.
func (h *Hub) deliverMenu(menu *models.DailyMenu) {
	h.notifyMenuListeners(menu)

	h.mu.RLock()
	defer h.mu.RUnlock()

	data, err := json.Marshal(MenuSnapshot{
		Type:      snapshotTypeMenu,
		Menu:      menu,
		Timestamp: time.Now(),
	})
	if err != nil {
		h.logger.Error().Err(err).Msg("Failed to marshal menu snapshot")
		return
	}

	delivered := 0
	for _, clients := range h.clients {
		for client := range clients {
			h.queue(client, data)
			delivered++
		}
	}

	h.logger.Debug().
		Int("subscriberCount", delivered).
		Msg("Menu broadcast delivered")
}

// sendSnapshot marshals and queues one snapshot for one client
func (h *Hub) sendSnapshot(client *Client, student *models.Student, alert bool) {
	snapshot := StudentSnapshot{
		Type:       snapshotTypeStudent,
		Student:    student,
		View:       views.Resolve(client.role, student.PickupAuthorization),
		Alert:      alert,
		CanRequest: student.PickupAuthorization.CanRequestPickup(),
		Timestamp:  time.Now(),
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		h.logger.Error().
			Err(err).
			Int64("studentID", student.ID).
			Msg("Failed to marshal snapshot")
		return
	}

	h.queue(client, data)
}

// queue hands one marshalled message to a client's send buffer
func (h *Hub) queue(client *Client, data []byte) {
	select {
	case client.send <- data:
	default:
		// Send buffer full: the client is slow or already gone. Kick it off
		// the hub so it reconnects with a fresh initial snapshot. Done from a
		// separate goroutine because the run loop may be holding h.mu here.
		h.logger.Warn().
			Int64("studentID", client.studentID).
			Int64("accountID", client.accountID).
			Msg("Subscriber send buffer full, dropping connection")
		go func() { h.unregister <- client }()
	}
}

// notifySnapshotListeners forwards a published record to in-process listeners
func (h *Hub) notifySnapshotListeners(student *models.Student) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.snapshotListeners {
		select {
		case listener <- student:
		default:
			h.logger.Warn().Msg("Skipped slow snapshot listener")
		}
	}
}

// notifyMenuListeners forwards a published menu to in-process listeners
func (h *Hub) notifyMenuListeners(menu *models.DailyMenu) {
	h.listenersMu.RLock()
	defer h.listenersMu.RUnlock()

	for _, listener := range h.menuListeners {
		select {
		case listener <- menu:
		default:
			h.logger.Warn().Msg("Skipped slow menu listener")
		}
	}
}

// PublishStudent hands a freshly committed student record to the hub. Services
// call this after the store acknowledges the write, never before.
func (h *Hub) PublishStudent(student *models.Student) {
	h.publish <- student
}

// PublishMenu hands a freshly committed menu document to the hub
func (h *Hub) PublishMenu(menu *models.DailyMenu) {
	h.publishMenu <- menu
}

// SubscriberCount returns the number of active subscriptions for a student
func (h *Hub) SubscriberCount(studentID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if clients, ok := h.clients[studentID]; ok {
		return len(clients)
	}
	return 0
}

// AddSnapshotListener registers a channel to receive every published record
func (h *Hub) AddSnapshotListener(listener chan *models.Student) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.snapshotListeners = append(h.snapshotListeners, listener)
}

// RemoveSnapshotListener removes a listener from the hub
func (h *Hub) RemoveSnapshotListener(listener chan *models.Student) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.snapshotListeners {
		if l == listener {
			h.snapshotListeners[i] = h.snapshotListeners[len(h.snapshotListeners)-1]
			h.snapshotListeners = h.snapshotListeners[:len(h.snapshotListeners)-1]
			break
		}
	}
}

// AddMenuListener registers a channel to receive every published menu
func (h *Hub) AddMenuListener(listener chan *models.DailyMenu) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	h.menuListeners = append(h.menuListeners, listener)
}

// RemoveMenuListener removes a menu listener from the hub
func (h *Hub) RemoveMenuListener(listener chan *models.DailyMenu) {
	h.listenersMu.Lock()
	defer h.listenersMu.Unlock()

	for i, l := range h.menuListeners {
		if l == listener {
			h.menuListeners[i] = h.menuListeners[len(h.menuListeners)-1]
			h.menuListeners = h.menuListeners[:len(h.menuListeners)-1]
			break
		}
	}
}
