package broadcast

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

type EventKind string

const (
	EventBookingCreated     EventKind = "booking-created"
	EventBookingCancelled   EventKind = "booking-cancelled"
	EventBookingRescheduled EventKind = "booking-rescheduled"

	// eventConnected is sent once per new listener as a liveness
	// confirmation; it carries a message only, never booking data.
	eventConnected EventKind = "connected"
)

// BookingPayload is the wire payload for booking lifecycle events.
type BookingPayload struct {
	BookingID string    `json:"booking_id"`
	RoomID    string    `json:"room_id"`
	RoomName  string    `json:"room_name,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
}

// Event is a serialized event ready to be written to a listener.
type Event struct {
	Kind EventKind
	Data []byte
}

// clientBuffer bounds how far a listener may lag before it is dropped.
const clientBuffer = 16

type Client struct {
	mu     sync.Mutex
	closed bool
	events chan Event
}

// Events returns the receive side of the client's event channel. The
// channel is closed when the client is dropped by the broadcaster.
func (c *Client) Events() <-chan Event {
	return c.events
}

// send enqueues an event without blocking. It reports false when the
// client is closed or its buffer is full.
func (c *Client) send(event Event) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.events <- event:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.events)
	}
}

// Broadcaster fans booking lifecycle events out to subscribed
// listeners. Delivery is best-effort and at-most-once: a listener that
// cannot keep up is dropped, and no event is ever persisted or
// replayed. Listeners must re-fetch current state after (re)connecting.
type Broadcaster struct {
	mu      sync.Mutex
	clients map[*Client]struct{}
	log     *zap.Logger
}

func NewBroadcaster(log *zap.Logger) *Broadcaster {
	return &Broadcaster{
		clients: make(map[*Client]struct{}),
		log:     log.With(zap.String("component", "broadcaster")),
	}
}

// Subscribe registers a new listener and queues the connected greeting
// as its first event.
func (b *Broadcaster) Subscribe() *Client {
	client := &Client{events: make(chan Event, clientBuffer)}

	greeting, _ := json.Marshal(map[string]string{"message": "Connected to booking stream"})
	client.send(Event{Kind: eventConnected, Data: greeting})

	b.mu.Lock()
	b.clients[client] = struct{}{}
	total := len(b.clients)
	b.mu.Unlock()

	b.log.Info("Stream client connected", zap.Int("total_clients", total))
	return client
}

// Unsubscribe removes a listener. Safe to call more than once and safe
// to call concurrently with Publish.
func (b *Broadcaster) Unsubscribe(client *Client) {
	b.mu.Lock()
	_, ok := b.clients[client]
	if ok {
		delete(b.clients, client)
	}
	total := len(b.clients)
	b.mu.Unlock()

	if ok {
		client.close()
		b.log.Info("Stream client disconnected", zap.Int("total_clients", total))
	}
}

// Publish delivers the event to every registered listener. A listener
// whose buffer is full is dropped from the registry; delivery to the
// others continues. Publish never fails the caller.
func (b *Broadcaster) Publish(kind EventKind, payload BookingPayload) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.Error("Failed to marshal event payload",
			zap.Error(err),
			zap.String("kind", string(kind)),
		)
		return
	}

	// Snapshot the registry so slow-client removal does not mutate the
	// map while we iterate.
	b.mu.Lock()
	snapshot := make([]*Client, 0, len(b.clients))
	for client := range b.clients {
		snapshot = append(snapshot, client)
	}
	b.mu.Unlock()

	b.log.Info("Broadcasting event",
		zap.String("kind", string(kind)),
		zap.Int("clients", len(snapshot)),
	)

	event := Event{Kind: kind, Data: data}
	for _, client := range snapshot {
		if !client.send(event) {
			// Listener is not draining its channel, drop it.
			b.log.Warn("Dropping slow stream client")
			b.Unsubscribe(client)
		}
	}
}

// ClientCount reports the number of registered listeners.
func (b *Broadcaster) ClientCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.clients)
}
