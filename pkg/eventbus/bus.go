package eventbus

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBufferSize bounds each subscriber's outbound queue. A full
// buffer means the subscriber's consumer (typically a WebSocket write
// loop in pkg/api) is falling behind; per SPEC_FULL.md §4.2 the bus treats
// that subscriber as disconnected rather than blocking the emitter.
const subscriberBufferSize = 64

// Subscriber is a single registered receiver for one user's events. The
// bus hands out a *Subscriber; the caller (e.g. the WebSocket handler)
// drains Events() until it returns false (channel closed).
type Subscriber struct {
	id     string
	userID string
	events chan Event
	closed bool
}

// Events returns the channel to range over for delivered events. The
// channel is closed by the bus when the subscriber is removed.
func (s *Subscriber) Events() <-chan Event { return s.events }

// Bus is the process-wide, per-user event fan-out. Safe for concurrent
// use; treated as a singleton per SPEC_FULL.md §5.
type Bus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]*Subscriber // userID -> subscriberID -> *Subscriber
}

func NewBus() *Bus {
	return &Bus{subscribers: make(map[string]map[string]*Subscriber)}
}

// Subscribe registers a new subscriber for userID and returns a handle.
// The caller must eventually call Unsubscribe to release resources
// (closing the underlying connection is not sufficient by itself).
func (b *Bus) Subscribe(userID string) *Subscriber {
	sub := &Subscriber{
		id:     uuid.New().String(),
		userID: userID,
		events: make(chan Event, subscriberBufferSize),
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[userID] == nil {
		b.subscribers[userID] = make(map[string]*Subscriber)
	}
	b.subscribers[userID][sub.id] = sub
	return sub
}

// Unsubscribe removes a subscriber and closes its channel. Idempotent.
func (b *Bus) Unsubscribe(sub *Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removeLocked(sub)
}

func (b *Bus) removeLocked(sub *Subscriber) {
	if sub.closed {
		return
	}
	sub.closed = true
	close(sub.events)
	if m, ok := b.subscribers[sub.userID]; ok {
		delete(m, sub.id)
		if len(m) == 0 {
			delete(b.subscribers, sub.userID)
		}
	}
}

// Emit delivers event to every subscriber of userID. Non-blocking per
// subscriber: a subscriber whose buffer is full is dropped (its channel
// closed, as if it had disconnected) and emission continues to the rest.
// Within one call to Emit, delivery order across subscribers is
// unspecified; across successive Emit calls for the same userID, FIFO
// per subscriber is preserved because each subscriber's channel is a FIFO
// queue and only this goroutine (serialised by b.mu for the snapshot)
// enqueues into it — matching the teacher's Broadcast: snapshot recipient
// pointers under the lock, then do the (potentially blocking, here
// non-blocking-by-construction) send outside it.
func (b *Bus) Emit(userID string, event Event) {
	b.mu.RLock()
	subs := b.subscribers[userID]
	snapshot := make([]*Subscriber, 0, len(subs))
	for _, s := range subs {
		snapshot = append(snapshot, s)
	}
	b.mu.RUnlock()

	var dropped []*Subscriber
	for _, s := range snapshot {
		select {
		case s.events <- event:
		default:
			slog.Warn("eventbus: subscriber buffer full, dropping subscriber",
				"user_id", userID, "subscriber_id", s.id)
			dropped = append(dropped, s)
		}
	}

	if len(dropped) == 0 {
		return
	}
	b.mu.Lock()
	for _, s := range dropped {
		b.removeLocked(s)
	}
	b.mu.Unlock()
}

// SubscriberCount reports the number of active subscribers for a user,
// used by observability handlers and tests.
func (b *Bus) SubscriberCount(userID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[userID])
}
