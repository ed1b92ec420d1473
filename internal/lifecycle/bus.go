package lifecycle

import (
	"sync"

	"github.com/google/uuid"

	"cardswap/internal/gamedb"
)

type EventKind string

const (
	SessionStarted EventKind = "session.started"
	SessionEnded   EventKind = "session.ended"
)

// Event is one lifecycle transition reported by the host frontend. The same
// SessionID must accompany the start and end of a run.
type Event struct {
	Kind      EventKind
	SessionID string
	Game      gamedb.Game
}

// NewSessionID mints an identity for hosts that do not supply one.
func NewSessionID() string {
	return uuid.NewString()
}

// Bus fans lifecycle events out to subscribers. Unlike a fire-and-forget
// notification bus, publishes block rather than drop: a lost session-end
// would leak an override. Publishers hold the read lock across the send, so
// Close cannot close a channel mid-send; it waits until in-flight publishes
// have drained.
type Bus struct {
	mu     sync.RWMutex
	subs   []chan Event
	closed bool
}

func NewBus() *Bus {
	return &Bus{}
}

func (b *Bus) Subscribe() <-chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ch := make(chan Event)
		close(ch)
		return ch
	}
	ch := make(chan Event, 16)
	b.subs = append(b.subs, ch)
	return ch
}

func (b *Bus) Publish(evt Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		ch <- evt
	}
}

func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		close(ch)
	}
	b.closed = true
}
