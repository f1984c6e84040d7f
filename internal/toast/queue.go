// Package toast implements the transient notification queue shown to a viewer.
package toast

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
)

// Kind is the visual category of a toast
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindWarning Kind = "warning"
)

// Default lifetimes per kind
const (
	DurationSuccess    = 4 * time.Second
	DurationInfo       = 4 * time.Second
	DurationWarning    = 5 * time.Second
	DurationError      = 6 * time.Second
	DurationValidation = 8 * time.Second
)

// DefaultDuration returns the lifetime of a toast of kind k
func DefaultDuration(k Kind) time.Duration {
	switch k {
	case KindWarning:
		return DurationWarning
	case KindError:
		return DurationError
	default:
		return DurationSuccess
	}
}

// Toast is one visible notification
type Toast struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	Kind      Kind      `json:"type"`
	Title     string    `json:"title,omitempty"`
	Details   []string  `json:"details,omitempty"`
	Duration  int64     `json:"duration"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notice describes a toast to show. A zero Duration means the kind default;
// Sticky toasts never expire on their own.
type Notice struct {
	Message  string
	Kind     Kind
	Title    string
	Details  []string
	Duration time.Duration
	Sticky   bool
}

type armedTimer struct {
	timer *clock.Timer
	gen   uint64
}

// Snapshot is the visible list at one change. Version grows with every
// change, so a receiver can drop a snapshot that arrives after a newer one.
type Snapshot struct {
	Version uint64  `json:"version"`
	Toasts  []Toast `json:"toasts"`
}

// Observer receives the full list after every change. Observers may run
// concurrently and out of order; compare versions.
type Observer func(Snapshot)

// Queue is an ordered list of toasts, each with its own expiry timer
type Queue struct {
	mu        sync.Mutex
	clock     clock.Clock
	items     []Toast
	timers    map[string]armedTimer
	gen       uint64
	version   uint64
	observers map[int]Observer
	nextObs   int
	newID     func() string
}

// Option configures a Queue
type Option func(*Queue)

// WithClock replaces the wall clock, mostly for tests
func WithClock(c clock.Clock) Option {
	return func(q *Queue) { q.clock = c }
}

// WithIDGenerator replaces the uuid based id generator
func WithIDGenerator(fn func() string) Option {
	return func(q *Queue) { q.newID = fn }
}

// NewQueue creates an empty queue
func NewQueue(opts ...Option) *Queue {
	q := &Queue{
		clock:     clock.New(),
		timers:    make(map[string]armedTimer),
		observers: make(map[int]Observer),
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Show appends a toast and arms its expiry timer. It returns the toast id.
func (q *Queue) Show(n Notice) string {
	if n.Kind == "" {
		n.Kind = KindInfo
	}
	d := n.Duration
	if d <= 0 {
		d = DefaultDuration(n.Kind)
	}

	q.mu.Lock()
	id := q.uniqueID()
	t := Toast{
		ID:        id,
		Message:   n.Message,
		Kind:      n.Kind,
		Title:     n.Title,
		Details:   append([]string(nil), n.Details...),
		CreatedAt: q.clock.Now(),
	}
	if !n.Sticky {
		t.Duration = d.Milliseconds()
		q.gen++
		gen := q.gen
		q.timers[id] = armedTimer{
			timer: q.clock.AfterFunc(d, func() { q.expire(id, gen) }),
			gen:   gen,
		}
	}
	q.items = append(q.items, t)
	snapshot, observers := q.snapshotLocked()
	q.mu.Unlock()

	notify(observers, snapshot)
	return id
}

// Dismiss removes a toast immediately and cancels its timer. Unknown ids are
// ignored; the return value reports whether anything was removed.
func (q *Queue) Dismiss(id string) bool {
	q.mu.Lock()
	if armed, ok := q.timers[id]; ok {
		armed.timer.Stop()
		delete(q.timers, id)
	}
	removed := q.removeLocked(id)
	if !removed {
		q.mu.Unlock()
		return false
	}
	snapshot, observers := q.snapshotLocked()
	q.mu.Unlock()

	notify(observers, snapshot)
	return true
}

// Clear removes every toast and cancels all timers
func (q *Queue) Clear() {
	q.mu.Lock()
	for id, armed := range q.timers {
		armed.timer.Stop()
		delete(q.timers, id)
	}
	q.items = nil
	snapshot, observers := q.snapshotLocked()
	q.mu.Unlock()

	notify(observers, snapshot)
}

// List returns a copy of the visible toasts in insertion order
func (q *Queue) List() []Toast {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.copyLocked()
}

// Current returns the visible list with the version of the last change
func (q *Queue) Current() Snapshot {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Snapshot{Version: q.version, Toasts: q.copyLocked()}
}

// Len returns the number of visible toasts
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Subscribe registers an observer and returns its unsubscribe function
func (q *Queue) Subscribe(fn Observer) func() {
	q.mu.Lock()
	id := q.nextObs
	q.nextObs++
	q.observers[id] = fn
	q.mu.Unlock()

	return func() {
		q.mu.Lock()
		delete(q.observers, id)
		q.mu.Unlock()
	}
}

func (q *Queue) expire(id string, gen uint64) {
	q.mu.Lock()
	if armed, ok := q.timers[id]; !ok || armed.gen != gen {
		// dismissed before the timer fired, or the id now belongs to a newer toast
		q.mu.Unlock()
		return
	}
	delete(q.timers, id)
	q.removeLocked(id)
	snapshot, observers := q.snapshotLocked()
	q.mu.Unlock()

	notify(observers, snapshot)
}

func (q *Queue) uniqueID() string {
	for {
		id := q.newID()
		if !q.hasLocked(id) {
			return id
		}
	}
}

func (q *Queue) hasLocked(id string) bool {
	for _, t := range q.items {
		if t.ID == id {
			return true
		}
	}
	return false
}

func (q *Queue) removeLocked(id string) bool {
	for i, t := range q.items {
		if t.ID == id {
			q.items = append(q.items[:i], q.items[i+1:]...)
			return true
		}
	}
	return false
}

// snapshotLocked records a change and returns what the observers get
func (q *Queue) snapshotLocked() (Snapshot, []Observer) {
	q.version++
	snapshot := Snapshot{Version: q.version, Toasts: q.copyLocked()}
	observers := make([]Observer, 0, len(q.observers))
	for _, o := range q.observers {
		observers = append(observers, o)
	}
	return snapshot, observers
}

func (q *Queue) copyLocked() []Toast {
	out := make([]Toast, len(q.items))
	copy(out, q.items)
	return out
}

func notify(observers []Observer, snapshot Snapshot) {
	for _, o := range observers {
		o(snapshot)
	}
}
