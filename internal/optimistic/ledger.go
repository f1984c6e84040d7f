// Package optimistic applies local mutations ahead of server confirmation and
// reconciles them once the outcome is known.
//
// A Ledger hands out one ticket per local mutation and remembers the state
// captured at that moment. Confirming a ticket forgets the capture; failing
// it returns the captured state so the caller can put it back, whatever
// happened in between.
package optimistic

// Ticket identifies one pending operation
type Ticket uint64

type entry[S any] struct {
	ticket Ticket
	before S
}

// ApplyFunc returns the state after op. It must not mutate s in place.
type ApplyFunc[S, Op any] func(s S, op Op) S

// Ledger is not safe for concurrent use; callers serialize access.
type Ledger[S, Op any] struct {
	pending []entry[S]
	apply   ApplyFunc[S, Op]
	next    Ticket
}

// New creates an empty ledger
func New[S, Op any](apply ApplyFunc[S, Op]) *Ledger[S, Op] {
	return &Ledger[S, Op]{apply: apply}
}

// Do captures current, applies op to it and returns the ticket together with
// the state to show.
func (l *Ledger[S, Op]) Do(current S, op Op) (Ticket, S) {
	l.next++
	t := l.next
	l.pending = append(l.pending, entry[S]{ticket: t, before: current})
	return t, l.apply(current, op)
}

// Confirm forgets the capture of t. It reports false for unknown tickets.
func (l *Ledger[S, Op]) Confirm(t Ticket) bool {
	i := l.index(t)
	if i < 0 {
		return false
	}
	l.remove(i)
	return true
}

// Fail returns the state captured when t was issued. It reports false for
// unknown tickets, in which case nothing should be restored.
func (l *Ledger[S, Op]) Fail(t Ticket) (S, bool) {
	i := l.index(t)
	if i < 0 {
		var zero S
		return zero, false
	}
	before := l.pending[i].before
	l.remove(i)
	return before, true
}

// Pending returns the number of operations awaiting an answer
func (l *Ledger[S, Op]) Pending() int { return len(l.pending) }

// Idle reports whether nothing is in flight
func (l *Ledger[S, Op]) Idle() bool { return len(l.pending) == 0 }

func (l *Ledger[S, Op]) remove(i int) {
	l.pending = append(l.pending[:i], l.pending[i+1:]...)
}

func (l *Ledger[S, Op]) index(t Ticket) int {
	for i, e := range l.pending {
		if e.ticket == t {
			return i
		}
	}
	return -1
}
