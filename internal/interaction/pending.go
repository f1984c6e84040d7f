package interaction

import "context"

// Pending tracks the server confirmation of one action. Done is closed once
// the local state has been reconciled.
type Pending struct {
	done chan struct{}
	err  error
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

func (p *Pending) finish(err error) {
	p.err = err
	close(p.done)
}

// Done is closed when the action has settled
func (p *Pending) Done() <-chan struct{} { return p.done }

// Err returns the confirmation error. Only meaningful after Done is closed.
func (p *Pending) Err() error {
	select {
	case <-p.done:
		return p.err
	default:
		return nil
	}
}

// Wait blocks until the action settles or ctx ends
func (p *Pending) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return p.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settled returns an already finished Pending for actions that never leave the caller
func settled() *Pending {
	p := newPending()
	p.finish(nil)
	return p
}
