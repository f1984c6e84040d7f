package service

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/pkg/i18n"
	"github.com/nyc360/feed-engine/pkg/logger"
)

// DefaultIdleTTL is how long an untouched workspace is kept
const DefaultIdleTTL = 30 * time.Minute

// Registry owns the workspaces of all viewers, creating them on first use
// and evicting them once idle
type Registry struct {
	mu    sync.Mutex
	items map[string]*Workspace
	deps  Deps
	ttl   time.Duration
	clock clock.Clock
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithRegistryClock replaces the wall clock used for idle tracking
func WithRegistryClock(c clock.Clock) RegistryOption {
	return func(r *Registry) { r.clock = c }
}

// NewRegistry creates a Registry; a non-positive ttl means DefaultIdleTTL
func NewRegistry(deps Deps, ttl time.Duration, opts ...RegistryOption) *Registry {
	if ttl <= 0 {
		ttl = DefaultIdleTTL
	}
	r := &Registry{
		items: make(map[string]*Workspace),
		deps:  deps,
		ttl:   ttl,
		clock: clock.New(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Acquire returns the workspace of viewerKey, creating it when needed, and
// binds the request's user and locale to it
func (r *Registry) Acquire(viewerKey string, user *session.User, locale i18n.Locale) *Workspace {
	r.mu.Lock()
	w, ok := r.items[viewerKey]
	if !ok {
		w = NewWorkspace(viewerKey, r.deps)
		r.items[viewerKey] = w
		activeWorkspaces.Inc()
		logger.GetLogger().Debug().Str("viewer", viewerKey).Msg("workspace created")
	}
	w.Touch(r.clock.Now())
	r.mu.Unlock()

	w.SetLocale(locale)
	w.Session().Set(user)
	return w
}

// Lookup returns the workspace of viewerKey if it exists
func (r *Registry) Lookup(viewerKey string) (*Workspace, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.items[viewerKey]
	return w, ok
}

// Len returns the number of live workspaces
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}

// Sweep closes every workspace idle for longer than the TTL and returns how
// many were evicted
func (r *Registry) Sweep() int {
	cutoff := r.clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var idle []*Workspace
	for key, w := range r.items {
		if w.LastSeen().Before(cutoff) {
			idle = append(idle, w)
			delete(r.items, key)
		}
	}
	r.mu.Unlock()

	for _, w := range idle {
		w.Close()
		activeWorkspaces.Dec()
	}
	if len(idle) > 0 {
		logger.GetLogger().Info().Int("evicted", len(idle)).Msg("idle workspaces swept")
	}
	return len(idle)
}

// Run sweeps every interval until ctx ends
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := r.clock.Ticker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Close closes every workspace
func (r *Registry) Close() {
	r.mu.Lock()
	items := r.items
	r.items = make(map[string]*Workspace)
	r.mu.Unlock()

	for _, w := range items {
		w.Close()
		activeWorkspaces.Dec()
	}
}
