// Package session holds the signed-in viewer for one workspace.
package session

import (
	"strconv"
	"sync"

	"github.com/nyc360/feed-engine/pkg/logger"
)

// RoleAdmin may edit or delete any post
const RoleAdmin = "Admin"

// User is the read-only identity of the current viewer
type User struct {
	ID       int64    `json:"id"`
	Username string   `json:"username"`
	FullName string   `json:"fullName,omitempty"`
	Roles    []string `json:"roles,omitempty"`
	Token    string   `json:"-"`
}

// HasRole reports whether the user carries role
func (u *User) HasRole(role string) bool {
	if u == nil {
		return false
	}
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the user is an administrator
func (u *User) IsAdmin() bool { return u.HasRole(RoleAdmin) }

// IDString formats the user id the way author identities are compared
func (u *User) IDString() string {
	if u == nil {
		return ""
	}
	return strconv.FormatInt(u.ID, 10)
}

// Reader exposes the current viewer without allowing changes
type Reader interface {
	Current() *User
}

// Listener is called after the user changes; nil means signed out
type Listener func(*User)

type subscription struct {
	name string
	fn   Listener
}

// Store keeps the current user and notifies named listeners on change
type Store struct {
	mu        sync.RWMutex
	user      *User
	listeners []subscription
}

// NewStore creates a store, optionally signed in
func NewStore(user *User) *Store {
	return &Store{user: user}
}

// Current returns the signed-in user or nil
func (s *Store) Current() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// LoggedIn reports whether a user is present
func (s *Store) LoggedIn() bool { return s.Current() != nil }

// Set replaces the user and notifies listeners in registration order.
// The same user id with a refreshed token, name or roles is stored without
// notifying anyone: it is still the same viewer.
func (s *Store) Set(user *User) {
	s.mu.Lock()
	if sameIdentity(s.user, user) {
		s.user = user
		s.mu.Unlock()
		return
	}
	s.user = user
	subs := make([]subscription, len(s.listeners))
	copy(subs, s.listeners)
	s.mu.Unlock()

	for _, sub := range subs {
		func() {
			defer func() {
				if r := recover(); r != nil {
					logger.GetLogger().Error().Str("listener", sub.name).Interface("panic", r).Msg("session listener panicked")
				}
			}()
			sub.fn(user)
		}()
	}
}

// Subscribe registers fn under name, replacing an earlier listener with the same name
func (s *Store) Subscribe(name string, fn Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.listeners {
		if sub.name == name {
			s.listeners[i].fn = fn
			return
		}
	}
	s.listeners = append(s.listeners, subscription{name: name, fn: fn})
}

// Unsubscribe removes the listener registered under name
func (s *Store) Unsubscribe(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.listeners {
		if sub.name == name {
			s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
			return
		}
	}
}

func sameIdentity(a, b *User) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.ID == b.ID
}
