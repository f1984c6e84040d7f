// Package interaction drives the viewer's reactions, saves, shares and
// community joins: local state changes first and is reconciled once the
// server answers.
package interaction

import (
	"context"
	"errors"
	"sync"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/optimistic"
	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/pkg/i18n"
	"github.com/nyc360/feed-engine/pkg/logger"
)

// Submitter sends interactions upstream
type Submitter interface {
	Interact(ctx context.Context, postID int64, kind domain.InteractionType) error
	SetSaved(ctx context.Context, postID int64, saved bool) error
	Share(ctx context.Context, postID int64) error
	JoinCommunity(ctx context.Context, communityID int64) error
}

// Notifier shows outcome messages to the viewer
type Notifier interface {
	Success(message, title string) string
	Error(message, title string, details ...string) string
	Info(message, title string) string
	Warning(message, title string) string
}

type (
	reactionLedger = optimistic.Ledger[Reaction, domain.InteractionType]
	saveLedger     = optimistic.Ledger[bool, bool]
)

// Machine applies optimistic mutations to posts owned by one workspace.
//
// Every exported method must be called with the workspace lock held. The
// confirmation runs in its own goroutine and takes the same lock before it
// touches any post.
type Machine struct {
	mu      sync.Locker
	api     Submitter
	notify  Notifier
	session session.Reader
	t       i18n.Translator

	reactions map[*domain.Post]*reactionLedger
	saves     map[*domain.Post]*saveLedger
}

// NewMachine wires a machine to its collaborators. mu is the workspace lock.
func NewMachine(mu sync.Locker, api Submitter, notify Notifier, sess session.Reader, t i18n.Translator) *Machine {
	if t == nil {
		t = func(key string, _ ...any) string { return key }
	}
	return &Machine{
		mu:        mu,
		api:       api,
		notify:    notify,
		session:   sess,
		t:         t,
		reactions: make(map[*domain.Post]*reactionLedger),
		saves:     make(map[*domain.Post]*saveLedger),
	}
}

// ToggleInteraction flips the viewer's like or dislike on post immediately and
// submits it. If the server rejects it the post returns to the reaction it
// showed right before this click, even when later clicks are still in flight.
func (m *Machine) ToggleInteraction(ctx context.Context, post *domain.Post, kind domain.InteractionType) (*Pending, error) {
	if post == nil {
		return nil, common.ErrPostNotFound
	}
	if !kind.Valid() {
		return nil, common.ErrInvalidInteraction
	}
	if m.session.Current() == nil {
		m.notify.Info(m.t("post.login_required"), m.t("toast.title.info"))
		return nil, common.ErrLoginRequired
	}

	ledger, ok := m.reactions[post]
	if !ok {
		ledger = optimistic.New(Toggle)
		m.reactions[post] = ledger
	}
	ticket, next := ledger.Do(ReactionOf(post), kind)
	next.applyTo(post)
	mutationsApplied.WithLabelValues("reaction").Inc()

	postID := post.ID
	return m.settle(ctx, func(ctx context.Context) error {
		return m.api.Interact(ctx, postID, kind)
	}, func(err error) {
		if err == nil {
			ledger.Confirm(ticket)
			mutationsSettled.WithLabelValues("reaction", outcomeConfirmed).Inc()
		} else {
			if before, ok := ledger.Fail(ticket); ok {
				before.applyTo(post)
			}
			mutationsSettled.WithLabelValues("reaction", outcomeRolledBack).Inc()
			logger.GetLogger().Warn().Err(err).Int64("post_id", postID).Str("kind", kind.String()).Msg("reaction rolled back")
			m.failure(err, "post.interact_failed")
		}
		if ledger.Idle() && m.reactions[post] == ledger {
			delete(m.reactions, post)
		}
	}), nil
}

// ToggleSave flips the saved flag on post and submits the new value
func (m *Machine) ToggleSave(ctx context.Context, post *domain.Post) (*Pending, error) {
	if post == nil {
		return nil, common.ErrPostNotFound
	}
	if m.session.Current() == nil {
		m.notify.Info(m.t("post.login_required"), m.t("toast.title.info"))
		return nil, common.ErrLoginRequired
	}

	ledger, ok := m.saves[post]
	if !ok {
		ledger = optimistic.New(setSaved)
		m.saves[post] = ledger
	}
	want := !post.IsSaved
	ticket, next := ledger.Do(post.IsSaved, want)
	post.IsSaved = next
	mutationsApplied.WithLabelValues("save").Inc()

	postID := post.ID
	return m.settle(ctx, func(ctx context.Context) error {
		return m.api.SetSaved(ctx, postID, want)
	}, func(err error) {
		if err == nil {
			ledger.Confirm(ticket)
			mutationsSettled.WithLabelValues("save", outcomeConfirmed).Inc()
			if want {
				m.notify.Success(m.t("post.saved"), m.t("toast.title.success"))
			} else {
				m.notify.Success(m.t("post.unsaved"), m.t("toast.title.success"))
			}
		} else {
			if before, ok := ledger.Fail(ticket); ok {
				post.IsSaved = before
			}
			mutationsSettled.WithLabelValues("save", outcomeRolledBack).Inc()
			logger.GetLogger().Warn().Err(err).Int64("post_id", postID).Bool("saved", want).Msg("save rolled back")
			m.failure(err, "post.save_failed")
		}
		if ledger.Idle() && m.saves[post] == ledger {
			delete(m.saves, post)
		}
	}), nil
}

// Share records a share. Nothing changes locally until the server accepts it.
func (m *Machine) Share(ctx context.Context, post *domain.Post) (*Pending, error) {
	if post == nil {
		return nil, common.ErrPostNotFound
	}
	if m.session.Current() == nil {
		m.notify.Info(m.t("post.login_required"), m.t("toast.title.info"))
		return nil, common.ErrLoginRequired
	}

	postID := post.ID
	return m.settle(ctx, func(ctx context.Context) error {
		return m.api.Share(ctx, postID)
	}, func(err error) {
		if err != nil {
			m.failure(err, "post.share_failed")
			return
		}
		post.Stats.Shares++
		m.notify.Success(m.t("post.shared"), m.t("toast.title.success"))
	}), nil
}

// JoinCommunity joins a suggested community. A suggestion already joined or
// with a join in flight is left alone; the joined flag only changes once the
// server accepts the request.
func (m *Machine) JoinCommunity(ctx context.Context, c *domain.CommunitySuggestion) (*Pending, error) {
	if c == nil {
		return nil, common.ErrCommunityNotFound
	}
	if m.session.Current() == nil {
		m.notify.Info(m.t("community.login_required"), m.t("toast.title.info"))
		return nil, common.ErrLoginRequired
	}
	if c.IsJoined || c.IsLoadingJoin {
		joinsTotal.WithLabelValues(outcomeSkipped).Inc()
		return settled(), nil
	}

	c.IsLoadingJoin = true
	communityID := c.ID
	return m.settle(ctx, func(ctx context.Context) error {
		return m.api.JoinCommunity(ctx, communityID)
	}, func(err error) {
		c.IsLoadingJoin = false
		if err != nil {
			joinsTotal.WithLabelValues(outcomeFailed).Inc()
			logger.GetLogger().Warn().Err(err).Int64("community_id", communityID).Msg("join failed")
			if apiErr, ok := common.AsAPIError(err); ok {
				m.notify.Error(orKey(apiErr.Message, m.t("community.join_failed")), m.t("toast.title.error"))
			} else {
				m.notify.Error(m.t("community.join_error"), m.t("toast.title.error"))
			}
			return
		}
		c.IsJoined = true
		c.MemberCount++
		joinsTotal.WithLabelValues(outcomeConfirmed).Inc()
		m.notify.Success(m.t("community.joined", c.Name), m.t("toast.title.success"))
	}), nil
}

// settle runs call without the lock, then applies the outcome under it.
// The request is detached from ctx cancellation so a navigation away does
// not strand an optimistic change.
func (m *Machine) settle(ctx context.Context, call func(context.Context) error, apply func(error)) *Pending {
	p := newPending()
	reqCtx := context.WithoutCancel(ctx)
	go func() {
		err := call(reqCtx)
		m.mu.Lock()
		apply(err)
		m.mu.Unlock()
		p.finish(err)
	}()
	return p
}

// failure shows a business error as reported, anything else as a network error
func (m *Machine) failure(err error, fallbackKey string) {
	if apiErr, ok := common.AsAPIError(err); ok {
		m.notify.Error(orKey(apiErr.Message, m.t(fallbackKey)), m.t("toast.title.error"))
		return
	}
	if common.IsTransport(err) || errors.Is(err, context.DeadlineExceeded) {
		m.notify.Error(m.t("toast.network_error"), m.t("toast.title.network"))
		return
	}
	m.notify.Error(m.t(fallbackKey), m.t("toast.title.error"))
}

func orKey(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}
