package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/nyc360/feed-engine/internal/comment"
	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/internal/toast"
	"github.com/nyc360/feed-engine/pkg/i18n"
	"github.com/nyc360/feed-engine/pkg/logger"
)

// Deps are the collaborators shared by every workspace
type Deps struct {
	Upstream   UpstreamFactory
	Aggregator *feed.Aggregator
	Presenter  *Presenter
	Bundle     *i18n.Bundle
	Toasts     []toast.Option
	// Push receives a viewer's toast list after every change, in version
	// order. It must not block.
	Push func(viewerKey string, s toast.Snapshot)
}

// Workspace is the view state of one viewer: session, toasts and the
// loaded views.
//
// mu is the viewer's UI thread. Views take it around every state change; the
// interaction machine expects it held and re-acquires it when a request
// settles; the comment service takes it only to insert.
type Workspace struct {
	mu  sync.Mutex
	key string
	log zerolog.Logger

	api      Upstream
	session  *session.Store
	toasts   *toast.Queue
	machine  *interaction.Machine
	comments *comment.Service
	present  *Presenter
	bundle   *i18n.Bundle

	locale   atomic.Value
	lastSeen atomic.Int64
	stopPush func()
	pushMu   sync.Mutex
	pushed   uint64

	Home       *HomeView
	Post       *PostView
	List       *ListView
	Community  *CommunityView
	Profession *ProfessionView
	Profile    *ProfileView
}

// NewWorkspace creates the workspace of viewerKey
func NewWorkspace(viewerKey string, deps Deps) *Workspace {
	w := &Workspace{
		key:     viewerKey,
		log:     logger.WithViewer(viewerKey),
		session: session.NewStore(nil),
		toasts:  toast.NewQueue(deps.Toasts...),
		present: deps.Presenter,
		bundle:  deps.Bundle,
	}
	if w.bundle == nil {
		w.bundle = i18n.Default()
	}
	w.locale.Store(i18n.LocaleEn)
	w.lastSeen.Store(time.Now().UnixNano())

	w.api = deps.Upstream(w.token)
	w.machine = interaction.NewMachine(&w.mu, w.api, w.toasts, w.session, w.T)
	w.comments = comment.NewService(&w.mu, w.api, w.toasts, w.session, w.T)

	aggregator := deps.Aggregator
	if aggregator == nil {
		aggregator = feed.NewAggregator(feed.Options{})
	}
	w.Home = &HomeView{ws: w, agg: aggregator}
	w.Post = &PostView{ws: w}
	w.List = &ListView{ws: w}
	w.Community = &CommunityView{ws: w}
	w.Profession = &ProfessionView{ws: w}
	w.Profile = &ProfileView{ws: w}

	w.session.Subscribe("workspace", w.onSessionChange)
	if deps.Push != nil {
		w.stopPush = w.toasts.Subscribe(func(s toast.Snapshot) {
			w.push(deps.Push, s)
		})
	}
	return w
}

// Key returns the viewer key
func (w *Workspace) Key() string { return w.key }

// Session returns the viewer's session
func (w *Workspace) Session() *session.Store { return w.session }

// Toasts returns the viewer's toast queue
func (w *Workspace) Toasts() *toast.Queue { return w.toasts }

// SetLocale selects the language of toast messages
func (w *Workspace) SetLocale(l i18n.Locale) {
	if l == "" {
		l = i18n.LocaleEn
	}
	w.locale.Store(l)
}

// Locale returns the current message language
func (w *Workspace) Locale() i18n.Locale {
	return w.locale.Load().(i18n.Locale)
}

// T translates key into the workspace locale
func (w *Workspace) T(key string, args ...any) string {
	return w.bundle.T(w.Locale(), key, args...)
}

// requireLogin shows msgKey and fails when nobody is signed in. Callers
// check it before looking anything up, so an anonymous viewer is always asked
// to log in rather than told the post is missing.
func (w *Workspace) requireLogin(msgKey string) error {
	if w.session.Current() != nil {
		return nil
	}
	w.toasts.Info(w.T(msgKey), w.T("toast.title.info"))
	return common.ErrLoginRequired
}

// Touch records activity at now
func (w *Workspace) Touch(now time.Time) {
	w.lastSeen.Store(now.UnixNano())
}

// LastSeen returns the time of the last activity
func (w *Workspace) LastSeen() time.Time {
	return time.Unix(0, w.lastSeen.Load())
}

// Close releases the workspace. Requests still in flight settle into
// detached state.
func (w *Workspace) Close() {
	w.session.Unsubscribe("workspace")
	if w.stopPush != nil {
		w.stopPush()
	}
	w.toasts.Clear()
}

// push forwards s unless a newer snapshot already went out. Observers of
// concurrent changes may run in any order; this keeps the stream monotonic.
func (w *Workspace) push(fn func(string, toast.Snapshot), s toast.Snapshot) {
	w.pushMu.Lock()
	defer w.pushMu.Unlock()
	if s.Version <= w.pushed {
		return
	}
	w.pushed = s.Version
	fn(w.key, s)
}

func (w *Workspace) token() string {
	if u := w.session.Current(); u != nil {
		return u.Token
	}
	return ""
}

// onSessionChange drops everything loaded for the previous user. Per-user
// flags such as the reaction and the saved mark are not valid across users.
func (w *Workspace) onSessionChange(u *session.User) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.Home.reset()
	w.Post.reset()
	w.List.reset()
	w.Community.reset()
	w.Profession.reset()
	w.Profile.reset()
	w.log.Debug().Bool("logged_in", u != nil).Msg("session changed, views reset")
}

// loadFailed toasts a failed load. A business rejection shows the server's
// message; anything else shows fallbackKey. Loads abandoned by the caller
// stay silent.
func (w *Workspace) loadFailed(ctx context.Context, err error, fallbackKey string) {
	if ctx.Err() != nil {
		return
	}
	if apiErr, ok := common.AsAPIError(err); ok && apiErr.Message != "" {
		w.toasts.Error(apiErr.Message, w.T("toast.title.error"))
		return
	}
	w.toasts.Error(w.T(fallbackKey), w.T("toast.title.error"))
}

// loader tags the fetches of one view so only the latest may apply its result
type loader struct {
	seq     uint64
	loading bool
}

func (l *loader) begin() uint64 {
	l.seq++
	l.loading = true
	return l.seq
}

func (l *loader) end(seq uint64) bool {
	if seq != l.seq {
		return false
	}
	l.loading = false
	return true
}

func (l *loader) invalidate() {
	l.seq++
	l.loading = false
}

// fetch runs call without the workspace lock and hands the outcome to apply
// under it, unless another fetch on l started in the meantime.
func fetch[T any](ctx context.Context, w *Workspace, l *loader, view string, call func(context.Context) (T, error), apply func(T, error)) error {
	w.mu.Lock()
	seq := l.begin()
	w.mu.Unlock()

	res, err := call(ctx)

	w.mu.Lock()
	defer w.mu.Unlock()
	if !l.end(seq) {
		staleResponses.WithLabelValues(view).Inc()
		w.log.Debug().Str("view", view).Uint64("seq", seq).Msg("stale response discarded")
		return common.ErrStaleResponse
	}
	apply(res, err)
	if err != nil {
		viewLoads.WithLabelValues(view, "failed").Inc()
		w.log.Warn().Err(err).Str("view", view).Msg("load failed")
		return err
	}
	viewLoads.WithLabelValues(view, "ok").Inc()
	return nil
}
