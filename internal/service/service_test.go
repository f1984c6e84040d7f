package service

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/media"
	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/internal/toast"
	"github.com/nyc360/feed-engine/pkg/i18n"
)

type mockUpstream struct {
	mock.Mock
}

func (m *mockUpstream) Interact(ctx context.Context, postID int64, kind domain.InteractionType) error {
	return m.Called(ctx, postID, kind).Error(0)
}

func (m *mockUpstream) SetSaved(ctx context.Context, postID int64, saved bool) error {
	return m.Called(ctx, postID, saved).Error(0)
}

func (m *mockUpstream) Share(ctx context.Context, postID int64) error {
	return m.Called(ctx, postID).Error(0)
}

func (m *mockUpstream) JoinCommunity(ctx context.Context, communityID int64) error {
	return m.Called(ctx, communityID).Error(0)
}

func (m *mockUpstream) AddComment(ctx context.Context, req domain.CommentRequest) (*domain.RawComment, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawComment), args.Error(1)
}

func (m *mockUpstream) HomeFeed(ctx context.Context) (*domain.RawFeedData, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawFeedData), args.Error(1)
}

func (m *mockUpstream) GetPost(ctx context.Context, id int64) (*domain.RawPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawPost), args.Error(1)
}

func (m *mockUpstream) ListPosts(ctx context.Context, q domain.ListQuery) (domain.Page[domain.RawPost], error) {
	args := m.Called(ctx, q)
	return args.Get(0).(domain.Page[domain.RawPost]), args.Error(1)
}

func (m *mockUpstream) SavedPosts(ctx context.Context) ([]domain.RawPost, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawPost), args.Error(1)
}

func (m *mockUpstream) CreatePost(ctx context.Context, req domain.CreatePostRequest) error {
	return m.Called(ctx, req).Error(0)
}

func (m *mockUpstream) UpdatePost(ctx context.Context, id int64, req domain.CreatePostRequest) error {
	return m.Called(ctx, id, req).Error(0)
}

func (m *mockUpstream) DeletePost(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockUpstream) CommunityBySlug(ctx context.Context, slug string, page, pageSize int) (*domain.RawCommunityProfile, error) {
	args := m.Called(ctx, slug, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawCommunityProfile), args.Error(1)
}

func (m *mockUpstream) ProfessionFeed(ctx context.Context) (*domain.RawProfessionFeed, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawProfessionFeed), args.Error(1)
}

func (m *mockUpstream) UserProfile(ctx context.Context, username string) (*domain.RawUserProfile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RawUserProfile), args.Error(1)
}

var (
	author = &session.User{ID: 7, Username: "maya", Token: "t-maya"}
	other  = &session.User{ID: 8, Username: "omar", Token: "t-omar"}
	admin  = &session.User{ID: 1, Username: "root", Roles: []string{session.RoleAdmin}, Token: "t-root"}
)

func testDeps(api *mockUpstream) Deps {
	return Deps{
		Upstream:   func(func() string) Upstream { return api },
		Aggregator: feed.NewAggregator(feed.Options{FeaturedCount: 1}),
		Presenter:  NewPresenter(media.NewResolver(media.Config{RemoteBase: "https://api.nyc360.test"})),
		Bundle:     i18n.Default(),
		// toasts never expire on their own unless a test advances this clock
		Toasts: []toast.Option{toast.WithClock(clock.NewMock())},
	}
}

func newTestWorkspace(user *session.User) (*Workspace, *mockUpstream) {
	api := &mockUpstream{}
	w := NewWorkspace("user:test", testDeps(api))
	w.Session().Set(user)
	return w, api
}

func settle(t *testing.T, p *interaction.Pending) error {
	t.Helper()
	require.NotNil(t, p)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	err := p.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	return err
}

func toastMessages(w *Workspace) []string {
	var out []string
	for _, t := range w.Toasts().List() {
		out = append(out, t.Message)
	}
	return out
}

func inlineAuthor(id int64, name string) domain.Author {
	return domain.Author{Kind: domain.AuthorInline, ID: id, FullName: name}
}

func strPtr(s string) *string { return &s }
