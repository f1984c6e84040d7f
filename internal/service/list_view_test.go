package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
)

func TestListView_Load(t *testing.T) {
	w, api := newTestWorkspace(other)
	housing := domain.Category(4)
	q := domain.ListQuery{Category: &housing, Search: "rent", Page: 2, PageSize: 10}
	api.On("ListPosts", mock.Anything, q).Return(domain.Page[domain.RawPost]{
		Items:      []domain.RawPost{{ID: 21, Title: "Rent guidelines vote"}, {ID: 22, Title: "Lottery opens"}},
		Page:       2,
		PageSize:   10,
		TotalCount: 12,
		TotalPages: 2,
	}, nil).Once()

	require.NoError(t, w.List.Load(context.Background(), q))

	page := w.List.Snapshot()
	require.Len(t, page.Posts, 2)
	assert.Equal(t, "Rent guidelines vote", page.Posts[0].Title)
	require.NotNil(t, page.Category)
	assert.Equal(t, 4, *page.Category)
	assert.Equal(t, "rent", page.Search)
	assert.Equal(t, 12, page.TotalCount)
	assert.False(t, page.Saved)
}

func TestListView_ToggleInteractionRollsBack(t *testing.T) {
	w, api := newTestWorkspace(other)
	api.On("ListPosts", mock.Anything, domain.ListQuery{}).Return(domain.Page[domain.RawPost]{
		Items: []domain.RawPost{{ID: 21, Stats: &domain.RawStats{Likes: 3}}},
	}, nil).Once()
	api.On("Interact", mock.Anything, int64(21), domain.InteractionDislike).
		Return(&common.APIError{Message: "Voting closed"}).Once()
	require.NoError(t, w.List.Load(context.Background(), domain.ListQuery{}))

	p, err := w.List.ToggleInteraction(context.Background(), 21, domain.InteractionDislike)
	require.NoError(t, err)
	assert.Equal(t, 1, w.List.Snapshot().Posts[0].Stats.Dislikes)
	require.Error(t, settle(t, p))

	post := w.List.Snapshot().Posts[0]
	assert.Equal(t, domain.Stats{Likes: 3}, post.Stats)
	assert.Equal(t, domain.InteractionNone, post.UserInteraction)
	assert.Equal(t, []string{"Voting closed"}, toastMessages(w))

	_, err = w.List.ToggleSave(context.Background(), 99)
	assert.ErrorIs(t, err, common.ErrPostNotFound)
}

func TestListView_LoadSaved(t *testing.T) {
	w, api := newTestWorkspace(other)
	api.On("SavedPosts", mock.Anything).Return([]domain.RawPost{{ID: 31, IsSavedByUser: boolPtr(true)}}, nil).Once()

	require.NoError(t, w.List.LoadSaved(context.Background()))

	page := w.List.Snapshot()
	assert.True(t, page.Saved)
	require.Len(t, page.Posts, 1)
	assert.True(t, page.Posts[0].IsSaved)
	assert.Equal(t, 1, page.TotalCount)
}

func TestListView_LoadSavedRequiresLogin(t *testing.T) {
	w, api := newTestWorkspace(nil)

	assert.ErrorIs(t, w.List.LoadSaved(context.Background()), common.ErrLoginRequired)
	assert.Equal(t, []string{"Please login to interact with posts"}, toastMessages(w))
	api.AssertNotCalled(t, "SavedPosts", mock.Anything)
}

func TestCommunityView_Load(t *testing.T) {
	w, api := newTestWorkspace(nil)
	role := "Member"
	api.On("CommunityBySlug", mock.Anything, "queens-runners", 1, 20).Return(&domain.RawCommunityProfile{
		Community:  domain.Community{ID: 9, Name: "Queens Runners", Slug: "queens-runners", CoverURL: "cover.png", MemberCount: 41},
		MemberRole: &role,
		Posts: &domain.Envelope[[]domain.RawPost]{
			IsSuccess:  true,
			Data:       []domain.RawPost{{ID: 41, Title: "Sunday long run"}},
			TotalCount: 1,
		},
	}, nil).Once()

	_, ok := w.Community.Snapshot()
	assert.False(t, ok)

	require.NoError(t, w.Community.Load(context.Background(), " queens-runners ", 1, 20))

	page, ok := w.Community.Snapshot()
	require.True(t, ok)
	assert.Equal(t, "Queens Runners", page.Name)
	assert.Equal(t, "https://api.nyc360.test/covers/cover.png", page.CoverURL)
	assert.Equal(t, "Member", page.MemberRole)
	require.Len(t, page.Posts, 1)
	assert.Equal(t, "Sunday long run", page.Posts[0].Title)

	assert.ErrorIs(t, w.Community.Load(context.Background(), "  ", 1, 20), common.ErrInvalidInput)
}

func boolPtr(b bool) *bool { return &b }
