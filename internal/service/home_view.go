package service

import (
	"context"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/interaction"
)

// HomeView holds the home feed of a workspace
type HomeView struct {
	ws       *Workspace
	agg      *feed.Aggregator
	load     loader
	sections *feed.Sections
}

// Load fetches the home feed. A success replaces the sections wholesale; a
// failure keeps the previous ones and shows a toast. A response overtaken by
// a newer Load is dropped with common.ErrStaleResponse.
func (v *HomeView) Load(ctx context.Context) error {
	return fetch(ctx, v.ws, &v.load, "home", v.ws.api.HomeFeed, func(raw *domain.RawFeedData, err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "feed.load_failed")
			return
		}
		v.sections = v.agg.Aggregate(raw)
	})
}

// Snapshot renders the current sections
func (v *HomeView) Snapshot() HomePage {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	page := v.ws.present.Home(v.sections)
	page.Loading = v.load.loading
	return page
}

// Join joins one of the suggested communities
func (v *HomeView) Join(ctx context.Context, communityID int64) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("community.login_required"); err != nil {
		return nil, err
	}
	if v.sections == nil {
		return nil, common.ErrCommunityNotFound
	}
	return v.ws.machine.JoinCommunity(ctx, v.sections.FindCommunity(communityID))
}

// ToggleInteraction reacts to a post shown on the home feed. A post listed
// in more than one shelf is one shared entity, so every copy changes.
func (v *HomeView) ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return nil, err
	}
	post, err := v.find(postID)
	if err != nil {
		return nil, err
	}
	return v.ws.machine.ToggleInteraction(ctx, post, kind)
}

// ToggleSave saves or unsaves a post shown on the home feed
func (v *HomeView) ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return nil, err
	}
	post, err := v.find(postID)
	if err != nil {
		return nil, err
	}
	return v.ws.machine.ToggleSave(ctx, post)
}

func (v *HomeView) find(postID int64) (*domain.Post, error) {
	if v.sections == nil {
		return nil, common.ErrPostNotFound
	}
	posts := v.sections.FindPost(postID)
	if len(posts) == 0 {
		return nil, common.ErrPostNotFound
	}
	return posts[0], nil
}

func (v *HomeView) reset() {
	v.load.invalidate()
	v.sections = nil
}
