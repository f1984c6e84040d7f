package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/media"
	"github.com/nyc360/feed-engine/internal/normalize"
)

// CommunityView holds an opened community profile and its posts
type CommunityView struct {
	ws      *Workspace
	load    loader
	profile *domain.CommunityProfile
}

// Load fetches the community slug with one page of its posts
func (v *CommunityView) Load(ctx context.Context, slug string, page, pageSize int) error {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return fmt.Errorf("%w: community slug", common.ErrInvalidInput)
	}
	return fetch(ctx, v.ws, &v.load, "community", func(ctx context.Context) (*domain.RawCommunityProfile, error) {
		return v.ws.api.CommunityBySlug(ctx, slug, page, pageSize)
	}, func(raw *domain.RawCommunityProfile, err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "community.load_failed")
			return
		}
		if raw == nil {
			v.profile = nil
			return
		}
		v.profile = normalize.CommunityProfile(raw)
	})
}

// Snapshot renders the profile; ok is false before a successful load
func (v *CommunityView) Snapshot() (page CommunityPage, ok bool) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	page.Loading = v.load.loading
	if v.profile == nil {
		return page, false
	}
	c := v.profile.Community
	page.ID = c.ID
	page.Name = c.Name
	page.Slug = c.Slug
	page.Description = c.Description
	page.ImageURL = v.ws.present.resolver.CommunityImage(c.ImageURL)
	page.CoverURL = v.ws.present.resolver.Resolve(c.CoverURL, media.KindCover)
	page.MemberCount = c.MemberCount
	page.MemberRole = v.profile.MemberRole
	page.Posts = v.ws.present.Cards(v.profile.Posts)
	page.TotalCount = v.profile.TotalCount
	return page, true
}

// ToggleInteraction reacts to a post of the community
func (v *CommunityView) ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error) {
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

// ToggleSave saves or unsaves a post of the community
func (v *CommunityView) ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error) {
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

func (v *CommunityView) find(postID int64) (*domain.Post, error) {
	if v.profile != nil {
		for _, p := range v.profile.Posts {
			if p.ID == postID {
				return p, nil
			}
		}
	}
	return nil, common.ErrPostNotFound
}

func (v *CommunityView) reset() {
	v.load.invalidate()
	v.profile = nil
}
