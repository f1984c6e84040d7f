package service

import (
	"context"
	"strings"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/normalize"
)

// ProfessionView holds the professions feed
type ProfessionView struct {
	ws   *Workspace
	load loader
	feed *domain.ProfessionFeed
}

// Load fetches the professions feed. A failed load keeps what was shown.
func (v *ProfessionView) Load(ctx context.Context) error {
	return fetch(ctx, v.ws, &v.load, "profession", v.ws.api.ProfessionFeed, func(raw *domain.RawProfessionFeed, err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "profession.load_failed")
			return
		}
		v.feed = normalize.ProfessionFeed(raw)
	})
}

// Snapshot renders the feed
func (v *ProfessionView) Snapshot() ProfessionPage {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	page := v.ws.present.Profession(v.feed)
	page.Loading = v.load.loading
	return page
}

// ToggleInteraction reacts to the hero or a grid article
func (v *ProfessionView) ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error) {
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

// ToggleSave saves or unsaves the hero or a grid article
func (v *ProfessionView) ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error) {
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

func (v *ProfessionView) find(postID int64) (*domain.Post, error) {
	if v.feed == nil {
		return nil, common.ErrPostNotFound
	}
	if v.feed.Hero != nil && v.feed.Hero.ID == postID {
		return v.feed.Hero, nil
	}
	for _, p := range v.feed.Articles {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, common.ErrPostNotFound
}

func (v *ProfessionView) reset() {
	v.load.invalidate()
	v.feed = nil
}

// ProfileView holds the user profile being viewed
type ProfileView struct {
	ws      *Workspace
	load    loader
	profile *domain.UserProfile
}

// Load fetches the profile of username. An empty username means the
// logged-in viewer's own profile.
func (v *ProfileView) Load(ctx context.Context, username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		v.ws.mu.Lock()
		if u := v.ws.session.Current(); u != nil {
			username = u.Username
		}
		v.ws.mu.Unlock()
		if username == "" {
			return common.ErrLoginRequired
		}
	}
	return fetch(ctx, v.ws, &v.load, "profile", func(ctx context.Context) (*domain.RawUserProfile, error) {
		return v.ws.api.UserProfile(ctx, username)
	}, func(raw *domain.RawUserProfile, err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "profile.load_failed")
			return
		}
		if raw == nil {
			v.profile = nil
			return
		}
		v.profile = normalize.UserProfile(raw)
	})
}

// Snapshot renders the profile; ok is false before a successful load.
// IsOwner follows the current session, compared case-insensitively.
func (v *ProfileView) Snapshot() (page ProfilePage, ok bool) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if v.profile == nil {
		page.Loading = v.load.loading
		return page, false
	}
	page = v.ws.present.Profile(v.profile)
	page.Loading = v.load.loading
	if u := v.ws.session.Current(); u != nil {
		page.IsOwner = strings.EqualFold(u.Username, v.profile.Username)
	}
	return page, true
}

// ToggleInteraction reacts to a post listed on the profile
func (v *ProfileView) ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error) {
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

// ToggleSave saves or unsaves a post listed on the profile
func (v *ProfileView) ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error) {
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

func (v *ProfileView) find(postID int64) (*domain.Post, error) {
	if v.profile != nil {
		for _, p := range v.profile.Posts {
			if p.ID == postID {
				return p, nil
			}
		}
	}
	return nil, common.ErrPostNotFound
}

func (v *ProfileView) reset() {
	v.load.invalidate()
	v.profile = nil
}
