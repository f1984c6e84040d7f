package service

import (
	"context"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/normalize"
)

// ListView holds a page of posts filtered by category, search or tag, or the
// viewer's saved posts
type ListView struct {
	ws    *Workspace
	load  loader
	query domain.ListQuery
	saved bool
	page  domain.Page[*domain.Post]
}

// Load fetches one page of the post list
func (v *ListView) Load(ctx context.Context, q domain.ListQuery) error {
	return fetch(ctx, v.ws, &v.load, "list", func(ctx context.Context) (domain.Page[domain.RawPost], error) {
		return v.ws.api.ListPosts(ctx, q)
	}, func(raw domain.Page[domain.RawPost], err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "feed.load_failed")
			return
		}
		v.query = q
		v.saved = false
		v.page = domain.Page[*domain.Post]{
			Items:      normalize.Posts(raw.Items),
			Page:       raw.Page,
			PageSize:   raw.PageSize,
			TotalCount: raw.TotalCount,
			TotalPages: raw.TotalPages,
		}
	})
}

// LoadSaved fetches the viewer's saved posts
func (v *ListView) LoadSaved(ctx context.Context) error {
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return err
	}
	return fetch(ctx, v.ws, &v.load, "saved", v.ws.api.SavedPosts, func(raw []domain.RawPost, err error) {
		if err != nil {
			v.ws.loadFailed(ctx, err, "feed.load_failed")
			return
		}
		posts := normalize.Posts(raw)
		v.query = domain.ListQuery{}
		v.saved = true
		v.page = domain.Page[*domain.Post]{
			Items:      posts,
			Page:       1,
			PageSize:   len(posts),
			TotalCount: len(posts),
			TotalPages: 1,
		}
	})
}

// Snapshot renders the current page
func (v *ListView) Snapshot() ListPage {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	page := ListPage{
		Loading:    v.load.loading,
		Saved:      v.saved,
		Search:     v.query.Search,
		Tag:        v.query.Tag,
		Posts:      v.ws.present.Cards(v.page.Items),
		Page:       v.page.Page,
		PageSize:   v.page.PageSize,
		TotalCount: v.page.TotalCount,
		TotalPages: v.page.TotalPages,
	}
	if v.query.Category != nil {
		c := int(*v.query.Category)
		page.Category = &c
	}
	return page
}

// ToggleInteraction reacts to a post on the current page
func (v *ListView) ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error) {
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

// ToggleSave saves or unsaves a post on the current page. On the saved list
// the post stays visible until the next load.
func (v *ListView) ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error) {
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

func (v *ListView) find(postID int64) (*domain.Post, error) {
	for _, p := range v.page.Items {
		if p.ID == postID {
			return p, nil
		}
	}
	return nil, common.ErrPostNotFound
}

func (v *ListView) reset() {
	v.load.invalidate()
	v.query = domain.ListQuery{}
	v.saved = false
	v.page = domain.Page[*domain.Post]{}
}
