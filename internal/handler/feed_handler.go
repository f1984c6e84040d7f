package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/pkg/ginutil"
)

// FeedHandler serves the home feed, post lists, community pages, the
// professions feed and user profiles
type FeedHandler struct {
	workspaces
}

// NewFeedHandler creates a new FeedHandler
func NewFeedHandler(registry *service.Registry) *FeedHandler {
	return &FeedHandler{workspaces{registry: registry}}
}

// Home handles GET /api/v1/home
func (h *FeedHandler) Home(c *gin.Context) {
	w := h.acquire(c)
	err := w.Home.Load(c.Request.Context())
	page := w.Home.Snapshot()
	if err != nil && !errors.Is(err, common.ErrStaleResponse) && !page.Loaded {
		respondError(c, err)
		return
	}
	common.Success(c, page)
}

// JoinCommunity handles POST /api/v1/home/communities/:id/join
func (h *FeedHandler) JoinCommunity(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	w := h.acquire(c)
	p, err := w.Home.Join(c.Request.Context(), id)
	respondAction(c, p, err, func() any { return w.Home.Snapshot() })
}

// ListPosts handles GET /api/v1/posts?category=&search=&tag=&page=&pageSize=
func (h *FeedHandler) ListPosts(c *gin.Context) {
	q := domain.ListQuery{
		Search:   strings.TrimSpace(c.Query("search")),
		Tag:      strings.TrimSpace(c.Query("tag")),
		Page:     ginutil.QueryInt(c, "page", 1),
		PageSize: ginutil.QueryInt(c, "pageSize", 20),
	}
	if n := ginutil.QueryOptionalInt(c, "category"); n != nil {
		category := domain.Category(*n)
		if category != domain.CategoryAll && !category.Valid() {
			common.ErrorResponse(c, http.StatusBadRequest, "Unknown category", common.ErrInvalidInput)
			return
		}
		q.Category = &category
	}

	w := h.acquire(c)
	if err := w.List.Load(c.Request.Context(), q); err != nil && !errors.Is(err, common.ErrStaleResponse) {
		respondError(c, err)
		return
	}
	common.Success(c, w.List.Snapshot())
}

// SavedPosts handles GET /api/v1/posts/saved
func (h *FeedHandler) SavedPosts(c *gin.Context) {
	w := h.acquire(c)
	if err := w.List.LoadSaved(c.Request.Context()); err != nil && !errors.Is(err, common.ErrStaleResponse) {
		respondError(c, err)
		return
	}
	common.Success(c, w.List.Snapshot())
}

// Community handles GET /api/v1/communities/:slug
func (h *FeedHandler) Community(c *gin.Context) {
	w := h.acquire(c)
	err := w.Community.Load(c.Request.Context(), c.Param("slug"), ginutil.QueryInt(c, "page", 1), ginutil.QueryInt(c, "pageSize", 20))
	if err != nil && !errors.Is(err, common.ErrStaleResponse) {
		respondError(c, err)
		return
	}
	page, ok := w.Community.Snapshot()
	if !ok {
		respondError(c, common.ErrCommunityNotFound)
		return
	}
	common.Success(c, page)
}

// Professions handles GET /api/v1/professions/feed
func (h *FeedHandler) Professions(c *gin.Context) {
	w := h.acquire(c)
	if err := w.Profession.Load(c.Request.Context()); err != nil && !errors.Is(err, common.ErrStaleResponse) {
		respondError(c, err)
		return
	}
	common.Success(c, w.Profession.Snapshot())
}

// Profile handles GET /api/v1/profiles/:username and GET /api/v1/profile,
// the latter showing the logged-in viewer
func (h *FeedHandler) Profile(c *gin.Context) {
	w := h.acquire(c)
	err := w.Profile.Load(c.Request.Context(), c.Param("username"))
	if err != nil && !errors.Is(err, common.ErrStaleResponse) {
		respondError(c, err)
		return
	}
	page, ok := w.Profile.Snapshot()
	if !ok {
		respondError(c, common.ErrProfileNotFound)
		return
	}
	common.Success(c, page)
}
