package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/pkg/ginutil"
)

// postActions is what a view offers for the posts it shows
type postActions interface {
	ToggleInteraction(ctx context.Context, postID int64, kind domain.InteractionType) (*interaction.Pending, error)
	ToggleSave(ctx context.Context, postID int64) (*interaction.Pending, error)
}

// InteractionHandler applies reactions and saves to a post shown in one of
// the viewer's views
type InteractionHandler struct {
	workspaces
}

// NewInteractionHandler creates a new InteractionHandler
func NewInteractionHandler(registry *service.Registry) *InteractionHandler {
	return &InteractionHandler{workspaces{registry: registry}}
}

type interactionRequest struct {
	Type domain.InteractionType `json:"type" binding:"required"`
}

// ViewNames lists the views that accept post actions
var ViewNames = []string{"home", "post", "list", "community", "profession", "profile"}

// view resolves the :view path parameter to the view's actions and snapshot
func view(w *service.Workspace, name string) (postActions, func() any, bool) {
	switch name {
	case "home":
		return w.Home, func() any { return w.Home.Snapshot() }, true
	case "post":
		return w.Post, func() any { return w.Post.Snapshot() }, true
	case "list":
		return w.List, func() any { return w.List.Snapshot() }, true
	case "community":
		return w.Community, func() any { page, _ := w.Community.Snapshot(); return page }, true
	case "profession":
		return w.Profession, func() any { return w.Profession.Snapshot() }, true
	case "profile":
		return w.Profile, func() any { page, _ := w.Profile.Snapshot(); return page }, true
	}
	return nil, nil, false
}

// Toggle handles POST /api/v1/views/:view/posts/:id/interaction
func (h *InteractionHandler) Toggle(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req interactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid interaction type", common.ErrInvalidInteraction)
		return
	}

	w := h.acquire(c)
	actions, snapshot, ok := view(w, c.Param("view"))
	if !ok {
		common.ErrorResponse(c, http.StatusNotFound, "Unknown view", common.ErrNotFound)
		return
	}
	p, err := actions.ToggleInteraction(c.Request.Context(), id, req.Type)
	respondAction(c, p, err, snapshot)
}

// ToggleSave handles POST /api/v1/views/:view/posts/:id/save
func (h *InteractionHandler) ToggleSave(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	w := h.acquire(c)
	actions, snapshot, ok := view(w, c.Param("view"))
	if !ok {
		common.ErrorResponse(c, http.StatusNotFound, "Unknown view", common.ErrNotFound)
		return
	}
	p, err := actions.ToggleSave(c.Request.Context(), id)
	respondAction(c, p, err, snapshot)
}
