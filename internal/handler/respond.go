package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/middleware"
	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/pkg/ginutil"
)

// workspaces hands each request the caller's workspace
type workspaces struct {
	registry *service.Registry
}

func (w workspaces) acquire(c *gin.Context) *service.Workspace {
	return w.registry.Acquire(middleware.GetViewerKey(c), middleware.GetSessionUser(c), middleware.GetLocale(c))
}

// errorStatus maps engine errors to HTTP statuses
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrLoginRequired):
		return http.StatusUnauthorized, "Login required"
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, common.ErrPostNotFound):
		return http.StatusNotFound, "Post not found"
	case errors.Is(err, common.ErrCommentNotFound):
		return http.StatusNotFound, "Comment not found"
	case errors.Is(err, common.ErrCommunityNotFound):
		return http.StatusNotFound, "Community not found"
	case errors.Is(err, common.ErrProfileNotFound):
		return http.StatusNotFound, "Profile not found"
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrInvalidInteraction), errors.Is(err, ginutil.ErrInvalidID):
		return http.StatusBadRequest, "Invalid request"
	case errors.Is(err, context.DeadlineExceeded), common.IsTransport(err):
		return http.StatusBadGateway, "Upstream unavailable"
	}
	if _, ok := common.AsAPIError(err); ok {
		return http.StatusUnprocessableEntity, "Rejected by upstream"
	}
	return http.StatusInternalServerError, "Internal server error"
}

func respondError(c *gin.Context, err error) {
	status, message := errorStatus(err)
	common.ErrorResponse(c, status, message, err)
}

// respondAction answers an optimistic action. The change is already visible
// in snapshot, so the answer is 202 unless the caller asked to wait for the
// server with ?wait=true.
func respondAction(c *gin.Context, p *interaction.Pending, err error, snapshot func() any) {
	if err != nil {
		respondError(c, err)
		return
	}
	if !ginutil.QueryBool(c, "wait") {
		common.Accepted(c, snapshot())
		return
	}
	if err := p.Wait(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, snapshot())
}
