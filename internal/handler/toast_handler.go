package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/service"
)

// ToastHandler exposes the viewer's toast queue
type ToastHandler struct {
	workspaces
}

// NewToastHandler creates a new ToastHandler
func NewToastHandler(registry *service.Registry) *ToastHandler {
	return &ToastHandler{workspaces{registry: registry}}
}

// List handles GET /api/v1/toasts
func (h *ToastHandler) List(c *gin.Context) {
	common.Success(c, h.acquire(c).Toasts().List())
}

// Dismiss handles DELETE /api/v1/toasts/:id. Dismissing a toast that is
// already gone succeeds.
func (h *ToastHandler) Dismiss(c *gin.Context) {
	q := h.acquire(c).Toasts()
	removed := q.Dismiss(c.Param("id"))
	common.Success(c, gin.H{"removed": removed, "toasts": q.List()})
}
