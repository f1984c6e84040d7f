package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/pkg/ginutil"
)

const (
	maxUploadFiles = 10
	maxUploadBytes = 10 << 20
)

// PostHandler handles the post details page
type PostHandler struct {
	workspaces
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(registry *service.Registry) *PostHandler {
	return &PostHandler{workspaces{registry: registry}}
}

// GetPost handles GET /api/v1/posts/:id. Load failures are part of the page.
func (h *PostHandler) GetPost(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	w := h.acquire(c)
	if err := w.Post.Load(c.Request.Context(), id); err != nil && errors.Is(err, common.ErrInvalidInput) {
		respondError(c, err)
		return
	}
	common.Success(c, w.Post.Snapshot())
}

// Share handles POST /api/v1/posts/:id/share
func (h *PostHandler) Share(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	w := h.acquire(c)
	p, err := w.Post.Share(c.Request.Context(), id)
	respondAction(c, p, err, func() any { return w.Post.Snapshot() })
}

type commentRequest struct {
	Content         string `json:"content"`
	ParentCommentID int64  `json:"parentCommentId"`
}

// AddComment handles POST /api/v1/posts/:id/comments. A parentCommentId
// makes it a reply.
func (h *PostHandler) AddComment(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	w := h.acquire(c)
	var view *service.CommentView
	if req.ParentCommentID > 0 {
		view, err = w.Post.Reply(c.Request.Context(), id, req.ParentCommentID, req.Content)
	} else {
		view, err = w.Post.Comment(c.Request.Context(), id, req.Content)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.Response{Success: true, Data: view})
}

// DeletePost handles DELETE /api/v1/posts/:id
func (h *PostHandler) DeletePost(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.acquire(c).Post.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, gin.H{"deleted": id})
}

// CreatePost handles POST /api/v1/posts (multipart/form-data)
func (h *PostHandler) CreatePost(c *gin.Context) {
	req, err := draftFromForm(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid form", err)
		return
	}
	if err := h.acquire(c).Post.Create(c.Request.Context(), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, common.Response{Success: true})
}

// UpdatePost handles PUT /api/v1/posts/:id (multipart/form-data)
func (h *PostHandler) UpdatePost(c *gin.Context) {
	id, err := ginutil.ParamID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	req, err := draftFromForm(c)
	if err != nil {
		common.ErrorResponse(c, http.StatusBadRequest, "Invalid form", err)
		return
	}
	w := h.acquire(c)
	if err := w.Post.Update(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	common.Success(c, w.Post.Snapshot())
}

func draftFromForm(c *gin.Context) (domain.CreatePostRequest, error) {
	req := domain.CreatePostRequest{
		Title:   strings.TrimSpace(c.PostForm("title")),
		Content: strings.TrimSpace(c.PostForm("content")),
	}
	if raw := c.PostForm("category"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("%w: category %q", common.ErrInvalidInput, raw)
		}
		category := domain.Category(n)
		req.Category = &category
	}

	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) {
			return req, nil
		}
		return req, err
	}
	files := form.File["attachments"]
	if len(files) > maxUploadFiles {
		return req, fmt.Errorf("%w: at most %d attachments", common.ErrInvalidInput, maxUploadFiles)
	}
	for _, fh := range files {
		upload, err := readUpload(fh)
		if err != nil {
			return req, err
		}
		req.Files = append(req.Files, upload)
	}
	return req, nil
}

func readUpload(fh *multipart.FileHeader) (domain.Upload, error) {
	if fh.Size > maxUploadBytes {
		return domain.Upload{}, fmt.Errorf("%w: %s is larger than %d bytes", common.ErrInvalidInput, fh.Filename, maxUploadBytes)
	}
	f, err := fh.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return domain.Upload{Name: fh.Filename, Data: data}, nil
}
