package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/nyc360/feed-engine/internal/domain"
)

// HomeFeed fetches the aggregated home feed
func (c *Client) HomeFeed(ctx context.Context) (*domain.RawFeedData, error) {
	var data domain.RawFeedData
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "feeds/all/home"}, &data); err != nil {
		return nil, fmt.Errorf("home feed: %w", err)
	}
	return &data, nil
}

// PostsByTag lists posts carrying tag
func (c *Client) PostsByTag(ctx context.Context, tag string, page, pageSize int) (domain.Page[domain.RawPost], error) {
	var items []domain.RawPost
	meta, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "posts/tags/" + url.PathEscape(tag),
		query:  pageQuery("Page", "PageSize", page, pageSize),
	}, &items)
	if err != nil {
		return domain.Page[domain.RawPost]{}, fmt.Errorf("posts by tag %q: %w", tag, err)
	}
	return toPage(items, meta), nil
}

// ListPosts lists posts by category and search text. CategoryAll or a nil
// category means every category.
func (c *Client) ListPosts(ctx context.Context, q domain.ListQuery) (domain.Page[domain.RawPost], error) {
	if q.Tag != "" {
		return c.PostsByTag(ctx, q.Tag, q.Page, q.PageSize)
	}
	query := pageQuery("page", "pageSize", q.Page, q.PageSize)
	if q.Category != nil && *q.Category != domain.CategoryAll {
		query.Set("category", strconv.Itoa(int(*q.Category)))
	}
	if q.Search != "" {
		query.Set("search", q.Search)
	}

	var items []domain.RawPost
	meta, err := c.do(ctx, request{method: http.MethodGet, path: "posts/list", query: query}, &items)
	if err != nil {
		return domain.Page[domain.RawPost]{}, fmt.Errorf("list posts: %w", err)
	}
	return toPage(items, meta), nil
}

// GetPost fetches one post with its comments. A successful answer without
// data yields a nil post.
func (c *Client) GetPost(ctx context.Context, id int64) (*domain.RawPost, error) {
	var post *domain.RawPost
	if _, err := c.do(ctx, request{method: http.MethodGet, path: fmt.Sprintf("posts/%d", id)}, &post); err != nil {
		return nil, fmt.Errorf("get post %d: %w", id, err)
	}
	return post, nil
}

// CreatePost creates a post with optional attachments
func (c *Client) CreatePost(ctx context.Context, req domain.CreatePostRequest) error {
	r, err := postForm(http.MethodPost, "posts/create", 0, req, "attachments")
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// UpdatePost edits a post; files are added to the existing attachments
func (c *Client) UpdatePost(ctx context.Context, id int64, req domain.CreatePostRequest) error {
	r, err := postForm(http.MethodPut, "posts/edit", id, req, "addedAttachments")
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("update post %d: %w", id, err)
	}
	return nil
}

// DeletePost removes a post
func (c *Client) DeletePost(ctx context.Context, id int64) error {
	r, err := jsonRequest(http.MethodDelete, "posts/delete", map[string]int64{"postId": id})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

// Interact submits a like or dislike click
func (c *Client) Interact(ctx context.Context, postID int64, kind domain.InteractionType) error {
	r, err := jsonRequest(http.MethodPut, fmt.Sprintf("posts/%d/interact", postID), map[string]int{"type": int(kind)})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("interact post %d: %w", postID, err)
	}
	return nil
}

// SetSaved stores whether the viewer keeps the post in their saved list
func (c *Client) SetSaved(ctx context.Context, postID int64, saved bool) error {
	r, err := jsonRequest(http.MethodPut, fmt.Sprintf("posts/%d/save", postID), map[string]bool{"isSaved": saved})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("save post %d: %w", postID, err)
	}
	return nil
}

// Share records a share of the post
func (c *Client) Share(ctx context.Context, postID int64) error {
	if _, err := c.do(ctx, request{method: http.MethodPost, path: fmt.Sprintf("posts/%d/share", postID)}, nil); err != nil {
		return fmt.Errorf("share post %d: %w", postID, err)
	}
	return nil
}

// AddComment posts a comment or reply and returns the created comment
func (c *Client) AddComment(ctx context.Context, req domain.CommentRequest) (*domain.RawComment, error) {
	r, err := jsonRequest(http.MethodPost, "posts/comment", req)
	if err != nil {
		return nil, err
	}
	var comment domain.RawComment
	if _, err := c.do(ctx, r, &comment); err != nil {
		return nil, fmt.Errorf("comment on post %d: %w", req.PostID, err)
	}
	return &comment, nil
}

// SavedPosts lists the viewer's saved posts
func (c *Client) SavedPosts(ctx context.Context) ([]domain.RawPost, error) {
	var items []domain.RawPost
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "users/saved-posts"}, &items); err != nil {
		return nil, fmt.Errorf("saved posts: %w", err)
	}
	if items == nil {
		items = []domain.RawPost{}
	}
	return items, nil
}

func postForm(method, path string, id int64, req domain.CreatePostRequest, fileField string) (request, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if id > 0 {
		_ = w.WriteField("postId", strconv.FormatInt(id, 10))
	}
	_ = w.WriteField("title", req.Title)
	_ = w.WriteField("content", req.Content)
	if req.Category != nil {
		_ = w.WriteField("category", strconv.Itoa(int(*req.Category)))
	}
	for _, f := range req.Files {
		part, err := w.CreateFormFile(fileField, f.Name)
		if err != nil {
			return request{}, fmt.Errorf("attach %s: %w", f.Name, err)
		}
		if _, err := part.Write(f.Data); err != nil {
			return request{}, fmt.Errorf("attach %s: %w", f.Name, err)
		}
	}
	if err := w.Close(); err != nil {
		return request{}, fmt.Errorf("close form: %w", err)
	}
	return request{method: method, path: path, body: &buf, contentType: w.FormDataContentType()}, nil
}
