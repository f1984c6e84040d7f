package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
	"github.com/nyc360/feed-engine/internal/normalize"
)

var postValidator = validator.New()

// PostView holds the post open in the details page
type PostView struct {
	ws     *Workspace
	load   loader
	post   *domain.Post
	errMsg string
}

// Load fetches post id. On failure the page shows an error message and no
// post; a toast is not raised.
func (v *PostView) Load(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: post id", common.ErrInvalidInput)
	}
	return fetch(ctx, v.ws, &v.load, "post", func(ctx context.Context) (*domain.RawPost, error) {
		return v.ws.api.GetPost(ctx, id)
	}, func(raw *domain.RawPost, err error) {
		v.post = nil
		v.errMsg = ""
		switch {
		case err != nil:
			if apiErr, ok := common.AsAPIError(err); ok && apiErr.Message != "" {
				v.errMsg = apiErr.Message
			} else {
				v.errMsg = v.ws.T("post.load_failed")
			}
		case raw == nil:
			v.errMsg = v.ws.T("post.not_found")
		default:
			v.post = normalize.Post(*raw)
		}
	})
}

// Snapshot renders the details page
func (v *PostView) Snapshot() PostPage {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	page := PostPage{Loading: v.load.loading, Error: v.errMsg}
	if v.post != nil {
		page.Post = v.ws.present.Detail(v.post)
		page.CanEdit = v.canEditLocked()
	}
	return page
}

// CanEdit reports whether the viewer may edit or delete the loaded post:
// its author or an admin.
func (v *PostView) CanEdit() bool {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	return v.canEditLocked()
}

func (v *PostView) canEditLocked() bool {
	u := v.ws.session.Current()
	if u == nil || v.post == nil {
		return false
	}
	if u.IsAdmin() {
		return true
	}
	author := v.post.Author.Identity()
	return author != "" && author == u.IDString()
}

// ToggleInteraction likes or dislikes the loaded post
func (v *PostView) ToggleInteraction(ctx context.Context, id int64, kind domain.InteractionType) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return nil, err
	}
	post, err := v.current(id)
	if err != nil {
		return nil, err
	}
	return v.ws.machine.ToggleInteraction(ctx, post, kind)
}

// ToggleSave saves or unsaves the loaded post
func (v *PostView) ToggleSave(ctx context.Context, id int64) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return nil, err
	}
	post, err := v.current(id)
	if err != nil {
		return nil, err
	}
	return v.ws.machine.ToggleSave(ctx, post)
}

// Share shares the loaded post
func (v *PostView) Share(ctx context.Context, id int64) (*interaction.Pending, error) {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return nil, err
	}
	post, err := v.current(id)
	if err != nil {
		return nil, err
	}
	return v.ws.machine.Share(ctx, post)
}

// Comment adds a top-level comment once the server accepts it
func (v *PostView) Comment(ctx context.Context, id int64, content string) (*CommentView, error) {
	v.ws.mu.Lock()
	post, err := v.current(id)
	v.ws.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c, err := v.ws.comments.Submit(ctx, post, content)
	if err != nil {
		return nil, err
	}
	return v.renderComment(c), nil
}

// Reply answers the comment parentID once the server accepts it
func (v *PostView) Reply(ctx context.Context, id, parentID int64, content string) (*CommentView, error) {
	v.ws.mu.Lock()
	post, err := v.current(id)
	v.ws.mu.Unlock()
	if err != nil {
		return nil, err
	}
	c, err := v.ws.comments.Reply(ctx, post, parentID, content)
	if err != nil {
		return nil, err
	}
	return v.renderComment(c), nil
}

// Delete removes the loaded post. Only its author or an admin may.
func (v *PostView) Delete(ctx context.Context, id int64) error {
	v.ws.mu.Lock()
	_, err := v.current(id)
	allowed := v.canEditLocked()
	v.ws.mu.Unlock()
	if err != nil {
		return err
	}
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return err
	}
	if !allowed {
		v.ws.toasts.PermissionError(v.ws.T("post.delete_forbidden"))
		return common.ErrForbidden
	}

	if err := v.ws.api.DeletePost(ctx, id); err != nil {
		v.ws.log.Warn().Err(err).Int64("post_id", id).Msg("delete rejected")
		v.ws.loadFailed(ctx, err, "post.delete_failed")
		return err
	}

	v.ws.mu.Lock()
	if v.post != nil && v.post.ID == id {
		v.load.invalidate()
		v.post = nil
		v.errMsg = v.ws.T("post.not_found")
	}
	v.ws.mu.Unlock()
	v.ws.toasts.Success(v.ws.T("post.delete_success"), v.ws.T("toast.title.success"))
	return nil
}

// Create publishes a new post
func (v *PostView) Create(ctx context.Context, req domain.CreatePostRequest) error {
	if err := v.checkDraft(req); err != nil {
		return err
	}
	if err := v.ws.api.CreatePost(ctx, req); err != nil {
		v.ws.log.Warn().Err(err).Msg("create post rejected")
		v.ws.loadFailed(ctx, err, "post.create_failed")
		return err
	}
	v.ws.toasts.Success(v.ws.T("post.created"), v.ws.T("toast.title.success"))
	return nil
}

// Update edits post id and reloads it when it is the one on display
func (v *PostView) Update(ctx context.Context, id int64, req domain.CreatePostRequest) error {
	if err := v.checkDraft(req); err != nil {
		return err
	}
	v.ws.mu.Lock()
	shown := v.post != nil && v.post.ID == id
	if shown && !v.canEditLocked() {
		v.ws.mu.Unlock()
		v.ws.toasts.PermissionError(v.ws.T("post.edit_forbidden"))
		return common.ErrForbidden
	}
	v.ws.mu.Unlock()

	if err := v.ws.api.UpdatePost(ctx, id, req); err != nil {
		v.ws.log.Warn().Err(err).Int64("post_id", id).Msg("update post rejected")
		v.ws.loadFailed(ctx, err, "post.update_failed")
		return err
	}
	v.ws.toasts.Success(v.ws.T("post.updated"), v.ws.T("toast.title.success"))
	if shown {
		return v.Load(ctx, id)
	}
	return nil
}

func (v *PostView) checkDraft(req domain.CreatePostRequest) error {
	if err := v.ws.requireLogin("post.login_required"); err != nil {
		return err
	}
	if err := postValidator.Struct(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		lines := []string{err.Error()}
		if errors.As(err, &fieldErrs) {
			lines = lines[:0]
			for _, fe := range fieldErrs {
				switch fe.Field() {
				case "Title":
					lines = append(lines, v.ws.T("post.invalid_title"))
				case "Content":
					lines = append(lines, v.ws.T("post.invalid_content"))
				default:
					lines = append(lines, fe.Error())
				}
			}
		}
		v.ws.toasts.ValidationError(lines, v.ws.T("toast.title.validation"))
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if req.Category != nil && !req.Category.Valid() {
		v.ws.toasts.ValidationError([]string{v.ws.T("post.invalid_category")}, v.ws.T("toast.title.validation"))
		return fmt.Errorf("%w: category %d", common.ErrInvalidInput, *req.Category)
	}
	return nil
}

// current returns the loaded post when it is id. Called with the lock held.
func (v *PostView) current(id int64) (*domain.Post, error) {
	if v.post == nil || v.post.ID != id {
		return nil, common.ErrPostNotFound
	}
	return v.post, nil
}

func (v *PostView) renderComment(c *domain.Comment) *CommentView {
	v.ws.mu.Lock()
	defer v.ws.mu.Unlock()
	views := v.ws.present.Comments([]*domain.Comment{c})
	return &views[0]
}

func (v *PostView) reset() {
	v.load.invalidate()
	v.post = nil
	v.errMsg = ""
}
