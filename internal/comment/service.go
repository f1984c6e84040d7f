package comment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/normalize"
	"github.com/nyc360/feed-engine/internal/session"
	"github.com/nyc360/feed-engine/pkg/i18n"
	"github.com/nyc360/feed-engine/pkg/logger"
)

var commentValidator = validator.New()

// Poster submits a comment upstream and returns the created comment
type Poster interface {
	AddComment(ctx context.Context, req domain.CommentRequest) (*domain.RawComment, error)
}

// Notifier shows outcome messages to the viewer
type Notifier interface {
	Success(message, title string) string
	Error(message, title string, details ...string) string
	Info(message, title string) string
	ValidationError(errs []string, title string) string
}

// Service submits comments and replies. Nothing is inserted until the server
// has accepted the comment.
//
// Unlike the interaction machine, Service methods must be called WITHOUT the
// workspace lock: they block on the request and take the lock only to insert.
type Service struct {
	mu      sync.Locker
	api     Poster
	notify  Notifier
	session session.Reader
	t       i18n.Translator
}

// NewService creates a comment service bound to a workspace lock
func NewService(mu sync.Locker, api Poster, notify Notifier, sess session.Reader, t i18n.Translator) *Service {
	if t == nil {
		t = func(key string, _ ...any) string { return key }
	}
	return &Service{mu: mu, api: api, notify: notify, session: sess, t: t}
}

// Submit posts a top-level comment
func (s *Service) Submit(ctx context.Context, post *domain.Post, content string) (*domain.Comment, error) {
	return s.submit(ctx, post, 0, content)
}

// Reply posts a reply to the comment parentID
func (s *Service) Reply(ctx context.Context, post *domain.Post, parentID int64, content string) (*domain.Comment, error) {
	if parentID <= 0 {
		return nil, fmt.Errorf("%w: parent comment id", common.ErrInvalidInput)
	}
	return s.submit(ctx, post, parentID, content)
}

func (s *Service) submit(ctx context.Context, post *domain.Post, parentID int64, content string) (*domain.Comment, error) {
	if post == nil {
		return nil, common.ErrPostNotFound
	}
	if s.session.Current() == nil {
		s.notify.Info(s.t("comment.login_required"), s.t("toast.title.info"))
		return nil, common.ErrLoginRequired
	}

	req := domain.CommentRequest{
		PostID:          post.ID,
		Content:         strings.TrimSpace(content),
		ParentCommentID: parentID,
	}
	if err := commentValidator.Struct(&req); err != nil {
		s.notify.ValidationError(s.describe(err), s.t("toast.title.validation"))
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}

	if parentID != 0 {
		s.mu.Lock()
		parent := Find(post, parentID)
		s.mu.Unlock()
		if parent == nil {
			s.notify.Error(s.t("comment.parent_missing"), s.t("toast.title.error"))
			return nil, common.ErrCommentNotFound
		}
	}

	raw, err := s.api.AddComment(ctx, req)
	if err != nil {
		logger.GetLogger().Warn().Err(err).Int64("post_id", post.ID).Int64("parent_id", parentID).Msg("comment rejected")
		s.failure(err, parentID)
		return nil, err
	}
	if raw == nil {
		raw = &domain.RawComment{Content: req.Content}
	}
	c := normalize.Comment(*raw)

	s.mu.Lock()
	defer s.mu.Unlock()
	if parentID == 0 {
		AddTopLevel(post, c)
	} else if parent := Find(post, parentID); parent != nil {
		AddReply(post, parent, c)
	} else {
		// the tree was replaced while the request was in flight
		return c, nil
	}
	s.notify.Success(s.t("comment.added"), s.t("toast.title.success"))
	return c, nil
}

func (s *Service) failure(err error, parentID int64) {
	key := "comment.failed"
	if parentID != 0 {
		key = "comment.reply_failed"
	}
	if apiErr, ok := common.AsAPIError(err); ok && apiErr.Message != "" {
		s.notify.Error(apiErr.Message, s.t("toast.title.error"))
		return
	}
	if common.IsTransport(err) {
		s.notify.Error(s.t("toast.network_error"), s.t("toast.title.network"))
		return
	}
	s.notify.Error(s.t(key), s.t("toast.title.error"))
}

func (s *Service) describe(err error) []string {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch {
		case fe.Field() == "Content" && fe.Tag() == "required":
			out = append(out, s.t("comment.empty"))
		case fe.Field() == "Content" && fe.Tag() == "max":
			out = append(out, s.t("comment.too_long"))
		default:
			out = append(out, fe.Error())
		}
	}
	return out
}
