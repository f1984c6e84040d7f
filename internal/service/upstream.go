package service

import (
	"context"

	"github.com/nyc360/feed-engine/internal/comment"
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/interaction"
)

// Upstream is the part of the NYC360 API a workspace talks to
type Upstream interface {
	interaction.Submitter
	comment.Poster

	HomeFeed(ctx context.Context) (*domain.RawFeedData, error)
	GetPost(ctx context.Context, id int64) (*domain.RawPost, error)
	ListPosts(ctx context.Context, q domain.ListQuery) (domain.Page[domain.RawPost], error)
	SavedPosts(ctx context.Context) ([]domain.RawPost, error)
	CreatePost(ctx context.Context, req domain.CreatePostRequest) error
	UpdatePost(ctx context.Context, id int64, req domain.CreatePostRequest) error
	DeletePost(ctx context.Context, id int64) error
	CommunityBySlug(ctx context.Context, slug string, page, pageSize int) (*domain.RawCommunityProfile, error)
	ProfessionFeed(ctx context.Context) (*domain.RawProfessionFeed, error)
	UserProfile(ctx context.Context, username string) (*domain.RawUserProfile, error)
}

// UpstreamFactory builds an Upstream that authenticates with whatever token
// the given source returns at request time
type UpstreamFactory func(token func() string) Upstream
