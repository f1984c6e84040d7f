package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nyc360/feed-engine/internal/domain"
)

// JoinCommunity adds the viewer to a community
func (c *Client) JoinCommunity(ctx context.Context, communityID int64) error {
	r, err := jsonRequest(http.MethodPost, "communities/join", map[string]int64{"CommunityId": communityID})
	if err != nil {
		return err
	}
	if _, err := c.do(ctx, r, nil); err != nil {
		return fmt.Errorf("join community %d: %w", communityID, err)
	}
	return nil
}

// CommunityBySlug fetches a community profile with its first page of posts.
// An unknown slug answered without data yields nil.
func (c *Client) CommunityBySlug(ctx context.Context, slug string, page, pageSize int) (*domain.RawCommunityProfile, error) {
	var profile *domain.RawCommunityProfile
	_, err := c.do(ctx, request{
		method: http.MethodGet,
		path:   "communities/" + url.PathEscape(slug),
		query:  pageQuery("Page", "PageSize", page, pageSize),
	}, &profile)
	if err != nil {
		return nil, fmt.Errorf("community %q: %w", slug, err)
	}
	return profile, nil
}
