package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/nyc360/feed-engine/internal/domain"
)

// ProfessionFeed fetches the professions page
func (c *Client) ProfessionFeed(ctx context.Context) (*domain.RawProfessionFeed, error) {
	var data domain.RawProfessionFeed
	if _, err := c.do(ctx, request{method: http.MethodGet, path: "feeds/professions"}, &data); err != nil {
		return nil, fmt.Errorf("profession feed: %w", err)
	}
	return &data, nil
}

// UserProfile fetches the public profile of username; nil when the answer
// carries no data
func (c *Client) UserProfile(ctx context.Context, username string) (*domain.RawUserProfile, error) {
	var profile *domain.RawUserProfile
	_, err := c.do(ctx, request{method: http.MethodGet, path: "users/profile/" + url.PathEscape(username)}, &profile)
	if err != nil {
		return nil, fmt.Errorf("profile %q: %w", username, err)
	}
	return profile, nil
}
