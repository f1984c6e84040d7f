// Package normalize converts the heterogeneous post payloads returned by the
// upstream API into the canonical domain shapes. It never fails: missing or
// malformed optional fields are replaced with safe defaults.
package normalize

import (
	"strings"
	"time"

	"github.com/nyc360/feed-engine/internal/domain"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Post converts a raw post into its canonical form
func Post(raw domain.RawPost) *domain.Post {
	p := &domain.Post{
		ID:          raw.ID,
		Title:       raw.Title,
		Content:     raw.Content,
		Category:    domain.Category(raw.Category),
		CreatedAt:   parseTime(raw.CreatedAt),
		LastUpdated: parseOptionalTime(raw.LastUpdated),
		Tags:        nonNilStrings(raw.Tags),
		Author:      raw.Author,
		Stats:       stats(raw.Stats),
		Attachments: attachments(raw.Attachments),
		Comments:    make([]*domain.Comment, 0, len(raw.Comments)),
	}
	if raw.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*raw.ImageURL)
	}
	for _, c := range raw.Comments {
		p.Comments = append(p.Comments, Comment(c))
	}

	switch {
	case raw.UserInteraction != nil:
		p.UserInteraction = interaction(*raw.UserInteraction)
	case raw.CurrentUserInteraction != nil:
		p.UserInteraction = interaction(*raw.CurrentUserInteraction)
	}

	switch {
	case raw.IsSaved != nil:
		p.IsSaved = *raw.IsSaved
	case raw.IsSavedByUser != nil:
		p.IsSaved = *raw.IsSavedByUser
	}

	return p
}

// Posts normalizes a list of raw posts, preserving order
func Posts(raws []domain.RawPost) []*domain.Post {
	out := make([]*domain.Post, 0, len(raws))
	for _, r := range raws {
		out = append(out, Post(r))
	}
	return out
}

// Comment converts a raw comment and its replies
func Comment(raw domain.RawComment) *domain.Comment {
	c := &domain.Comment{
		ID:        raw.ID,
		Content:   raw.Content,
		Author:    raw.Author,
		CreatedAt: parseTime(raw.CreatedAt),
	}
	if raw.Replies != nil {
		c.Replies = make([]*domain.Comment, 0, len(raw.Replies))
		for _, r := range raw.Replies {
			c.Replies = append(c.Replies, Comment(r))
		}
	}
	return c
}

// Canonical repairs a post that is already in domain form: nil collections
// become empty and counters are clamped. It is a no-op on a canonical post.
func Canonical(p *domain.Post) *domain.Post {
	if p == nil {
		return nil
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	if p.Attachments == nil {
		p.Attachments = []domain.Attachment{}
	}
	if p.Comments == nil {
		p.Comments = []*domain.Comment{}
	}
	if !p.UserInteraction.Valid() {
		p.UserInteraction = domain.InteractionNone
	}
	p.Stats = domain.Stats{
		Views:    clamp(p.Stats.Views),
		Likes:    clamp(p.Stats.Likes),
		Dislikes: clamp(p.Stats.Dislikes),
		Comments: clamp(p.Stats.Comments),
		Shares:   clamp(p.Stats.Shares),
	}
	return p
}

// Feed normalizes every section of a raw feed. Absent arrays become empty.
func Feed(raw *domain.RawFeedData) *domain.FeedData {
	if raw == nil {
		raw = &domain.RawFeedData{}
	}
	feed := &domain.FeedData{
		FeaturedPosts:        Posts(raw.FeaturedPosts),
		DiscoveryPosts:       Posts(raw.DiscoveryPosts),
		InterestGroups:       make([]domain.InterestGroup, 0, len(raw.InterestGroups)),
		SuggestedCommunities: make([]*domain.CommunitySuggestion, 0, len(raw.SuggestedCommunities)),
		TrendingTags:         nonNilStrings(raw.TrendingTags),
	}
	for _, g := range raw.InterestGroups {
		feed.InterestGroups = append(feed.InterestGroups, domain.InterestGroup{
			Category: domain.Category(g.Category),
			Posts:    Posts(g.Posts),
		})
	}
	for i := range raw.SuggestedCommunities {
		s := raw.SuggestedCommunities[i]
		if s.MemberCount < 0 {
			s.MemberCount = 0
		}
		s.IsLoadingJoin = false
		feed.SuggestedCommunities = append(feed.SuggestedCommunities, &s)
	}
	return feed
}

// CommunityProfile unwraps the nested posts envelope of a community page
func CommunityProfile(raw *domain.RawCommunityProfile) *domain.CommunityProfile {
	out := &domain.CommunityProfile{
		Community: raw.Community,
		OwnerID:   raw.OwnerID,
		Posts:     []*domain.Post{},
	}
	if raw.MemberRole != nil {
		out.MemberRole = *raw.MemberRole
	}
	if raw.Posts != nil && raw.Posts.Data != nil {
		out.Posts = Posts(raw.Posts.Data)
		out.TotalCount = raw.Posts.TotalCount
	}
	return out
}

func stats(raw *domain.RawStats) domain.Stats {
	if raw == nil {
		return domain.Stats{}
	}
	return domain.Stats{
		Views:    clamp(int(raw.Views)),
		Likes:    clamp(int(raw.Likes)),
		Dislikes: clamp(int(raw.Dislikes)),
		Comments: clamp(int(raw.Comments)),
		Shares:   clamp(int(raw.Shares)),
	}
}

func attachments(raw []domain.Attachment) []domain.Attachment {
	out := make([]domain.Attachment, 0, len(raw))
	for _, a := range raw {
		a.URL = strings.TrimSpace(a.URL)
		if a.URL == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

func interaction(t domain.InteractionType) domain.InteractionType {
	if t.Valid() {
		return t
	}
	return domain.InteractionNone
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

func parseOptionalTime(s string) *time.Time {
	t := parseTime(s)
	if t.IsZero() {
		return nil
	}
	return &t
}

func nonNilStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
