// Package feed partitions one home feed payload into display sections.
package feed

import (
	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/media"
	"github.com/nyc360/feed-engine/internal/normalize"
)

// DefaultFeaturedCount is the number of featured slots on the home page
const DefaultFeaturedCount = 3

// Options controls section building
type Options struct {
	// FeaturedCount is the number of featured slots (N)
	FeaturedCount int `yaml:"featured_count"`
	// RequireImage excludes posts without an image from every section
	RequireImage bool `yaml:"require_image"`
}

// Sections is the display-ready home feed
type Sections struct {
	Featured             []*domain.Post                `json:"featured"`
	Hero                 *domain.Post                  `json:"hero"`
	Groups               []domain.InterestGroup        `json:"groups"`
	Highlights           []*domain.Post                `json:"highlights"`
	TrendingTags         []string                      `json:"trendingTags"`
	SuggestedCommunities []*domain.CommunitySuggestion `json:"suggestedCommunities"`
}

// Aggregator builds Sections from feed payloads
type Aggregator struct {
	opts Options
}

// NewAggregator creates an Aggregator; a non-positive FeaturedCount falls
// back to DefaultFeaturedCount.
func NewAggregator(opts Options) *Aggregator {
	if opts.FeaturedCount <= 0 {
		opts.FeaturedCount = DefaultFeaturedCount
	}
	return &Aggregator{opts: opts}
}

// Options returns the effective options
func (a *Aggregator) Options() Options {
	return a.opts
}

// Aggregate normalizes raw and partitions it into sections
func (a *Aggregator) Aggregate(raw *domain.RawFeedData) *Sections {
	return a.Build(normalize.Feed(raw))
}

// Build partitions an already normalized feed
func (a *Aggregator) Build(data *domain.FeedData) *Sections {
	if data == nil {
		data = normalize.Feed(nil)
	}
	n := a.opts.FeaturedCount
	interned := make(map[int64]*domain.Post)

	featured := a.eligible(data.FeaturedPosts, interned)
	s := &Sections{
		Featured:             featured[:min(n, len(featured))],
		Groups:               make([]domain.InterestGroup, 0, len(data.InterestGroups)),
		Highlights:           make([]*domain.Post, 0, len(data.InterestGroups)),
		TrendingTags:         data.TrendingTags,
		SuggestedCommunities: data.SuggestedCommunities,
	}

	if discovery := a.eligible(data.DiscoveryPosts, interned); len(discovery) > 0 {
		s.Hero = discovery[0]
	} else if len(featured) > n {
		s.Hero = featured[n]
	}

	for _, g := range data.InterestGroups {
		posts := a.eligible(g.Posts, interned)
		if len(posts) == 0 {
			continue
		}
		s.Groups = append(s.Groups, domain.InterestGroup{Category: g.Category, Posts: posts})
		s.Highlights = append(s.Highlights, posts[0])
	}

	return s
}

// eligible filters posts and interns them by id, so a post listed in several
// sections is a single entity and a reaction shows everywhere at once.
func (a *Aggregator) eligible(posts []*domain.Post, interned map[int64]*domain.Post) []*domain.Post {
	out := make([]*domain.Post, 0, len(posts))
	for _, p := range posts {
		if p == nil {
			continue
		}
		if a.opts.RequireImage && !media.HasImage(p) {
			continue
		}
		if p.ID != 0 {
			if first, ok := interned[p.ID]; ok {
				p = first
			} else {
				interned[p.ID] = p
			}
		}
		out = append(out, p)
	}
	return out
}

// FindPost returns every distinct instance of the post with id across the
// sections. Aggregated sections hold one instance per id.
func (s *Sections) FindPost(id int64) []*domain.Post {
	var out []*domain.Post
	seen := make(map[*domain.Post]bool)
	visit := func(p *domain.Post) {
		if p != nil && p.ID == id && !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range s.Featured {
		visit(p)
	}
	visit(s.Hero)
	for _, g := range s.Groups {
		for _, p := range g.Posts {
			visit(p)
		}
	}
	return out
}

// FindCommunity returns the suggestion with id, or nil
func (s *Sections) FindCommunity(id int64) *domain.CommunitySuggestion {
	for _, c := range s.SuggestedCommunities {
		if c.ID == id {
			return c
		}
	}
	return nil
}
