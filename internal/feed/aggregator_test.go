package feed

import (
	"testing"

	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawPost(id int64, image string) domain.RawPost {
	p := domain.RawPost{ID: id}
	if image != "" {
		p.Attachments = []domain.Attachment{{ID: id, URL: image}}
	}
	return p
}

func ids(posts []*domain.Post) []int64 {
	out := make([]int64, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}

func TestAggregate_HeroFallsBackToNextFeatured(t *testing.T) {
	agg := NewAggregator(Options{FeaturedCount: 3})
	raw := &domain.RawFeedData{
		FeaturedPosts: []domain.RawPost{rawPost(1, ""), rawPost(2, ""), rawPost(3, ""), rawPost(4, ""), rawPost(5, "")},
	}

	s := agg.Aggregate(raw)

	assert.Equal(t, []int64{1, 2, 3}, ids(s.Featured))
	require.NotNil(t, s.Hero)
	assert.Equal(t, int64(4), s.Hero.ID)
}

func TestAggregate_DiscoveryWinsHero(t *testing.T) {
	agg := NewAggregator(Options{FeaturedCount: 4})
	raw := &domain.RawFeedData{
		FeaturedPosts:  []domain.RawPost{rawPost(1, ""), rawPost(2, ""), rawPost(3, ""), rawPost(4, ""), rawPost(5, "")},
		DiscoveryPosts: []domain.RawPost{rawPost(10, ""), rawPost(11, "")},
	}

	s := agg.Aggregate(raw)

	assert.Equal(t, []int64{1, 2, 3, 4}, ids(s.Featured))
	require.NotNil(t, s.Hero)
	assert.Equal(t, int64(10), s.Hero.ID)
}

func TestAggregate_NoHeroWhenFeaturedExhausted(t *testing.T) {
	agg := NewAggregator(Options{FeaturedCount: 3})
	s := agg.Aggregate(&domain.RawFeedData{
		FeaturedPosts: []domain.RawPost{rawPost(1, ""), rawPost(2, ""), rawPost(3, "")},
	})

	assert.Len(t, s.Featured, 3)
	assert.Nil(t, s.Hero)
}

func TestAggregate_EmptyFeed(t *testing.T) {
	s := NewAggregator(Options{}).Aggregate(nil)

	assert.Empty(t, s.Featured)
	assert.Nil(t, s.Hero)
	assert.Empty(t, s.Groups)
	assert.Empty(t, s.Highlights)
	assert.NotNil(t, s.TrendingTags)
	assert.NotNil(t, s.SuggestedCommunities)
}

func TestAggregate_RequireImageFiltersEverySection(t *testing.T) {
	agg := NewAggregator(Options{FeaturedCount: 2, RequireImage: true})
	raw := &domain.RawFeedData{
		FeaturedPosts:  []domain.RawPost{rawPost(1, "a.jpg"), rawPost(2, ""), rawPost(3, "c.jpg"), rawPost(4, "d.jpg")},
		DiscoveryPosts: []domain.RawPost{rawPost(10, "")},
		InterestGroups: []domain.RawInterestGroup{
			{Category: 7, Posts: []domain.RawPost{rawPost(20, ""), rawPost(21, "x.jpg")}},
			{Category: 8, Posts: []domain.RawPost{rawPost(30, "")}},
		},
	}

	s := agg.Aggregate(raw)

	assert.Equal(t, []int64{1, 3}, ids(s.Featured))
	require.NotNil(t, s.Hero, "discovery has no eligible post so the next eligible featured post is promoted")
	assert.Equal(t, int64(4), s.Hero.ID)
	require.Len(t, s.Groups, 1)
	assert.Equal(t, domain.CategoryNews, s.Groups[0].Category)
	assert.Equal(t, []int64{21}, ids(s.Groups[0].Posts))
	assert.Equal(t, []int64{21}, ids(s.Highlights))
}

func TestAggregate_WithoutImagePolicyKeepsEverything(t *testing.T) {
	agg := NewAggregator(Options{FeaturedCount: 2})
	raw := &domain.RawFeedData{
		DiscoveryPosts: []domain.RawPost{rawPost(10, "")},
		InterestGroups: []domain.RawInterestGroup{
			{Category: 1, Posts: []domain.RawPost{rawPost(20, ""), rawPost(21, "")}},
			{Category: 2, Posts: nil},
			{Category: 3, Posts: []domain.RawPost{rawPost(40, "")}},
		},
	}

	s := agg.Aggregate(raw)

	assert.Equal(t, int64(10), s.Hero.ID)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, []int64{20, 40}, ids(s.Highlights))
}

func TestAggregate_NormalizesStats(t *testing.T) {
	s := NewAggregator(Options{}).Aggregate(&domain.RawFeedData{
		FeaturedPosts: []domain.RawPost{{ID: 1}},
	})
	require.Len(t, s.Featured, 1)
	assert.Equal(t, domain.Stats{}, s.Featured[0].Stats)
}

func TestNewAggregator_DefaultsFeaturedCount(t *testing.T) {
	assert.Equal(t, DefaultFeaturedCount, NewAggregator(Options{FeaturedCount: -2}).Options().FeaturedCount)
}

func TestSections_Find(t *testing.T) {
	s := NewAggregator(Options{FeaturedCount: 1}).Aggregate(&domain.RawFeedData{
		FeaturedPosts: []domain.RawPost{rawPost(1, ""), rawPost(2, "")},
		InterestGroups: []domain.RawInterestGroup{
			{Category: 1, Posts: []domain.RawPost{rawPost(2, "")}},
		},
		SuggestedCommunities: []domain.CommunitySuggestion{{ID: 9, Name: "Queens Runners"}},
	})

	require.Len(t, s.FindPost(2), 1)
	assert.Same(t, s.Hero, s.Groups[0].Posts[0], "hero and group shelf share one instance")
	assert.Empty(t, s.FindPost(99))
	require.NotNil(t, s.FindCommunity(9))
	assert.Nil(t, s.FindCommunity(10))
}
