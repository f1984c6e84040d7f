package domain

// InterestGroup is a server-defined shelf of posts sharing a category
type InterestGroup struct {
	Category Category `json:"category"`
	Posts    []*Post  `json:"posts"`
}

// RawInterestGroup is the wire form of InterestGroup
type RawInterestGroup struct {
	Category FlexInt   `json:"category"`
	Posts    []RawPost `json:"posts"`
}

// CommunitySuggestion is a community offered on the home feed. IsJoined and
// IsLoadingJoin are view-only flags.
type CommunitySuggestion struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ImageURL      string `json:"imageUrl,omitempty"`
	MemberCount   int    `json:"memberCount"`
	IsJoined      bool   `json:"isJoined"`
	IsLoadingJoin bool   `json:"isLoadingJoin"`
}

// RawFeedData is the home feed payload
type RawFeedData struct {
	FeaturedPosts        []RawPost             `json:"featuredPosts"`
	DiscoveryPosts       []RawPost             `json:"discoveryPosts"`
	InterestGroups       []RawInterestGroup    `json:"interestGroups"`
	SuggestedCommunities []CommunitySuggestion `json:"suggestedCommunities"`
	TrendingTags         []string              `json:"trendingTags"`
}

// FeedData is the normalized home feed
type FeedData struct {
	FeaturedPosts        []*Post                `json:"featuredPosts"`
	DiscoveryPosts       []*Post                `json:"discoveryPosts"`
	InterestGroups       []InterestGroup        `json:"interestGroups"`
	SuggestedCommunities []*CommunitySuggestion `json:"suggestedCommunities"`
	TrendingTags         []string               `json:"trendingTags"`
}

// Community is a community profile header
type Community struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Type        int    `json:"type"`
	ImageURL    string `json:"imageUrl"`
	CoverURL    string `json:"coverUrl"`
	MemberCount int    `json:"memberCount"`
}

// RawCommunityProfile is the payload of the community-by-slug endpoint; its
// posts arrive wrapped in a nested envelope.
type RawCommunityProfile struct {
	Community  Community            `json:"community"`
	Posts      *Envelope[[]RawPost] `json:"posts"`
	OwnerID    int64                `json:"ownerId"`
	MemberRole *string              `json:"memberRole"`
}

// CommunityProfile is the normalized community page
type CommunityProfile struct {
	Community  Community `json:"community"`
	Posts      []*Post   `json:"posts"`
	TotalCount int       `json:"totalCount"`
	OwnerID    int64     `json:"ownerId"`
	MemberRole string    `json:"memberRole,omitempty"`
}
