package service

import (
	"time"

	"github.com/nyc360/feed-engine/internal/domain"
	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/media"
)

// AuthorView is an author ready for display
type AuthorView struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	ImageURL string `json:"imageUrl"`
}

// PostCard is a post as rendered in a list or shelf
type PostCard struct {
	ID              int64                  `json:"id"`
	Title           string                 `json:"title"`
	Content         string                 `json:"content"`
	Category        domain.Category        `json:"category"`
	CategoryLabel   string                 `json:"categoryLabel"`
	CategoryPath    string                 `json:"categoryPath,omitempty"`
	CreatedAt       time.Time              `json:"createdAt"`
	LastUpdated     *time.Time             `json:"lastUpdated,omitempty"`
	ImageURL        string                 `json:"imageUrl"`
	FallbackImage   string                 `json:"fallbackImage"`
	HasImage        bool                   `json:"hasImage"`
	Tags            []string               `json:"tags"`
	Author          AuthorView             `json:"author"`
	Stats           domain.Stats           `json:"stats"`
	UserInteraction domain.InteractionType `json:"userInteraction"`
	IsSaved         bool                   `json:"isSaved"`
}

// AttachmentView is an attachment with a resolved url
type AttachmentView struct {
	ID   int64  `json:"id"`
	URL  string `json:"url"`
	Type int    `json:"type,omitempty"`
}

// CommentView is a rendered comment and its replies
type CommentView struct {
	ID        int64         `json:"id"`
	Content   string        `json:"content"`
	Author    AuthorView    `json:"author"`
	CreatedAt time.Time     `json:"createdAt"`
	Replies   []CommentView `json:"replies"`
}

// PostDetail is the full post page
type PostDetail struct {
	PostCard
	Attachments []AttachmentView `json:"attachments"`
	Comments    []CommentView    `json:"comments"`
}

// CommunityCard is a suggested community
type CommunityCard struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ImageURL      string `json:"imageUrl"`
	MemberCount   int    `json:"memberCount"`
	IsJoined      bool   `json:"isJoined"`
	IsLoadingJoin bool   `json:"isLoadingJoin"`
}

// GroupView is one interest shelf
type GroupView struct {
	Category domain.Category `json:"category"`
	Label    string          `json:"label"`
	Posts    []PostCard      `json:"posts"`
}

// HomePage is the rendered home feed
type HomePage struct {
	Loaded               bool            `json:"loaded"`
	Loading              bool            `json:"loading"`
	Featured             []PostCard      `json:"featured"`
	Hero                 *PostCard       `json:"hero"`
	Groups               []GroupView     `json:"groups"`
	Highlights           []PostCard      `json:"highlights"`
	TrendingTags         []string        `json:"trendingTags"`
	SuggestedCommunities []CommunityCard `json:"suggestedCommunities"`
}

// PostPage is the rendered post details view
type PostPage struct {
	Loading bool        `json:"loading"`
	Error   string      `json:"error,omitempty"`
	CanEdit bool        `json:"canEdit"`
	Post    *PostDetail `json:"post"`
}

// ListPage is a rendered page of posts
type ListPage struct {
	Loading    bool       `json:"loading"`
	Saved      bool       `json:"saved"`
	Category   *int       `json:"category,omitempty"`
	Search     string     `json:"search,omitempty"`
	Tag        string     `json:"tag,omitempty"`
	Posts      []PostCard `json:"posts"`
	Page       int        `json:"page"`
	PageSize   int        `json:"pageSize"`
	TotalCount int        `json:"totalCount"`
	TotalPages int        `json:"totalPages"`
}

// CommunityPage is a rendered community profile
type CommunityPage struct {
	Loading     bool       `json:"loading"`
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ImageURL    string     `json:"imageUrl"`
	CoverURL    string     `json:"coverUrl"`
	MemberCount int        `json:"memberCount"`
	MemberRole  string     `json:"memberRole,omitempty"`
	Posts       []PostCard `json:"posts"`
	TotalCount  int        `json:"totalCount"`
}

// ProfessionPage is the rendered professions feed
type ProfessionPage struct {
	Loading      bool       `json:"loading"`
	Hero         *PostCard  `json:"hero"`
	Articles     []PostCard `json:"articles"`
	TrendingTags []string   `json:"trendingTags"`
}

// SocialLinkView is a profile link with its platform label
type SocialLinkView struct {
	Platform     domain.SocialPlatform `json:"platform"`
	PlatformName string                `json:"platformName"`
	URL          string                `json:"url"`
}

// ProfilePage is a rendered user profile
type ProfilePage struct {
	Loading     bool               `json:"loading"`
	IsOwner     bool               `json:"isOwner"`
	ID          int64              `json:"id"`
	Username    string             `json:"username"`
	DisplayName string             `json:"displayName"`
	Headline    string             `json:"headline"`
	Bio         string             `json:"bio"`
	AvatarURL   string             `json:"avatarUrl"`
	CoverURL    string             `json:"coverUrl"`
	LocationID  int                `json:"locationId,omitempty"`
	Educations  []domain.Education `json:"educations"`
	Positions   []domain.Position  `json:"positions"`
	SocialLinks []SocialLinkView   `json:"socialLinks"`
	Posts       []PostCard         `json:"posts"`
}

// Presenter turns canonical entities into display values. Its output shares
// no memory with the entities, so it can leave the workspace lock.
type Presenter struct {
	resolver *media.Resolver
}

// NewPresenter creates a Presenter
func NewPresenter(resolver *media.Resolver) *Presenter {
	return &Presenter{resolver: resolver}
}

// Author renders an author; fallback names anonymous or absent authors
func (p *Presenter) Author(a domain.Author, fallback string) AuthorView {
	return AuthorView{
		ID:       a.Identity(),
		Name:     a.DisplayName(fallback),
		ImageURL: p.resolver.AuthorImage(a),
	}
}

// Card renders a post card
func (p *Presenter) Card(post *domain.Post) PostCard {
	card := PostCard{
		ID:              post.ID,
		Title:           post.Title,
		Content:         post.Content,
		Category:        post.Category,
		CategoryLabel:   post.Category.Label(),
		CreatedAt:       post.CreatedAt,
		LastUpdated:     post.LastUpdated,
		ImageURL:        p.resolver.PostImage(post),
		FallbackImage:   media.FallbackSVG(media.KindPost),
		HasImage:        media.HasImage(post),
		Tags:            append([]string{}, post.Tags...),
		Author:          p.Author(post.Author, ""),
		Stats:           post.Stats,
		UserInteraction: post.UserInteraction,
		IsSaved:         post.IsSaved,
	}
	if theme, ok := post.Category.Theme(); ok {
		card.CategoryPath = theme.Path
	}
	return card
}

// Cards renders a list of posts
func (p *Presenter) Cards(posts []*domain.Post) []PostCard {
	out := make([]PostCard, 0, len(posts))
	for _, post := range posts {
		if post != nil {
			out = append(out, p.Card(post))
		}
	}
	return out
}

// Detail renders a full post with attachments and the comment tree
func (p *Presenter) Detail(post *domain.Post) *PostDetail {
	d := &PostDetail{
		PostCard:    p.Card(post),
		Attachments: make([]AttachmentView, 0, len(post.Attachments)),
		Comments:    p.Comments(post.Comments),
	}
	for _, a := range post.Attachments {
		d.Attachments = append(d.Attachments, AttachmentView{
			ID:   a.ID,
			URL:  p.resolver.Resolve(a.URL, media.KindPost),
			Type: a.Type,
		})
	}
	return d
}

// Comments renders a comment tree
func (p *Presenter) Comments(list []*domain.Comment) []CommentView {
	out := make([]CommentView, 0, len(list))
	for _, c := range list {
		if c == nil {
			continue
		}
		out = append(out, CommentView{
			ID:        c.ID,
			Content:   c.Content,
			Author:    p.Author(c.Author, domain.DefaultCommenterName),
			CreatedAt: c.CreatedAt,
			Replies:   p.Comments(c.Replies),
		})
	}
	return out
}

// Community renders a suggested community
func (p *Presenter) Community(c *domain.CommunitySuggestion) CommunityCard {
	return CommunityCard{
		ID:            c.ID,
		Name:          c.Name,
		Slug:          c.Slug,
		ImageURL:      p.resolver.CommunityImage(c.ImageURL),
		MemberCount:   c.MemberCount,
		IsJoined:      c.IsJoined,
		IsLoadingJoin: c.IsLoadingJoin,
	}
}

// Home renders the home sections; s may be nil before the first load
func (p *Presenter) Home(s *feed.Sections) HomePage {
	page := HomePage{
		Featured:             []PostCard{},
		Groups:               []GroupView{},
		Highlights:           []PostCard{},
		TrendingTags:         []string{},
		SuggestedCommunities: []CommunityCard{},
	}
	if s == nil {
		return page
	}

	page.Loaded = true
	page.Featured = p.Cards(s.Featured)
	if s.Hero != nil {
		hero := p.Card(s.Hero)
		page.Hero = &hero
	}
	for _, g := range s.Groups {
		page.Groups = append(page.Groups, GroupView{
			Category: g.Category,
			Label:    g.Category.Label(),
			Posts:    p.Cards(g.Posts),
		})
	}
	page.Highlights = p.Cards(s.Highlights)
	page.TrendingTags = append(page.TrendingTags, s.TrendingTags...)
	for _, c := range s.SuggestedCommunities {
		if c != nil {
			page.SuggestedCommunities = append(page.SuggestedCommunities, p.Community(c))
		}
	}
	return page
}

// Profession renders the professions feed; f may be nil before the first load
func (p *Presenter) Profession(f *domain.ProfessionFeed) ProfessionPage {
	page := ProfessionPage{Articles: []PostCard{}, TrendingTags: []string{}}
	if f == nil {
		return page
	}
	if f.Hero != nil {
		hero := p.Card(f.Hero)
		page.Hero = &hero
	}
	page.Articles = p.Cards(f.Articles)
	page.TrendingTags = append(page.TrendingTags, f.TrendingTags...)
	return page
}

// Profile renders a user profile
func (p *Presenter) Profile(u *domain.UserProfile) ProfilePage {
	page := ProfilePage{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName(domain.DefaultProfileName),
		Headline:    u.Headline,
		Bio:         u.Bio,
		AvatarURL:   p.resolver.Resolve(u.ImageURL, media.KindAvatar),
		CoverURL:    p.resolver.Resolve(u.CoverURL, media.KindCover),
		LocationID:  u.LocationID,
		Educations:  append([]domain.Education{}, u.Educations...),
		Positions:   append([]domain.Position{}, u.Positions...),
		SocialLinks: make([]SocialLinkView, 0, len(u.SocialLinks)),
		Posts:       p.Cards(u.Posts),
	}
	for _, l := range u.SocialLinks {
		page.SocialLinks = append(page.SocialLinks, SocialLinkView{
			Platform:     l.Platform,
			PlatformName: l.Platform.Name(),
			URL:          l.URL,
		})
	}
	return page
}
