package domain

import (
	"strings"
	"time"
)

// RawProfessionFeed is the payload of the professions feed. The hero may be
// absent, in which case the first article leads the page.
type RawProfessionFeed struct {
	HeroArticle  *RawPost  `json:"heroArticle"`
	Articles     []RawPost `json:"articles"`
	TrendingTags []string  `json:"trendingTags"`
}

// ProfessionFeed is the normalized professions page
type ProfessionFeed struct {
	Hero         *Post    `json:"hero"`
	Articles     []*Post  `json:"articles"`
	TrendingTags []string `json:"trendingTags"`
}

// SocialPlatform identifies the site a profile link points to
type SocialPlatform int

const (
	SocialFacebook SocialPlatform = iota
	SocialTwitter
	SocialLinkedIn
	SocialGithub
	SocialWebsite
	SocialOther
)

var socialPlatformNames = map[SocialPlatform]string{
	SocialFacebook: "Facebook",
	SocialTwitter:  "Twitter",
	SocialLinkedIn: "LinkedIn",
	SocialGithub:   "Github",
	SocialWebsite:  "Website",
	SocialOther:    "Other",
}

// Name returns the platform label, "Link" for unknown values
func (p SocialPlatform) Name() string {
	if n, ok := socialPlatformNames[p]; ok {
		return n
	}
	return "Link"
}

// SocialLink is one external link on a profile
type SocialLink struct {
	ID       int64          `json:"id"`
	Platform SocialPlatform `json:"platform"`
	URL      string         `json:"url"`
}

// RawProfileInfo carries the editable part of a profile. The upstream sends
// it nested under "profile" on some endpoints and flattened on others.
type RawProfileInfo struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Headline      string `json:"headline"`
	Bio           string `json:"bio"`
	ImageURL      string `json:"imageUrl"`
	CoverImageURL string `json:"coverImageUrl"`
	LocationID    int    `json:"locationId"`
}

// RawEducation is the wire form of Education
type RawEducation struct {
	ID           int64  `json:"id"`
	School       string `json:"school"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"fieldOfStudy"`
	StartDate    string `json:"startDate"`
	EndDate      string `json:"endDate"`
}

// RawPosition is the wire form of Position
type RawPosition struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Company   string `json:"company"`
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	IsCurrent bool   `json:"isCurrent"`
}

// RawUserProfile is the payload of the user profile endpoint
type RawUserProfile struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	RawProfileInfo
	Profile     *RawProfileInfo `json:"profile"`
	Educations  []RawEducation  `json:"educations"`
	Positions   []RawPosition   `json:"positions"`
	SocialLinks []SocialLink    `json:"socialLinks"`
	Posts       []RawPost       `json:"posts"`
}

// Education is a school entry of a profile
type Education struct {
	ID           int64      `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldOfStudy"`
	StartDate    *time.Time `json:"startDate,omitempty"`
	EndDate      *time.Time `json:"endDate,omitempty"`
}

// Position is a job entry of a profile. A current position has no end date.
type Position struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Company   string     `json:"company"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	IsCurrent bool       `json:"isCurrent"`
}

// DefaultProfileName is shown for profiles without any name
const DefaultProfileName = "NYC360 User"

// UserProfile is the normalized profile page
type UserProfile struct {
	ID          int64        `json:"id"`
	Username    string       `json:"username"`
	FirstName   string       `json:"firstName"`
	LastName    string       `json:"lastName"`
	Headline    string       `json:"headline"`
	Bio         string       `json:"bio"`
	ImageURL    string       `json:"imageUrl"`
	CoverURL    string       `json:"coverUrl"`
	LocationID  int          `json:"locationId"`
	Educations  []Education  `json:"educations"`
	Positions   []Position   `json:"positions"`
	SocialLinks []SocialLink `json:"socialLinks"`
	Posts       []*Post      `json:"posts"`
}

// DisplayName joins first and last name, falling back to the username and
// then to fallback
func (u *UserProfile) DisplayName(fallback string) string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	switch {
	case name != "":
		return name
	case u.Username != "":
		return u.Username
	default:
		return fallback
	}
}
