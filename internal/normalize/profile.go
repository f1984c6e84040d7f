package normalize

import (
	"strings"

	"github.com/nyc360/feed-engine/internal/domain"
)

// ProfessionFeed normalizes the professions page. Without an explicit hero
// the first article is promoted and removed from the grid.
func ProfessionFeed(raw *domain.RawProfessionFeed) *domain.ProfessionFeed {
	if raw == nil {
		raw = &domain.RawProfessionFeed{}
	}
	out := &domain.ProfessionFeed{
		Articles:     Posts(raw.Articles),
		TrendingTags: nonNilStrings(raw.TrendingTags),
	}
	switch {
	case raw.HeroArticle != nil:
		out.Hero = Post(*raw.HeroArticle)
	case len(out.Articles) > 0:
		out.Hero = out.Articles[0]
		out.Articles = out.Articles[1:]
	}
	return out
}

// UserProfile merges the nested and flattened profile shapes, the nested one
// winning field by field, and parses the dated history entries.
func UserProfile(raw *domain.RawUserProfile) *domain.UserProfile {
	info := raw.RawProfileInfo
	if raw.Profile != nil {
		info = mergeInfo(*raw.Profile, info)
	}
	out := &domain.UserProfile{
		ID:          raw.ID,
		Username:    strings.TrimSpace(raw.Username),
		FirstName:   strings.TrimSpace(info.FirstName),
		LastName:    strings.TrimSpace(info.LastName),
		Headline:    info.Headline,
		Bio:         info.Bio,
		ImageURL:    strings.TrimSpace(info.ImageURL),
		CoverURL:    strings.TrimSpace(info.CoverImageURL),
		LocationID:  info.LocationID,
		Educations:  make([]domain.Education, 0, len(raw.Educations)),
		Positions:   make([]domain.Position, 0, len(raw.Positions)),
		SocialLinks: make([]domain.SocialLink, 0, len(raw.SocialLinks)),
		Posts:       Posts(raw.Posts),
	}
	for _, e := range raw.Educations {
		out.Educations = append(out.Educations, domain.Education{
			ID:           e.ID,
			School:       e.School,
			Degree:       e.Degree,
			FieldOfStudy: e.FieldOfStudy,
			StartDate:    parseOptionalTime(e.StartDate),
			EndDate:      parseOptionalTime(e.EndDate),
		})
	}
	for _, p := range raw.Positions {
		pos := domain.Position{
			ID:        p.ID,
			Title:     p.Title,
			Company:   p.Company,
			StartDate: parseOptionalTime(p.StartDate),
			IsCurrent: p.IsCurrent,
		}
		if !p.IsCurrent {
			pos.EndDate = parseOptionalTime(p.EndDate)
		}
		out.Positions = append(out.Positions, pos)
	}
	for _, l := range raw.SocialLinks {
		l.URL = strings.TrimSpace(l.URL)
		if l.URL == "" {
			continue
		}
		out.SocialLinks = append(out.SocialLinks, l)
	}
	return out
}

func mergeInfo(primary, fallback domain.RawProfileInfo) domain.RawProfileInfo {
	pick := func(a, b string) string {
		if strings.TrimSpace(a) != "" {
			return a
		}
		return b
	}
	out := domain.RawProfileInfo{
		FirstName:     pick(primary.FirstName, fallback.FirstName),
		LastName:      pick(primary.LastName, fallback.LastName),
		Headline:      pick(primary.Headline, fallback.Headline),
		Bio:           pick(primary.Bio, fallback.Bio),
		ImageURL:      pick(primary.ImageURL, fallback.ImageURL),
		CoverImageURL: pick(primary.CoverImageURL, fallback.CoverImageURL),
		LocationID:    primary.LocationID,
	}
	if out.LocationID == 0 {
		out.LocationID = fallback.LocationID
	}
	return out
}
