package domain

import "strconv"

// Category is the numeric domain tag shared with the backend enum
type Category int

const (
	CategoryCommunity Category = iota
	CategoryCulture
	CategoryEducation
	CategoryHousing
	CategoryHealth
	CategoryLegal
	CategoryLifestyle
	CategoryNews
	CategoryProfessions
	CategorySocial
	CategoryTransportation
	CategoryTV
)

// CategoryAll is the pseudo category used by filters to mean "no filter"
const CategoryAll Category = -1

// CategoryTheme holds display metadata for a category
type CategoryTheme struct {
	ID    Category `json:"id"`
	Label string   `json:"name"`
	Path  string   `json:"path"`
	Icon  string   `json:"icon"`
}

var categoryThemes = []CategoryTheme{
	{CategoryCommunity, "Community", "community", "bi-people-fill"},
	{CategoryCulture, "Culture", "culture", "bi-palette-fill"},
	{CategoryEducation, "Education", "education", "bi-mortarboard-fill"},
	{CategoryHousing, "Housing", "housing", "bi-house-door-fill"},
	{CategoryHealth, "Health", "health", "bi-heart-pulse-fill"},
	{CategoryLegal, "Legal", "legal", "bi-hammer"},
	{CategoryLifestyle, "Lifestyle", "lifestyle", "bi-cup-hot-fill"},
	{CategoryNews, "News", "news", "bi-newspaper"},
	{CategoryProfessions, "Professions", "professions", "bi-briefcase-fill"},
	{CategorySocial, "Social", "social", "bi-chat-quote-fill"},
	{CategoryTransportation, "Transportation", "transportation", "bi-car-front-fill"},
	{CategoryTV, "TV", "tv", "bi-tv-fill"},
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	return c >= CategoryCommunity && c <= CategoryTV
}

// Label returns the display label, "General" for unknown ids
func (c Category) Label() string {
	if !c.Valid() {
		return "General"
	}
	return categoryThemes[c].Label
}

// Theme returns the theme entry for c
func (c Category) Theme() (CategoryTheme, bool) {
	if !c.Valid() {
		return CategoryTheme{}, false
	}
	return categoryThemes[c], true
}

// Categories returns all categories, optionally prefixed with the "All" entry
func Categories(withAll bool) []CategoryTheme {
	out := make([]CategoryTheme, 0, len(categoryThemes)+1)
	if withAll {
		out = append(out, CategoryTheme{ID: CategoryAll, Label: "All", Icon: "bi-grid-fill"})
	}
	return append(out, categoryThemes...)
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
