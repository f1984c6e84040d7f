package domain

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Fallback display names
const (
	// DefaultAuthorName is shown when a post carries no usable author
	DefaultAuthorName = "NYC360"
	// DefaultCommenterName is shown for comments without a usable author
	DefaultCommenterName = "User"
)

// AuthorKind tags which variant an Author holds
type AuthorKind int

const (
	AuthorAbsent AuthorKind = iota
	AuthorInline
	AuthorLegacy
)

// Author is the author snapshot embedded in posts and comments. The API sends
// either an object, a bare string (legacy rows) or nothing at all.
type Author struct {
	Kind     AuthorKind
	ID       int64
	Username string
	FullName string
	Name     string
	ImageURL string
	Type     int
	// Legacy holds the raw string of a legacy author
	Legacy string
}

type inlineAuthor struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	FullName string `json:"fullName,omitempty"`
	Name     string `json:"name,omitempty"`
	ImageURL string `json:"imageUrl,omitempty"`
	Type     int    `json:"type,omitempty"`
}

// InlineAuthor builds an object-shaped author
func InlineAuthor(id int64, name, imageURL string) Author {
	return Author{Kind: AuthorInline, ID: id, Name: name, ImageURL: imageURL}
}

// LegacyAuthor builds a string-shaped author
func LegacyAuthor(s string) Author {
	return Author{Kind: AuthorLegacy, Legacy: s}
}

// UnmarshalJSON accepts null, a string or an object. Anything else decodes as
// an absent author rather than failing the whole payload.
func (a *Author) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	*a = Author{}
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		*a = LegacyAuthor(s)
	case '{':
		var in inlineAuthor
		if err := json.Unmarshal(data, &in); err != nil {
			return nil
		}
		*a = Author{
			Kind:     AuthorInline,
			ID:       in.ID,
			Username: in.Username,
			FullName: in.FullName,
			Name:     in.Name,
			ImageURL: in.ImageURL,
			Type:     in.Type,
		}
	}
	return nil
}

// MarshalJSON writes the author back in the shape it arrived in
func (a Author) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AuthorLegacy:
		return json.Marshal(a.Legacy)
	case AuthorInline:
		return json.Marshal(inlineAuthor{
			ID:       a.ID,
			Username: a.Username,
			FullName: a.FullName,
			Name:     a.Name,
			ImageURL: a.ImageURL,
			Type:     a.Type,
		})
	default:
		return []byte("null"), nil
	}
}

// DisplayName returns the best human readable name, or fallback when none is
// available. An empty fallback means DefaultAuthorName.
func (a Author) DisplayName(fallback string) string {
	if fallback == "" {
		fallback = DefaultAuthorName
	}
	switch a.Kind {
	case AuthorInline:
		for _, s := range []string{a.Name, a.FullName, a.Username} {
			if s = strings.TrimSpace(s); s != "" {
				return s
			}
		}
	case AuthorLegacy:
		if s := strings.TrimSpace(a.Legacy); s != "" {
			return s
		}
	}
	return fallback
}

// Identity returns the author id as a string; legacy authors carry their id
// (or name) in the bare string.
func (a Author) Identity() string {
	switch a.Kind {
	case AuthorInline:
		if a.ID == 0 {
			return ""
		}
		return formatID(a.ID)
	case AuthorLegacy:
		return a.Legacy
	}
	return ""
}

// Image returns the stored avatar path, empty unless the author is inline
func (a Author) Image() string {
	if a.Kind != AuthorInline {
		return ""
	}
	return a.ImageURL
}
