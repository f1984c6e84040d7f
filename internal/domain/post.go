package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// InteractionType is the viewer's active reaction on a post; at most one is
// active at a time.
type InteractionType int

const (
	InteractionNone    InteractionType = 0
	InteractionLike    InteractionType = 1
	InteractionDislike InteractionType = 2
)

// Valid reports whether t is Like or Dislike
func (t InteractionType) Valid() bool {
	return t == InteractionLike || t == InteractionDislike
}

func (t InteractionType) String() string {
	switch t {
	case InteractionLike:
		return "like"
	case InteractionDislike:
		return "dislike"
	default:
		return "none"
	}
}

// MarshalJSON encodes None as null, matching the nullable API field
func (t InteractionType) MarshalJSON() ([]byte, error) {
	if !t.Valid() {
		return []byte("null"), nil
	}
	return []byte(strconv.Itoa(int(t))), nil
}

// UnmarshalJSON decodes null or a number; unknown values become None
func (t *InteractionType) UnmarshalJSON(data []byte) error {
	*t = InteractionNone
	var n FlexInt
	if err := n.UnmarshalJSON(data); err != nil {
		return nil
	}
	if v := InteractionType(n); v.Valid() {
		*t = v
	}
	return nil
}

// FlexInt decodes numbers, numeric strings and null. Anything malformed
// decodes as zero instead of failing the enclosing payload.
type FlexInt int

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = 0
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		data = []byte(s)
	}
	if n, err := strconv.ParseFloat(string(data), 64); err == nil {
		*f = FlexInt(int(n))
	}
	return nil
}

// Stats holds the post counters. All values are non-negative.
type Stats struct {
	Views    int `json:"views"`
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// RawStats is the wire form of Stats; any counter may be missing
type RawStats struct {
	Views    FlexInt `json:"views"`
	Likes    FlexInt `json:"likes"`
	Dislikes FlexInt `json:"dislikes"`
	Comments FlexInt `json:"comments"`
	Shares   FlexInt `json:"shares"`
}

// Attachment is a file attached to a post
type Attachment struct {
	ID   int64  `json:"id"`
	URL  string `json:"url"`
	Type int    `json:"type,omitempty"`
}

// Post is the canonical, normalized post used by every view
type Post struct {
	ID              int64           `json:"id"`
	Title           string          `json:"title"`
	Content         string          `json:"content"`
	Category        Category        `json:"category"`
	CreatedAt       time.Time       `json:"createdAt"`
	LastUpdated     *time.Time      `json:"lastUpdated,omitempty"`
	ImageURL        string          `json:"imageUrl,omitempty"`
	Tags            []string        `json:"tags"`
	Author          Author          `json:"author"`
	Stats           Stats           `json:"stats"`
	Attachments     []Attachment    `json:"attachments"`
	Comments        []*Comment      `json:"comments"`
	UserInteraction InteractionType `json:"userInteraction"`
	IsSaved         bool            `json:"isSaved"`
}

// RawPost is a post as any endpoint returns it. Pointer fields distinguish
// "absent" from zero values; legacy aliases are kept until normalization.
type RawPost struct {
	ID                     int64            `json:"id"`
	Title                  string           `json:"title"`
	Content                string           `json:"content"`
	Category               FlexInt          `json:"category"`
	CreatedAt              string           `json:"createdAt"`
	LastUpdated            string           `json:"lastUpdated"`
	ImageURL               *string          `json:"imageUrl"`
	Tags                   []string         `json:"tags"`
	Author                 Author           `json:"author"`
	Stats                  *RawStats        `json:"stats"`
	Comments               []RawComment     `json:"comments"`
	Attachments            []Attachment     `json:"attachments"`
	UserInteraction        *InteractionType `json:"userInteraction"`
	CurrentUserInteraction *InteractionType `json:"currentUserInteraction"`
	IsSaved                *bool            `json:"isSaved"`
	IsSavedByUser          *bool            `json:"isSavedByUser"`
}

// Comment is a post comment; replies nest with the same shape
type Comment struct {
	ID        int64      `json:"id"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	Replies   []*Comment `json:"replies"`
}

// RawComment is the wire form of Comment
type RawComment struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	Author    Author       `json:"author"`
	CreatedAt string       `json:"createdAt"`
	Replies   []RawComment `json:"replies"`
}

// PrimaryImage returns the first attachment url, falling back to ImageURL
func (p *Post) PrimaryImage() string {
	for _, a := range p.Attachments {
		if a.URL != "" {
			return a.URL
		}
	}
	return p.ImageURL
}
