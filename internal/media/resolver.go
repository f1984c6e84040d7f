// Package media maps stored asset paths to absolute display URLs.
package media

import (
	"strings"

	"github.com/nyc360/feed-engine/internal/domain"
)

// Kind is the asset category an url belongs to
type Kind string

const (
	KindAvatar    Kind = "avatar"
	KindCover     Kind = "cover"
	KindPost      Kind = "post"
	KindCommunity Kind = "community"
	KindRSS       Kind = "rss"
	KindDefault   Kind = "default"
)

// DefaultLocalMarker prefixes paths stored on the API's local disk
const DefaultLocalMarker = "@local://"

var absolutePrefixes = []string{"http://", "https://", "data:"}

// Config holds the media bases. SubPaths maps a kind to the folder under
// RemoteBase it is served from.
type Config struct {
	LocalMarker  string          `yaml:"local_marker"`
	LocalBase    string          `yaml:"local_base"`
	RemoteBase   string          `yaml:"remote_base"`
	SubPaths     map[Kind]string `yaml:"sub_paths"`
	Placeholders map[Kind]string `yaml:"placeholders"`
}

// DefaultSubPaths returns the upstream folder layout
func DefaultSubPaths() map[Kind]string {
	return map[Kind]string{
		KindAvatar:    "avatars",
		KindCover:     "covers",
		KindCommunity: "communities",
		KindPost:      "",
		KindRSS:       "",
		KindDefault:   "",
	}
}

// DefaultPlaceholders returns the bundled placeholder assets
func DefaultPlaceholders() map[Kind]string {
	return map[Kind]string{
		KindAvatar:    "assets/images/default-avatar.png",
		KindCover:     "assets/images/default-cover.jpg",
		KindPost:      "assets/images/default-placeholder.jpg",
		KindCommunity: "assets/images/placeholder-cover.jpg",
		KindRSS:       "assets/images/placeholder.jpg",
		KindDefault:   "assets/images/placeholder.jpg",
	}
}

// Resolver is a pure url resolver; it is safe for concurrent use
type Resolver struct {
	marker       string
	localBase    string
	remoteBase   string
	subPaths     map[Kind]string
	placeholders map[Kind]string
}

// NewResolver creates a Resolver, filling unset config with defaults
func NewResolver(cfg Config) *Resolver {
	r := &Resolver{
		marker:       cfg.LocalMarker,
		localBase:    strings.TrimRight(cfg.LocalBase, "/"),
		remoteBase:   strings.TrimRight(cfg.RemoteBase, "/"),
		subPaths:     DefaultSubPaths(),
		placeholders: DefaultPlaceholders(),
	}
	if r.marker == "" {
		r.marker = DefaultLocalMarker
	}
	if r.localBase == "" {
		r.localBase = r.remoteBase
	}
	for k, v := range cfg.SubPaths {
		r.subPaths[k] = strings.Trim(v, "/")
	}
	for k, v := range cfg.Placeholders {
		if v != "" {
			r.placeholders[k] = v
		}
	}
	return r
}

// Resolve maps url to an absolute display url. Rules, in order: empty url
// yields the kind placeholder; a local marker is stripped and joined to the
// local base; absolute urls pass through; anything else is joined to the
// remote base and the kind's folder.
func (r *Resolver) Resolve(url string, kind Kind) string {
	url = strings.TrimSpace(url)
	if url == "" {
		return r.Placeholder(kind)
	}

	if i := strings.Index(url, r.marker); i >= 0 {
		return join(r.localBase, url[i+len(r.marker):])
	}

	if isAbsolute(url) {
		return url
	}

	return join(r.remoteBase, r.subPaths[kind], url)
}

// Placeholder returns the local placeholder asset for kind
func (r *Resolver) Placeholder(kind Kind) string {
	if p, ok := r.placeholders[kind]; ok {
		return p
	}
	return r.placeholders[KindDefault]
}

// PostImage resolves the image shown for a post: its first attachment, then
// its imageUrl, then the post placeholder.
func (r *Resolver) PostImage(p *domain.Post) string {
	if p == nil {
		return r.Placeholder(KindPost)
	}
	return r.Resolve(p.PrimaryImage(), KindPost)
}

// AuthorImage resolves an author's avatar
func (r *Resolver) AuthorImage(a domain.Author) string {
	return r.Resolve(a.Image(), KindAvatar)
}

// CommunityImage resolves a community logo or cover
func (r *Resolver) CommunityImage(url string) string {
	return r.Resolve(url, KindCommunity)
}

// HasImage reports whether p has any image that resolves to a real asset
func HasImage(p *domain.Post) bool {
	return p != nil && p.PrimaryImage() != ""
}

func isAbsolute(url string) bool {
	lower := strings.ToLower(url)
	for _, prefix := range absolutePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

func join(base string, parts ...string) string {
	var b strings.Builder
	b.WriteString(base)
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('/')
		}
		b.WriteString(part)
	}
	return b.String()
}
