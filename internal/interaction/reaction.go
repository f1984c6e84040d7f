package interaction

import "github.com/nyc360/feed-engine/internal/domain"

// Reaction is the like/dislike slice of a post that a toggle may change
type Reaction struct {
	Kind     domain.InteractionType
	Likes    int
	Dislikes int
}

// ReactionOf captures the current reaction state of p
func ReactionOf(p *domain.Post) Reaction {
	return Reaction{Kind: p.UserInteraction, Likes: p.Stats.Likes, Dislikes: p.Stats.Dislikes}
}

// applyTo writes r back onto p
func (r Reaction) applyTo(p *domain.Post) {
	p.UserInteraction = r.Kind
	p.Stats.Likes = r.Likes
	p.Stats.Dislikes = r.Dislikes
}

// Toggle applies one click on target. Clicking the active kind clears it;
// clicking the other kind moves the vote. Exactly one counter moves up or
// down by one for the cleared case, and at most one -1 plus one +1 otherwise.
func Toggle(r Reaction, target domain.InteractionType) Reaction {
	if !target.Valid() {
		return r
	}
	if r.Kind == target {
		r.dec(target)
		r.Kind = domain.InteractionNone
		return r
	}
	if r.Kind.Valid() {
		r.dec(r.Kind)
	}
	r.inc(target)
	r.Kind = target
	return r
}

func (r *Reaction) inc(k domain.InteractionType) {
	if k == domain.InteractionLike {
		r.Likes++
	} else {
		r.Dislikes++
	}
}

// dec never goes below zero; a server count already at zero stays there
func (r *Reaction) dec(k domain.InteractionType) {
	if k == domain.InteractionLike {
		if r.Likes > 0 {
			r.Likes--
		}
	} else if r.Dislikes > 0 {
		r.Dislikes--
	}
}

func setSaved(_ bool, want bool) bool { return want }
