// Package comment inserts server-accepted comments and replies into a
// post's comment tree.
package comment

import "github.com/nyc360/feed-engine/internal/domain"

// AddTopLevel puts c at the head of the post's comments
func AddTopLevel(post *domain.Post, c *domain.Comment) {
	post.Comments = append([]*domain.Comment{c}, post.Comments...)
	post.Stats.Comments++
}

// AddReply appends c to parent's replies. The post counter covers replies too.
func AddReply(post *domain.Post, parent *domain.Comment, c *domain.Comment) {
	parent.Replies = append(parent.Replies, c)
	post.Stats.Comments++
}

// Find returns the comment with id anywhere in the tree, depth first
func Find(post *domain.Post, id int64) *domain.Comment {
	return find(post.Comments, id)
}

func find(list []*domain.Comment, id int64) *domain.Comment {
	for _, c := range list {
		if c == nil {
			continue
		}
		if c.ID == id {
			return c
		}
		if r := find(c.Replies, id); r != nil {
			return r
		}
	}
	return nil
}

// Count returns the number of comments in the tree, replies included
func Count(post *domain.Post) int {
	return count(post.Comments)
}

func count(list []*domain.Comment) int {
	n := 0
	for _, c := range list {
		if c != nil {
			n += 1 + count(c.Replies)
		}
	}
	return n
}
