package comment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyc360/feed-engine/internal/domain"
)

func postWithComments(n int) *domain.Post {
	p := &domain.Post{ID: 1, Stats: domain.Stats{Comments: n}, Comments: []*domain.Comment{}}
	for i := 1; i <= n; i++ {
		p.Comments = append(p.Comments, &domain.Comment{ID: int64(i)})
	}
	return p
}

func TestAddTopLevel_InsertsAtHead(t *testing.T) {
	post := postWithComments(10)
	c := &domain.Comment{ID: 99, Content: "first!"}

	AddTopLevel(post, c)

	require.Len(t, post.Comments, 11)
	assert.Same(t, c, post.Comments[0])
	assert.Equal(t, 11, post.Stats.Comments)
}

func TestAddReply_CreatesRepliesList(t *testing.T) {
	post := postWithComments(2)
	parent := post.Comments[1]
	require.Nil(t, parent.Replies)

	AddReply(post, parent, &domain.Comment{ID: 50})
	AddReply(post, parent, &domain.Comment{ID: 51})

	require.Len(t, parent.Replies, 2)
	assert.Equal(t, int64(51), parent.Replies[1].ID)
	assert.Equal(t, 4, post.Stats.Comments)
	assert.Len(t, post.Comments, 2)
}

func TestFind_SearchesDepthFirst(t *testing.T) {
	post := postWithComments(3)
	AddReply(post, post.Comments[0], &domain.Comment{ID: 10})
	AddReply(post, Find(post, 10), &domain.Comment{ID: 11})

	assert.Equal(t, int64(11), Find(post, 11).ID)
	assert.Equal(t, int64(3), Find(post, 3).ID)
	assert.Nil(t, Find(post, 404))
	assert.Equal(t, 5, Count(post))
}
