package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyc360/feed-engine/internal/common"
	"github.com/nyc360/feed-engine/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/", 0)
}

func TestHomeFeed_DecodesEnvelope(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/feeds/all/home", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		io.WriteString(w, `{"isSuccess":true,"data":{"featuredPosts":[{"id":1,"title":"A"}],"trendingTags":["nyc"]},"error":null}`)
	})

	feed, err := c.HomeFeed(context.Background())
	require.NoError(t, err)
	require.Len(t, feed.FeaturedPosts, 1)
	assert.Equal(t, "A", feed.FeaturedPosts[0].Title)
	assert.Equal(t, []string{"nyc"}, feed.TrendingTags)
}

func TestDo_BusinessFailureBecomesAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"isSuccess":false,"data":null,"error":{"code":"ALREADY_MEMBER","message":"You are already a member"}}`)
	})

	err := c.JoinCommunity(context.Background(), 5)
	apiErr, ok := common.AsAPIError(err)
	require.True(t, ok, "got %v", err)
	assert.Equal(t, "ALREADY_MEMBER", apiErr.Code)
	assert.Equal(t, "You are already a member", apiErr.Message)
	assert.False(t, common.IsTransport(err))
}

func TestDo_TransportFailures(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"html error page", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			io.WriteString(w, "<html>bad gateway</html>")
		}},
		{"empty 500", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			io.WriteString(w, `{}`)
		}},
		{"non json 200", func(w http.ResponseWriter, r *http.Request) {
			io.WriteString(w, "ok")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)
			err := c.Share(context.Background(), 1)
			assert.True(t, common.IsTransport(err), "got %v", err)
		})
	}
}

func TestDo_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	err := NewClient(srv.URL, 0).Interact(context.Background(), 1, domain.InteractionLike)
	assert.True(t, common.IsTransport(err))
}

func TestInteract_SendsBodyAndToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/posts/12/interact", r.URL.Path)
		assert.Equal(t, "Bearer abc", r.Header.Get("Authorization"))

		var body map[string]int
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]int{"type": 2}, body)
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	require.NoError(t, c.WithToken("abc").Interact(context.Background(), 12, domain.InteractionDislike))
	assert.Empty(t, c.token, "WithToken must not modify the shared client")
}

func TestListPosts_Query(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/list", r.URL.Path)
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("page"))
		assert.Equal(t, "10", q.Get("pageSize"))
		assert.Equal(t, "3", q.Get("category"))
		assert.Equal(t, "subway", q.Get("search"))
		io.WriteString(w, `{"isSuccess":true,"data":[{"id":7}],"error":null,"page":2,"pageSize":10,"totalCount":11,"totalPages":2}`)
	})

	cat := domain.Category(3)
	page, err := c.ListPosts(context.Background(), domain.ListQuery{Category: &cat, Search: "subway", Page: 2, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(7), page.Items[0].ID)
	assert.Equal(t, 11, page.TotalCount)
	assert.Equal(t, 2, page.TotalPages)
}

func TestListPosts_AllCategoriesAndTag(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/posts/list":
			assert.False(t, r.URL.Query().Has("category"))
		case "/api/posts/tags/street food":
			assert.Equal(t, "1", r.URL.Query().Get("Page"))
			assert.Equal(t, "20", r.URL.Query().Get("PageSize"))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	all := domain.CategoryAll
	page, err := c.ListPosts(context.Background(), domain.ListQuery{Category: &all})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)

	_, err = c.ListPosts(context.Background(), domain.ListQuery{Tag: "street food"})
	require.NoError(t, err)
}

func TestAddComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req domain.CommentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, domain.CommentRequest{PostID: 4, Content: "hi", ParentCommentID: 9}, req)
		io.WriteString(w, `{"isSuccess":true,"data":{"id":100,"content":"hi","author":"Legacy Name"},"error":null}`)
	})

	comment, err := c.AddComment(context.Background(), domain.CommentRequest{PostID: 4, Content: "hi", ParentCommentID: 9})
	require.NoError(t, err)
	assert.Equal(t, int64(100), comment.ID)
	assert.Equal(t, "Legacy Name", comment.Author.DisplayName(""))
}

func TestCreatePost_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/create", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Title", r.FormValue("title"))
		assert.Equal(t, "Body", r.FormValue("content"))
		assert.Equal(t, "5", r.FormValue("category"))
		files := r.MultipartForm.File["attachments"]
		require.Len(t, files, 1)
		assert.Equal(t, "a.jpg", files[0].Filename)
		io.WriteString(w, `{"isSuccess":true,"data":{"id":1},"error":null}`)
	})

	cat := domain.Category(5)
	err := c.CreatePost(context.Background(), domain.CreatePostRequest{
		Title:    "Title",
		Content:  "Body",
		Category: &cat,
		Files:    []domain.Upload{{Name: "a.jpg", Data: []byte("jpeg")}},
	})
	require.NoError(t, err)
}

func TestDeletePost_SendsBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		var body map[string]int64
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, int64(8), body["postId"])
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	require.NoError(t, c.DeletePost(context.Background(), 8))
}

func TestCommunityBySlug(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/communities/queens-runners", r.URL.Path)
		io.WriteString(w, `{"isSuccess":true,"data":{"community":{"id":3,"name":"Queens Runners"},"posts":{"isSuccess":true,"data":[{"id":1}],"totalCount":1},"ownerId":2},"error":null}`)
	})

	profile, err := c.CommunityBySlug(context.Background(), "queens-runners", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, "Queens Runners", profile.Community.Name)
	require.NotNil(t, profile.Posts)
	assert.Len(t, profile.Posts.Data, 1)
}

func TestWithTokenSource_ReadsTokenPerRequest(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get("Authorization"))
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	token := ""
	bound := c.WithTokenSource(func() string { return token })
	require.NoError(t, bound.Share(context.Background(), 1))
	token = "fresh"
	require.NoError(t, bound.Share(context.Background(), 1))

	assert.Equal(t, []string{"", "Bearer fresh"}, seen)
}

func TestGetPost_NullDataIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/posts/404", r.URL.Path)
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	post, err := c.GetPost(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, post)
}

func TestCommunityBySlug_NullDataIsNil(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})

	profile, err := c.CommunityBySlug(context.Background(), "nowhere", 1, 20)
	require.NoError(t, err)
	assert.Nil(t, profile)
}

func TestProfessionFeed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/feeds/professions", r.URL.Path)
		io.WriteString(w, `{"isSuccess":true,"data":{"heroArticle":{"id":1,"title":"Hiring"},"articles":[{"id":2}]},"error":null}`)
	})

	feed, err := c.ProfessionFeed(context.Background())
	require.NoError(t, err)
	require.NotNil(t, feed.HeroArticle)
	assert.Equal(t, "Hiring", feed.HeroArticle.Title)
	assert.Len(t, feed.Articles, 1)
}

func TestUserProfile(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/users/profile/maya.k", r.URL.Path)
		io.WriteString(w, `{"isSuccess":true,"data":{"id":7,"username":"maya.k","profile":{"firstName":"Maya"}},"error":null}`)
	})

	profile, err := c.UserProfile(context.Background(), "maya.k")
	require.NoError(t, err)
	require.NotNil(t, profile)
	require.NotNil(t, profile.Profile)
	assert.Equal(t, "Maya", profile.Profile.FirstName)

	c = newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"isSuccess":true,"data":null,"error":null}`)
	})
	profile, err = c.UserProfile(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Nil(t, profile)
}
