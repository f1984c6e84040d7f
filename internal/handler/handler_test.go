package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nyc360/feed-engine/internal/apiclient"
	"github.com/nyc360/feed-engine/internal/feed"
	"github.com/nyc360/feed-engine/internal/handler"
	"github.com/nyc360/feed-engine/internal/media"
	"github.com/nyc360/feed-engine/internal/middleware"
	"github.com/nyc360/feed-engine/internal/routes"
	"github.com/nyc360/feed-engine/internal/service"
	"github.com/nyc360/feed-engine/internal/toast"
	"github.com/nyc360/feed-engine/internal/ws"
	"github.com/nyc360/feed-engine/pkg/i18n"
	"github.com/nyc360/feed-engine/pkg/jwt"
)

// fakeUpstream answers the NYC360 API routes the tests touch
type fakeUpstream struct {
	mu          sync.Mutex
	interactErr string
	tokens      []string
}

func (f *fakeUpstream) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	ok := func(w http.ResponseWriter, data string) {
		io.WriteString(w, `{"isSuccess":true,"data":`+data+`,"error":null}`)
	}
	mux.HandleFunc("GET /feeds/all/home", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"featuredPosts":[{"id":1,"title":"Ferry schedule","stats":{"likes":2}}],
			"suggestedCommunities":[{"id":9,"name":"Queens Runners","memberCount":41}]}`)
	})
	mux.HandleFunc("GET /posts/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") == "5" {
			ok(w, `null`)
			return
		}
		if r.PathValue("id") != "3" {
			io.WriteString(w, `{"isSuccess":false,"data":null,"error":{"code":"NOT_FOUND","message":"Post not found."}}`)
			return
		}
		ok(w, `{"id":3,"title":"Night market","author":{"id":7,"fullName":"Maya Chen"},"comments":[]}`)
	})
	mux.HandleFunc("PUT /posts/{id}/interact", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.tokens = append(f.tokens, r.Header.Get("Authorization"))
		msg := f.interactErr
		f.mu.Unlock()
		if msg != "" {
			io.WriteString(w, `{"isSuccess":false,"data":null,"error":{"code":"DENIED","message":"`+msg+`"}}`)
			return
		}
		ok(w, `null`)
	})
	mux.HandleFunc("POST /posts/comment", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		ok(w, `{"id":50,"content":"`+body["content"].(string)+`","author":{"id":8,"fullName":"Omar"}}`)
	})
	mux.HandleFunc("POST /communities/join", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `null`)
	})
	mux.HandleFunc("GET /feeds/professions", func(w http.ResponseWriter, r *http.Request) {
		ok(w, `{"articles":[{"id":20,"title":"Nurses wanted"},{"id":21,"title":"Union hall"}]}`)
	})
	mux.HandleFunc("GET /users/profile/{username}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("username") == "ghost" {
			ok(w, `null`)
			return
		}
		ok(w, `{"id":7,"username":"`+r.PathValue("username")+`","profile":{"firstName":"Maya","lastName":"Chen"},
			"posts":[{"id":30,"title":"My first post"}]}`)
	})
	return mux
}

type testServer struct {
	router   *gin.Engine
	jwt      *jwt.Manager
	upstream *fakeUpstream
	registry *service.Registry
	// cookies set by earlier responses, sent back like a browser would
	cookies map[string]*http.Cookie
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	up := &fakeUpstream{}
	srv := httptest.NewServer(up.handler(t))
	t.Cleanup(srv.Close)

	registry := service.NewRegistry(service.Deps{
		Upstream: func(token func() string) service.Upstream {
			return apiclient.NewClient(srv.URL, time.Second).WithTokenSource(token)
		},
		Aggregator: feed.NewAggregator(feed.Options{}),
		Presenter:  service.NewPresenter(media.NewResolver(media.Config{RemoteBase: srv.URL})),
		Bundle:     i18n.Default(),
		Toasts:     []toast.Option{toast.WithClock(clock.NewMock())},
	}, time.Minute)
	t.Cleanup(registry.Close)

	hub := ws.NewHub(nil)
	go hub.Run()
	t.Cleanup(hub.Stop)

	jwtManager := jwt.NewManager("test-secret", time.Hour)
	router := gin.New()
	router.Use(middleware.I18n())
	routes.Setup(router, routes.Handlers{
		Feed:        handler.NewFeedHandler(registry),
		Post:        handler.NewPostHandler(registry),
		Interaction: handler.NewInteractionHandler(registry),
		Toast:       handler.NewToastHandler(registry),
		WS:          handler.NewWSHandler(registry, hub, ""),
	}, jwtManager)

	return &testServer{router: router, jwt: jwtManager, upstream: up, registry: registry, cookies: map[string]*http.Cookie{}}
}

func (s *testServer) token(t *testing.T, userID int64) string {
	t.Helper()
	token, err := s.jwt.Issue(userID, "user", "Test User")
	require.NoError(t, err)
	return token
}

func (s *testServer) do(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for _, c := range s.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		s.cookies[c.Name] = c
	}

	var resp map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), rec.Body.String())
	}
	return rec, resp
}

func data(resp map[string]any) map[string]any {
	d, _ := resp["data"].(map[string]any)
	return d
}

func TestHome_AnonymousViewerGetsCookie(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/home", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	featured := data(resp)["featured"].([]any)
	require.Len(t, featured, 1)
	assert.Equal(t, "Ferry schedule", featured[0].(map[string]any)["title"])
	assert.Contains(t, rec.Header().Get("Set-Cookie"), middleware.ViewerCookie+"=")
}

func TestInteraction_WaitReturnsConfirmedState(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 8)
	s.do(t, http.MethodGet, "/api/v1/home", token, "")

	rec, resp := s.do(t, http.MethodPost, "/api/v1/views/home/posts/1/interaction?wait=true", token, `{"type":1}`)

	require.Equal(t, http.StatusOK, rec.Code)
	post := data(resp)["featured"].([]any)[0].(map[string]any)
	assert.Equal(t, float64(3), post["stats"].(map[string]any)["likes"])
	assert.Equal(t, float64(1), post["userInteraction"])
	assert.Equal(t, []string{"Bearer " + token}, s.upstream.tokens)
}

func TestInteraction_RejectedRollsBackAndToasts(t *testing.T) {
	s := newTestServer(t)
	s.upstream.interactErr = "Voting closed"
	token := s.token(t, 8)
	s.do(t, http.MethodGet, "/api/v1/home", token, "")

	rec, _ := s.do(t, http.MethodPost, "/api/v1/views/home/posts/1/interaction?wait=1", token, `{"type":1}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	_, resp := s.do(t, http.MethodGet, "/api/v1/toasts", token, "")
	toasts := resp["data"].([]any)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Voting closed", toasts[0].(map[string]any)["message"])

	w, ok := s.registry.Lookup("user:8")
	require.True(t, ok)
	assert.Equal(t, 2, w.Home.Snapshot().Featured[0].Stats.Likes)
}

func TestInteraction_AnonymousIsAskedToLogin(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/home", "", "")
	require.Contains(t, s.cookies, middleware.ViewerCookie)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/views/home/posts/1/interaction", "", `{"type":2}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	_, resp := s.do(t, http.MethodGet, "/api/v1/toasts", "", "")
	toasts := resp["data"].([]any)
	require.Len(t, toasts, 1)
	assert.Equal(t, "Please login to interact with posts", toasts[0].(map[string]any)["message"])
}

func TestInteraction_AnonymousWithoutLoadedViewIsAskedToLogin(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/views/post/posts/3/save", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInteraction_BadRequests(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 8)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/views/home/posts/1/interaction", token, `{"type":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/views/sidebar/posts/1/interaction", token, `{"type":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/views/home/posts/abc/save", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/views/home/posts/1/save", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code, "nothing loaded yet")
}

func TestPost_DetailsAndComment(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/posts/3", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(resp)["canEdit"])
	assert.Equal(t, "Maya Chen", data(resp)["post"].(map[string]any)["author"].(map[string]any)["name"])

	rec, resp = s.do(t, http.MethodPost, "/api/v1/posts/3/comments", token, `{"content":"  See you there  "}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "See you there", data(resp)["content"])

	_, resp = s.do(t, http.MethodGet, "/api/v1/toasts", token, "")
	assert.Len(t, resp["data"].([]any), 1)
}

func TestPost_LoadErrorIsPartOfThePage(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/posts/4", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post not found.", data(resp)["error"])
	assert.Nil(t, data(resp)["post"])
}

func TestPost_DeleteRequiresLogin(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodDelete, "/api/v1/posts/3", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJoinCommunity_Accepted(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 8)
	s.do(t, http.MethodGet, "/api/v1/home", token, "")

	rec, resp := s.do(t, http.MethodPost, "/api/v1/home/communities/9/join", token, "")

	require.Equal(t, http.StatusAccepted, rec.Code)
	community := data(resp)["suggestedCommunities"].([]any)[0].(map[string]any)
	assert.Equal(t, "Queens Runners", community["name"])
}

func TestViewer_InvalidTokenRejected(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/home", "not-a-token", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestToasts_Dismiss(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodGet, "/api/v1/home", "", "")
	w := s.registry.Acquire("user:8", nil, i18n.LocaleEn)
	id := w.Toasts().Info("hello", "")
	token := s.token(t, 8)

	rec, resp := s.do(t, http.MethodDelete, "/api/v1/toasts/"+id, token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, data(resp)["removed"])

	_, resp = s.do(t, http.MethodDelete, "/api/v1/toasts/"+id, token, "")
	assert.Equal(t, false, data(resp)["removed"])
}

func TestPost_NullDataIsNotFound(t *testing.T) {
	s := newTestServer(t)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/posts/5", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Post not found.", data(resp)["error"])
	assert.Nil(t, data(resp)["post"])
}

func TestProfessions_HeroAndGrid(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/professions/feed", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Nurses wanted", data(resp)["hero"].(map[string]any)["title"])
	assert.Len(t, data(resp)["articles"].([]any), 1)

	rec, _ = s.do(t, http.MethodPost, "/api/v1/views/profession/posts/20/interaction?wait=true", token, `{"type":1}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfile_OwnAndOthers(t *testing.T) {
	s := newTestServer(t)
	token := s.token(t, 7)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/profile", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Maya Chen", data(resp)["displayName"])
	assert.Equal(t, true, data(resp)["isOwner"])

	rec, resp = s.do(t, http.MethodGet, "/api/v1/profiles/maya", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, data(resp)["isOwner"])
	assert.Len(t, data(resp)["posts"].([]any), 1)

	rec, _ = s.do(t, http.MethodGet, "/api/v1/profiles/ghost", token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProfile_AnonymousOwnProfileNeedsLogin(t *testing.T) {
	s := newTestServer(t)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/profile", "", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
