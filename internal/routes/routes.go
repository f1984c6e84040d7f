package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/nyc360/feed-engine/internal/handler"
	"github.com/nyc360/feed-engine/internal/middleware"
	"github.com/nyc360/feed-engine/pkg/jwt"
)

// Handlers groups the BFF handlers
type Handlers struct {
	Feed        *handler.FeedHandler
	Post        *handler.PostHandler
	Interaction *handler.InteractionHandler
	Toast       *handler.ToastHandler
	WS          *handler.WSHandler
}

// Setup configures all API routes. apiMiddleware runs after the viewer is
// resolved, so it may key on the viewer.
func Setup(router *gin.Engine, h Handlers, jwtManager *jwt.Manager, apiMiddleware ...gin.HandlerFunc) {
	viewer := middleware.Viewer(jwtManager)
	api := router.Group("/api/v1", append([]gin.HandlerFunc{viewer}, apiMiddleware...)...)

	api.GET("/csrf", middleware.GenerateCSRFToken())

	// Home feed
	api.GET("/home", h.Feed.Home)
	api.POST("/home/communities/:id/join", h.Feed.JoinCommunity)

	// Post lists and details
	posts := api.Group("/posts")
	posts.GET("", h.Feed.ListPosts)
	posts.GET("/saved", h.Feed.SavedPosts)
	posts.POST("", middleware.RequireLogin(), h.Post.CreatePost)
	posts.GET("/:id", h.Post.GetPost)
	posts.PUT("/:id", middleware.RequireLogin(), h.Post.UpdatePost)
	posts.DELETE("/:id", middleware.RequireLogin(), h.Post.DeletePost)
	posts.POST("/:id/share", h.Post.Share)
	posts.POST("/:id/comments", h.Post.AddComment)

	// Reactions and saves on a post shown in one of the viewer's views
	views := api.Group("/views/:view/posts/:id")
	views.POST("/interaction", h.Interaction.Toggle)
	views.POST("/save", h.Interaction.ToggleSave)

	// Communities
	api.GET("/communities/:slug", h.Feed.Community)

	// Professions and profiles
	api.GET("/professions/feed", h.Feed.Professions)
	api.GET("/profile", h.Feed.Profile)
	api.GET("/profiles/:username", h.Feed.Profile)

	// Toasts
	api.GET("/toasts", h.Toast.List)
	api.DELETE("/toasts/:id", h.Toast.Dismiss)

	// Toast push channel
	router.GET("/ws", viewer, h.WS.Connect)
}
