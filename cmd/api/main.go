package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/nyc360/feed-engine/internal/apiclient"
	"github.com/nyc360/feed-engine/internal/config"
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
	pkglogger "github.com/nyc360/feed-engine/pkg/logger"
	pkgredis "github.com/nyc360/feed-engine/pkg/redis"
)

// getConfigPath returns config file path based on APP_ENV environment variable
func getConfigPath() string {
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf("configs/config.%s.yaml", env)
}

func main() {
	dotenvFiles, dotenvErr := config.LoadDotEnv(".")

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)
	if dotenvErr != nil {
		pkglogger.Warn("dotenv: %v", dotenvErr)
	}

	configPath := getConfigPath()
	pkglogger.Info("Loading config from: %s", configPath)
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	config.LogResolved(cfg)
	gin.SetMode(cfg.Server.Mode)

	// Redis is optional: without it the rate limit is off and the hub stays local
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(
			cfg.Redis.Host,
			cfg.Redis.Port,
			cfg.Redis.Password,
			cfg.Redis.DB,
			cfg.Redis.PoolSize,
		)
		if err != nil {
			pkglogger.Warn("Failed to connect to Redis: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}

	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	i18nBundle := i18n.Default()
	if cfg.I18n.Dir != "" {
		if err := i18nBundle.LoadDir(cfg.I18n.Dir); err != nil {
			pkglogger.Warn("i18n LoadDir failed: %v", err)
		}
	}

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn)

	upstream := apiclient.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout)
	registry := service.NewRegistry(service.Deps{
		Upstream: func(token func() string) service.Upstream {
			return upstream.WithTokenSource(token)
		},
		Aggregator: feed.NewAggregator(cfg.Feed),
		Presenter:  service.NewPresenter(media.NewResolver(cfg.Media)),
		Bundle:     i18nBundle,
		Push: func(viewerKey string, s toast.Snapshot) {
			wsHub.SendToViewer(viewerKey, &ws.Event{Type: ws.EventToasts, Payload: s})
		},
	}, cfg.Workspace.IdleTTL)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go registry.Run(ctx, cfg.Workspace.SweepInterval)

	router := gin.New()
	router.Use(gin.Recovery())

	allowOrigins := cfg.CORS.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "http://localhost:4200"
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     splitAndTrim(allowOrigins, ","),
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-CSRF-Token", "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		MaxAge:           86400,
	}))

	router.Use(middleware.I18n())
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics(handler.ViewNames...))
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"service":    "nyc360-feed-engine",
			"workspaces": registry.Len(),
			"time":       time.Now().Unix(),
		})
	})

	var apiMiddleware []gin.HandlerFunc
	if redisClient != nil && !cfg.IsDevelopment() {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(redisClient, middleware.RateLimitConfig{
			Requests: cfg.RateLimit.Requests,
			Window:   cfg.RateLimit.Window,
		}))
	}
	apiMiddleware = append(apiMiddleware, middleware.CSRFProtection())

	routes.Setup(router, routes.Handlers{
		Feed:        handler.NewFeedHandler(registry),
		Post:        handler.NewPostHandler(registry),
		Interaction: handler.NewInteractionHandler(registry),
		Toast:       handler.NewToastHandler(registry),
		WS:          handler.NewWSHandler(registry, wsHub, allowOrigins),
	}, jwtManager, apiMiddleware...)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	pkglogger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		pkglogger.Error("Server shutdown: %v", err)
	}
	wsHub.Stop()
	registry.Close()
	if redisClient != nil {
		_ = redisClient.Close()
	}
}

// splitAndTrim splits a string by delimiter and trims spaces
func splitAndTrim(s string, delimiter string) []string {
	parts := []string{}
	for _, part := range strings.Split(s, delimiter) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
