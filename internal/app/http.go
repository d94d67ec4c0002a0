package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/samber/oops"

	"lireddit-server/internal/auth"
	authpg "lireddit-server/internal/auth/postgres"
	"lireddit-server/internal/config"
	"lireddit-server/internal/graph"
	"lireddit-server/internal/metrics"
	"lireddit-server/internal/middleware"
	"lireddit-server/internal/post"
	postpg "lireddit-server/internal/post/postgres"
	"lireddit-server/internal/session"
)

// Deps is everything the router needs, built once at startup.
type Deps struct {
	Auth     *auth.Service
	Posts    *post.Service
	Sessions *session.Manager
	Metrics  *metrics.Metrics
	Server   config.ServerConfig
}

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	m := metrics.New()

	hasher, err := auth.NewPasswordHasher(cfg.Password.Algorithm)
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	authService, err := auth.NewService(authpg.NewUserRepository(infra.DB), hasher, auth.WithMetrics(m))
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	postService, err := post.NewService(postpg.NewPostRepository(infra.DB))
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	sessionStore := session.NewRedisStore(infra.Redis.Client, cfg.Session.Prefix, cfg.Session.TTL)
	sessions := session.NewManager(sessionStore, session.CookieOptions{
		Name:   cfg.Session.CookieName,
		MaxAge: cfg.Session.MaxAge,
		Secure: cfg.Session.Secure,
	})

	router, err := NewRouter(Deps{
		Auth:     authService,
		Posts:    postService,
		Sessions: sessions,
		Metrics:  m,
		Server:   cfg.Server,
	})
	if err != nil {
		_ = infra.Close()
		return nil, nil, err
	}

	// ----------------------------
	// Cleanup
	// ----------------------------

	return router, infra.Close, nil
}

// NewRouter wires the GraphQL endpoint and the operational routes.
func NewRouter(deps Deps) (*gin.Engine, error) {
	schema, err := graph.NewSchema(&graph.Resolver{Auth: deps.Auth, Posts: deps.Posts})
	if err != nil {
		return nil, oops.Code("GRAPHQL_SCHEMA_INVALID").Wrap(err)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.Metrics))

	if deps.Server.CORSOrigin != "" {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     []string{deps.Server.CORSOrigin},
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	// ----------------------------
	// Operational Routes
	// ----------------------------

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	// ----------------------------
	// GraphQL
	// ----------------------------

	api := router.Group("/graphql")
	api.Use(middleware.GinSession(middleware.NewSessionMiddleware(deps.Sessions)))

	gql := gin.WrapH(graph.NewHandler(schema, deps.Server.Playground))
	api.GET("", gql)
	api.POST("", gql)

	return router, nil
}
