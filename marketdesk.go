// Package marketdesk is a marketing-content dashboard backend built with Go
// and Echo. It manages client brand accounts and generates social posts, SEO
// blogs, keyword reports, display banners and landing-page prompts, falling
// back to deterministic templates whenever an AI provider is unavailable.
package marketdesk

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/eringen/marketdesk/analyzer"
	"github.com/eringen/marketdesk/content"
	"github.com/eringen/marketdesk/media"
	"github.com/eringen/marketdesk/textgen"
	"github.com/eringen/marketdesk/trending"
)

var (
	_ Store = (*SQLStore)(nil)
	_ Store = (*GormStore)(nil)
)

// App is the central marketdesk application. It wires together the store,
// cache, generators, middleware and handlers.
type App struct {
	Config Config
	Echo   *echo.Echo
	Log    *zap.Logger

	Store    Store
	Cache    *AccountCache
	Blobs    media.BlobStore
	Text     textgen.Provider
	Media    content.MediaSource
	Content  *content.Generator
	Analyzer *analyzer.Analyzer
	Topics   *trending.Table

	loginLimiter *AttemptLimiter
	customRoutes []func(*App)
	closers      []func(context.Context) error
	initialized  bool
}

// New creates a marketdesk App with the given configuration.
func New(cfg Config, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Log == nil {
		l, err := NewLogger(cfg.LogLevel, cfg.LogFormat)
		if err != nil {
			l = zap.NewNop()
		}
		a.Log = l
	}
	return a
}

// Init builds every dependency not supplied through an Option and registers
// middleware and routes. Start calls it; tests call it directly.
func (a *App) Init(ctx context.Context) error {
	if a.initialized {
		return nil
	}
	if !a.Config.DisableAuth {
		if a.Config.AdminPassword == "" {
			return errors.New("marketdesk: AdminPassword is required")
		}
		if a.Config.SessionSecret == "" {
			return errors.New("marketdesk: SessionSecret is required")
		}
	}

	if err := a.initStore(); err != nil {
		return err
	}
	if err := a.initBlobs(ctx); err != nil {
		return err
	}
	if a.Text == nil {
		text, err := textgen.New(ctx, a.Config.TextConfig())
		if err != nil {
			return fmt.Errorf("marketdesk: init text provider: %w", err)
		}
		a.Text = text
	}
	if !textgen.Configured(a.Text) {
		a.Log.Warn("no text provider configured; generated copy will use templates")
	}
	if a.Media == nil {
		m, err := a.newMediaGenerator(ctx)
		if err != nil {
			return err
		}
		a.Media = m
	}

	a.Cache = NewAccountCache(a.Store, a.Config.AccountCacheTTL)
	a.loginLimiter = NewAttemptLimiter(5, time.Minute)
	a.Content = content.NewGenerator(a.Text, a.Media, a.Store, content.Options{
		PostInterval: a.Config.GenerationInterval,
		BlogInterval: a.Config.BlogGenerationInterval,
		Logger:       a.Log.Named("content"),
	})
	a.Analyzer = analyzer.New(a.Text, a.Log.Named("analyzer"))
	if a.Topics == nil {
		a.Topics = trending.Default()
	}

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	a.initialized = true
	return nil
}

func (a *App) initStore() error {
	if a.Store != nil {
		return nil
	}
	if a.Config.DatabaseURL != "" {
		s, err := NewGormStore(a.Config.DatabaseURL, a.Log)
		if err != nil {
			return fmt.Errorf("marketdesk: init store: %w", err)
		}
		a.Store = s
	} else {
		s, err := NewSQLStore(a.Config.DatabasePath)
		if err != nil {
			return fmt.Errorf("marketdesk: init store: %w", err)
		}
		a.Store = s
	}
	a.closers = append(a.closers, func(context.Context) error { return a.Store.Close() })
	return nil
}

func (a *App) initBlobs(ctx context.Context) error {
	if a.Blobs != nil {
		return nil
	}
	if a.Config.MongoURI != "" {
		g, err := media.NewGridFSStore(ctx, a.Config.MongoURI, a.Config.MongoDatabase)
		if err != nil {
			return fmt.Errorf("marketdesk: init blob store: %w", err)
		}
		a.Blobs = g
		a.closers = append(a.closers, g.Close)
		return nil
	}
	fsStore, err := media.NewFSStore(a.Config.MediaDir)
	if err != nil {
		return fmt.Errorf("marketdesk: init blob store: %w", err)
	}
	a.Blobs = fsStore
	return nil
}

func (a *App) newMediaGenerator(ctx context.Context) (*media.Generator, error) {
	var (
		images []media.ImageBackend
		videos []media.VideoBackend
	)
	if a.Config.OpenAIKey != "" {
		images = append(images, media.NewOpenAIImages(a.Config.OpenAIBaseURL, a.Config.OpenAIKey, a.Config.ImageModel))
	}
	if a.Config.GeminiKey != "" {
		client, err := textgen.NewGenAIClient(ctx, a.Config.GeminiKey)
		if err != nil {
			return nil, fmt.Errorf("marketdesk: init genai client: %w", err)
		}
		images = append(images, media.NewImagen(client, a.Config.ImagenModel))
		videos = append(videos, media.NewVeo(client, a.Config.VeoModel))
	}
	return media.NewGenerator(a.Blobs,
		media.WithImageBackends(images...),
		media.WithVideoBackends(videos...),
		media.WithLogger(a.Log.Named("media")),
	), nil
}

// Start initializes the app and starts the server.
func (a *App) Start() error {
	if err := a.Init(context.Background()); err != nil {
		return err
	}
	a.Log.Info("listening", zap.String("addr", a.Config.Addr), zap.String("text_provider", a.Text.Name()))
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var errs []error
	for _, c := range slices.Backward(a.closers) {
		errs = append(errs, c(ctx))
	}
	a.closers = nil
	_ = a.Log.Sync()
	return errors.Join(errs...)
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", handleHealth)
	e.GET("/placeholder.svg", a.handlePlaceholder)
	e.GET(media.PublicPrefix+"*", a.handleMedia)
	e.GET("/feeds/:id/blogs.xml", a.handleBlogFeed)

	api := e.Group("/api")
	api.POST("/login", a.handleLogin)
	api.POST("/logout", a.handleLogout)
	api.GET("/session", a.handleSession)

	api.GET("/accounts", a.handleListAccounts)
	api.POST("/accounts", a.handleCreateAccount)
	api.GET("/accounts/:id", a.handleGetAccount)
	api.PUT("/accounts/:id", a.handleUpdateAccount)
	api.DELETE("/accounts/:id", a.handleDeleteAccount)
	api.POST("/accounts/:id/analyze-website", a.handleAccountAnalyzeWebsite)

	api.GET("/accounts/:id/posts", a.handleListPosts)
	api.POST("/accounts/:id/generate-posts", a.handleGeneratePosts)
	api.GET("/accounts/:id/blogs", a.handleListBlogs)
	api.POST("/accounts/:id/generate-blogs", a.handleGenerateBlogs)
	api.POST("/accounts/:id/analyze-keywords", a.handleAnalyzeKeywords)
	api.GET("/accounts/:id/trending-topics", a.handleTrendingTopics)
	api.POST("/accounts/:id/landing-prompt", a.handleLandingPrompt)

	api.PUT("/posts/:id", a.handleUpdatePost)
	api.DELETE("/posts/:id", a.handleDeletePost)
	api.PUT("/blogs/:id", a.handleUpdateBlog)
	api.DELETE("/blogs/:id", a.handleDeleteBlog)
	api.GET("/blogs/:id/preview", a.handlePreviewBlog)

	api.POST("/analyze-website", a.handleAnalyzeWebsite)
	api.POST("/banners", a.handleBanners)
	api.POST("/upload-logo", a.handleUploadLogo)
}
