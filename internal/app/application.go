package app

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"network-subsite-menu/internal/config"
	"network-subsite-menu/internal/handlers"
	"network-subsite-menu/internal/middleware"
	"network-subsite-menu/internal/models"
	"network-subsite-menu/internal/repository"
	"network-subsite-menu/internal/seed"
	"network-subsite-menu/internal/service"
	"network-subsite-menu/pkg/cache"
	"network-subsite-menu/pkg/logger"
)

type Options struct {
	TemplatesDir string
	// MenuHooks customise how the network menu is resolved and rendered.
	MenuHooks service.MenuHooks
}

type Application struct {
	cfg     *config.Config
	options Options

	db    *gorm.DB
	cache *cache.Cache

	repositories repositoryContainer
	services     serviceContainer
	handlers     handlerContainer

	rateLimiter *middleware.RateLimitManager
	router      *gin.Engine
	server      *http.Server
}

type repositoryContainer struct {
	Setting repository.SettingRepository
	Site    repository.SiteRepository
}

type serviceContainer struct {
	Site         *service.SiteService
	MenuSettings *service.MenuSettingsService
	NetworkMenu  *service.NetworkMenuService
}

type handlerContainer struct {
	Menu         *handlers.MenuHandler
	MenuSettings *handlers.NetworkMenuSettingsHandler
	Site         *handlers.SiteHandler
}

func New(cfg *config.Config, opts Options) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}

	if opts.TemplatesDir == "" {
		opts.TemplatesDir = "./templates"
	}

	app := &Application{
		cfg:     cfg,
		options: opts,
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.runMigrations(); err != nil {
		return nil, err
	}

	app.initCache()
	app.initRepositories()
	app.initServices()
	app.seed()
	app.initHandlers()

	app.rateLimiter = middleware.NewRateLimitManager(context.Background())

	if err := app.initRouter(); err != nil {
		app.rateLimiter.Shutdown()
		return nil, err
	}

	app.server = &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        app.router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	return app, nil
}

func (a *Application) Run() error {
	logger.Info("Server starting", map[string]interface{}{
		"port":        a.cfg.Port,
		"environment": a.cfg.Environment,
	})

	return a.server.ListenAndServe()
}

func (a *Application) Shutdown(ctx context.Context) error {
	if a.server != nil {
		if err := a.server.Shutdown(ctx); err != nil {
			return err
		}
	}

	if a.rateLimiter != nil {
		a.rateLimiter.Shutdown()
	}

	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			logger.Error(err, "Failed to close cache connection", nil)
		}
	}

	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			sqlDB.Close()
		}
	}

	return nil
}

func (a *Application) Router() *gin.Engine {
	return a.router
}

func (a *Application) initDatabase() error {
	logger.Info("Connecting to database", nil)

	db, err := gorm.Open(postgres.Open(a.cfg.DatabaseURL), &gorm.Config{
		Logger: logger.NewGormLogger(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	a.db = db
	return nil
}

func (a *Application) runMigrations() error {
	if a.db == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	logger.Info("Running database migrations", nil)

	if err := a.db.AutoMigrate(
		&models.Setting{},
		&models.Site{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("Database migration completed", nil)
	return nil
}

func (a *Application) initCache() {
	if !a.cfg.EnableCache {
		a.cache, _ = cache.NewCache("", false)
		return
	}

	cacheService, err := cache.NewCache(a.cfg.RedisURL, true)
	if err != nil {
		logger.Error(err, "Redis unavailable, continuing without cache", map[string]interface{}{"addr": a.cfg.RedisURL})
		cacheService, _ = cache.NewCache("", false)
	}
	a.cache = cacheService
}

func (a *Application) initRepositories() {
	a.repositories = repositoryContainer{
		Setting: repository.NewSettingRepository(a.db),
		Site:    repository.NewSiteRepository(a.db),
	}
}

func (a *Application) initServices() {
	ttl := time.Duration(a.cfg.MenuCacheTTLSec) * time.Second

	sites := service.NewSiteService(a.repositories.Site, a.cache, ttl, a.cfg.DefaultSiteID)
	settings := service.NewMenuSettingsService(a.repositories.Setting, a.repositories.Site, a.cache, ttl)

	a.services = serviceContainer{
		Site:         sites,
		MenuSettings: settings,
		NetworkMenu:  service.NewNetworkMenuService(settings, sites, a.options.MenuHooks),
	}
}

func (a *Application) seed() {
	ctx := context.Background()

	// Site rows may have changed while the service was down.
	if err := a.cache.InvalidateSites(ctx); err != nil {
		logger.Error(err, "Failed to clear cached sites", nil)
	}

	seed.EnsureMainSite(ctx, a.services.Site, a.cfg.MainSiteName, a.cfg.MainSiteURL)

	if info, err := os.Stat(a.cfg.SiteSeedDir); err == nil && info.IsDir() {
		seed.EnsureDefaultSites(ctx, a.services.Site, os.DirFS(a.cfg.SiteSeedDir))
	}
}

func (a *Application) initHandlers() {
	a.handlers = handlerContainer{
		Menu:         handlers.NewMenuHandler(a.services.NetworkMenu, a.services.Site),
		MenuSettings: handlers.NewNetworkMenuSettingsHandler(a.services.NetworkMenu, a.services.MenuSettings),
		Site:         handlers.NewSiteHandler(a.services.Site),
	}
}

func (a *Application) initRouter() error {
	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(logger.GinLogger())
	if a.cfg.EnableMetrics {
		router.Use(middleware.MetricsMiddleware())
	}
	router.Use(middleware.RateLimitMiddleware(a.cfg, a.rateLimiter))
	router.Use(middleware.SecurityHeadersMiddleware())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Network-Menu"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	templates, err := template.New("").ParseGlob(filepath.Join(a.options.TemplatesDir, "*.html"))
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(templates)
	logger.Info("Templates loaded successfully", nil)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	if a.cfg.EnableMetrics {
		router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	router.GET("/menu/:location", a.handlers.Menu.RenderHTML)

	adminPages := router.Group("/admin")
	{
		adminPages.GET("/network-menu", a.handlers.MenuSettings.RenderForm)
		adminPages.POST("/network-menu", a.handlers.MenuSettings.SubmitForm)
	}

	v1 := router.Group("/api/v1")
	{
		v1.GET("/menu/:location", a.handlers.Menu.Get)

		admin := v1.Group("/admin")
		{
			admin.GET("/network-menu", a.handlers.MenuSettings.Get)
			admin.PUT("/network-menu", a.handlers.MenuSettings.Update)

			admin.GET("/sites", a.handlers.Site.List)
			admin.POST("/sites", a.handlers.Site.Create)
			admin.DELETE("/sites/:id", a.handlers.Site.Delete)
		}
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	a.router = router
	return nil
}
