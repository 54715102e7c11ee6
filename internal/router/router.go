package router

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	eMiddleware "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/aslectra/backend/internal/handlers"
	"github.com/aslectra/backend/internal/mail"
	"github.com/aslectra/backend/internal/middleware"
	"github.com/aslectra/backend/internal/models"
	"github.com/aslectra/backend/internal/repositories"
	"github.com/aslectra/backend/internal/services"
	"github.com/aslectra/backend/internal/session"
	"github.com/aslectra/backend/internal/storage"
	"github.com/aslectra/backend/internal/validators"
	"github.com/aslectra/backend/internal/views"
)

// MiddlewareOptions tunes the global middleware
type MiddlewareOptions struct {
	BodyLimit     string
	SecureCookies bool
}

// Deps are the collaborators the routes are wired with
type Deps struct {
	DB        *gorm.DB
	Sessions  *session.Store
	Renderer  *views.Renderer
	Images    storage.ImageStore
	Mailer    mail.Mailer
	Firebase  handlers.IDTokenVerifier
	JWTSecret string
	AppURL    string
	Logger    *slog.Logger
}

// SetupMiddleware configures global Echo middleware
func SetupMiddleware(e *echo.Echo, opts MiddlewareOptions) {
	e.Use(eMiddleware.Recover())
	e.Use(eMiddleware.RequestLoggerWithConfig(eMiddleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v eMiddleware.RequestLoggerValues) error {
			attrs := []any{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "remote_ip", v.RemoteIP}
			if v.Error != nil {
				slog.Warn("request failed", append(attrs, "error", v.Error)...)
				return nil
			}
			slog.Info("request", attrs...)
			return nil
		},
	}))
	// preflight requests never reach group middleware
	e.Use(eMiddleware.CORSWithConfig(eMiddleware.CORSConfig{
		Skipper: func(c echo.Context) bool { return !isAPI(c) },
	}))
	if opts.BodyLimit != "" {
		e.Use(eMiddleware.BodyLimit(opts.BodyLimit))
	}
	e.Use(eMiddleware.CSRFWithConfig(eMiddleware.CSRFConfig{
		Skipper:        skipCSRF,
		TokenLookup:    "form:_token",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   opts.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	slog.Info("Global middleware configured.")
}

func isAPI(c echo.Context) bool {
	return strings.HasPrefix(c.Request().URL.Path, "/api/")
}

// API clients authenticate with bearer tokens and never hold the CSRF cookie.
func skipCSRF(c echo.Context) bool {
	return isAPI(c) || c.Request().URL.Path == "/health"
}

// SetupRoutes configures all application routes and injects dependencies.
// The returned notifier must be drained with Wait on shutdown.
func SetupRoutes(e *echo.Echo, deps Deps) (*services.Notifier, error) {
	if err := models.AutoMigrate(deps.DB); err != nil {
		return nil, fmt.Errorf("auto migrate models: %w", err)
	}
	slog.Info("SQL auto-migrations completed for all models.")

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	images := deps.Images
	if images == nil {
		images = storage.Unavailable{}
	}

	mailer := deps.Mailer
	if mailer == nil {
		mailer = mail.NewLogMailer(logger)
	}

	if deps.Renderer != nil {
		e.Renderer = deps.Renderer
	}
	e.Validator = validators.NewValidator()
	e.HTTPErrorHandler = handlers.ErrorHandler(deps.Renderer)

	// --- Initialize Repositories ---
	userRepo := repositories.NewUserRepository(deps.DB)
	categoryRepo := repositories.NewCategoryRepository(deps.DB)
	preferenceRepo := repositories.NewPreferenceRepository(deps.DB)
	actualityRepo := repositories.NewActualityRepository(deps.DB)
	likeRepo := repositories.NewLikeRepository(deps.DB)
	notificationRepo := repositories.NewNotificationRepository(deps.DB)

	// --- Services ---
	notifier := services.NewNotifier(preferenceRepo, notificationRepo, mailer, deps.AppURL, logger)
	authService := services.NewAuthService(userRepo, deps.JWTSecret)
	feedService := services.NewFeedService(actualityRepo, categoryRepo, preferenceRepo)
	actualityService := services.NewActualityService(actualityRepo, likeRepo, images, notifier, logger)

	base := handlers.NewBase(deps.Sessions)
	admin := middleware.RequireAdmin()

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	e.Use(middleware.LoadSession(deps.Sessions, userRepo))

	// --- Login, registration and token endpoints ---
	authHandler := handlers.NewAuthHandler(base, authService, deps.Firebase)
	authHandler.RegisterWebRoutes(e)

	api := e.Group("/api")
	authHandler.RegisterAPIRoutes(api.Group("/auth"))
	logger.Info("Auth routes configured.", "firebase", deps.Firebase != nil)

	// --- Protected API routes (require JWT authentication) ---
	protected := api.Group("", middleware.JWTAuthMiddleware(authService, userRepo))
	api.RouteNotFound("/*", func(c echo.Context) error { return echo.ErrNotFound })
	slog.Info("JWT authentication middleware applied to /api group.")

	actualityHandler := handlers.NewActualityHandler(base, feedService, actualityService, categoryRepo)
	actualityHandler.RegisterAPIRoutes(protected)
	categoryHandler := handlers.NewCategoryHandler(base, feedService, categoryRepo)
	categoryHandler.RegisterAPIRoutes(protected)
	slog.Info("API routes configured.")

	// --- Session-authenticated site ---
	web := e.Group("", middleware.RequireAuth())

	actualityHandler.RegisterActualityRoutes(web, admin)
	slog.Info("Actuality routes configured.")

	imageHandler := handlers.NewImageHandler(images)
	imageHandler.RegisterImageRoutes(web.Group("/images"))
	slog.Info("Image routes configured.")

	preferenceHandler := handlers.NewPreferenceHandler(base, feedService, preferenceRepo, categoryRepo)
	preferenceHandler.RegisterPreferenceRoutes(web.Group("/preferences"))
	slog.Info("Preference routes configured.")

	categoryHandler.RegisterAdminRoutes(web.Group("/categories", admin))
	slog.Info("Category routes configured.")

	userHandler := handlers.NewUserHandler(base, userRepo)
	userHandler.RegisterUserRoutes(web.Group("/users"), admin)
	slog.Info("User routes configured.")

	notificationHandler := handlers.NewNotificationHandler(base, notificationRepo)
	notificationHandler.RegisterNotificationRoutes(web.Group("/notifications"))
	slog.Info("Notification routes configured.")

	slog.Info("All routes configured.")
	return notifier, nil
}
