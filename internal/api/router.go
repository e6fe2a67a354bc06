package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/church-connect/admin-api/docs"
	"github.com/church-connect/admin-api/internal/api/handler"
	"github.com/church-connect/admin-api/internal/api/middleware"
	"github.com/church-connect/admin-api/internal/core/ports"
	"github.com/church-connect/admin-api/internal/core/service"
	mongostore "github.com/church-connect/admin-api/internal/infrastructure/db/mongo"
	redisstore "github.com/church-connect/admin-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
// The identity provider handle is constructed once at startup and injected;
// the role store and revocation list are built here from the shared database
// handles.
func NewRouter(db *mongo.Database, rdb *redis.Client, provider ports.IdentityProvider, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("churchadmin"))

	// --- Dependencies ---
	roleRepo := mongostore.NewRoleRepository(db)
	revocation := redisstore.NewRevocationList(rdb)

	guard := service.NewGuardService(provider, roleRepo, revocation, log)
	authService := service.NewAuthService(provider, roleRepo, log)
	accountService := service.NewAccountService(provider, roleRepo, revocation, log)

	authHandler := handler.NewAuthHandler(authService)
	accountHandler := handler.NewAccountHandler(accountService)

	authenticated := middleware.Authenticate(guard)
	adminOnly := middleware.RequireAdmin(guard)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.GET("/auth/me", authHandler.Me, authenticated)

	// --- Account management (admin only, including the listing) ---
	accounts := e.Group("/accounts", adminOnly)
	accounts.POST("", accountHandler.Create)
	accounts.GET("", accountHandler.List)
	accounts.PUT("/:id/password", accountHandler.ChangePassword)
	accounts.DELETE("/:id", accountHandler.Delete)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}
