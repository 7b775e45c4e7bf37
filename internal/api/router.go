package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/fab1/auth-service/internal/api/handler"
	"github.com/fab1/auth-service/internal/api/middleware"
	"github.com/fab1/auth-service/internal/core/domain"
	"github.com/fab1/auth-service/internal/core/service"
	"github.com/fab1/auth-service/internal/infrastructure/config"
	mongostore "github.com/fab1/auth-service/internal/infrastructure/db/mongo"
	"github.com/fab1/auth-service/internal/infrastructure/http/handlers"
	"github.com/fab1/auth-service/internal/token"
	"github.com/fab1/auth-service/pkg/logger"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg *config.Config, db *mongo.Database, rdb *redis.Client) *echo.Echo {
	log := logger.Get()

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.CORS.Origins,
		AllowMethods: []string{echo.GET, echo.POST, echo.PUT, echo.DELETE, echo.OPTIONS},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddleware("auth"))

	// --- Dependencies ---
	userRepo := mongostore.NewUserRepository(db)
	roleRepo := mongostore.NewRoleRepository(db)
	hasher := service.NewBcryptHasher(cfg.Auth.BcryptCost, cfg.Auth.HashWorkers)
	codec := token.NewCodec(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	authService := service.NewAuthService(userRepo, roleRepo, hasher, codec, log)
	authHandler := handler.NewAuthHandler(authService, log)
	userHandler := handler.NewUserHandler(authService, log)

	// --- Request gate and access policy ---
	policy := middleware.DefaultPolicy()
	e.Use(middleware.Gate(codec, userRepo, policy, log))
	e.Use(policy.Middleware(log))

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/logout", authHandler.Logout)
	e.DELETE("/auth/delete-account", authHandler.DeleteAccount)
	e.GET("/auth/me", authHandler.Me)
	e.GET("/auth/health", authHandler.Health)
	e.GET("/auth/test", authHandler.Test)

	// --- Admin routes ---
	e.POST("/users/create", userHandler.Create, middleware.RBAC(domain.RoleAdmin))

	// --- Health probes (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	readinessHandler := handlers.NewReadinessHandler(map[string]handlers.Pinger{
		"mongodb": handlers.MongoPinger(db),
		"redis":   handlers.RedisPinger(rdb),
	})

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Metrics ---
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
