package server

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/mansoorceksport/clubhouse/internal/config"
	"github.com/mansoorceksport/clubhouse/internal/domain"
	"github.com/mansoorceksport/clubhouse/internal/handler"
	"github.com/mansoorceksport/clubhouse/internal/middleware"
	"github.com/mansoorceksport/clubhouse/internal/repository"
	"github.com/mansoorceksport/clubhouse/internal/service"
	"github.com/mansoorceksport/clubhouse/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
)

// AppDependencies holds the dependencies required to start the application
type AppDependencies struct {
	Config      *config.Config
	MongoDB     *mongo.Database
	RedisClient *redis.Client
	// Archive stores report snapshots. Nil disables POST /api/reports/archive.
	Archive service.ReportArchive
}

// NewApp creates and configures the Fiber application with the given dependencies
func NewApp(deps AppDependencies) *fiber.App {
	cfg := deps.Config

	// Initialize repositories
	durationRepo := repository.NewMongoDurationRepository(deps.MongoDB)
	membershipRepo := repository.NewMongoMembershipRepository(deps.MongoDB)
	txnRepo := repository.NewMongoTransactionRepository(deps.MongoDB)
	eventRepo := repository.NewMongoEventRepository(deps.MongoDB)
	userRepo := repository.NewMongoUserRepository(deps.MongoDB)
	refreshTokenRepo := repository.NewMongoRefreshTokenRepository(deps.MongoDB)
	maintenanceRepo := repository.NewMongoMaintenanceRepository(deps.MongoDB)

	// Initialize services
	ledger := service.NewLedgerService(txnRepo)
	durationService := service.NewDurationService(durationRepo)
	membershipService := service.NewMembershipService(membershipRepo, durationRepo, ledger)
	eventService := service.NewEventService(eventRepo, membershipRepo, ledger)
	reportService := service.NewReportService(membershipRepo, eventRepo, txnRepo, deps.Archive)
	if deps.RedisClient != nil {
		reportService.WithArchiveIndex(repository.NewRedisArchiveIndex(deps.RedisClient))
	}
	maintenanceService := service.NewMaintenanceService(maintenanceRepo)
	tokenService := service.NewTokenService(cfg.JWT, refreshTokenRepo, userRepo)
	authService := service.NewAuthService(userRepo, tokenService)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cfg.JWT.RefreshTokenExpiry, cfg.Server.CookieSecure)
	membershipHandler := handler.NewMembershipHandler(membershipService)
	durationHandler := handler.NewDurationHandler(durationService)
	maintenanceHandler := handler.NewMaintenanceHandler(maintenanceService)
	transactionHandler := handler.NewTransactionHandler(ledger)
	reportHandler := handler.NewReportHandler(reportService)
	eventHandler := handler.NewEventHandler(eventService)

	app := fiber.New(fiber.Config{
		AppName:      "Clubhouse API",
		ErrorHandler: customErrorHandler,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Correlation-ID",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: cfg.Server.AllowedOrigins != "*",
	}))
	app.Use(telemetry.FiberMiddleware())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "clubhouse-api",
		})
	})

	api := app.Group("/api")

	// Auth endpoints (public)
	loginLimiter := middleware.NewIPRateLimiter(cfg.Server.LoginRatePerMinute, cfg.Server.LoginBurst)
	limiterCtx, stopLimiter := context.WithCancel(context.Background())
	loginLimiter.StartCleanup(limiterCtx, time.Minute)
	app.Hooks().OnShutdown(func() error {
		stopLimiter()
		return nil
	})
	auth := api.Group("/auth")
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", loginLimiter.Handler(), authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", authHandler.Logout)

	authenticated := middleware.VerifyToken(cfg.JWT.Secret)
	adminOnly := middleware.AuthorizeRole(domain.RoleAdmin)
	idempotent := middleware.IdempotencyMiddleware(deps.RedisClient, middleware.DefaultIdempotencyTTL)

	auth.Get("/me", authenticated, authHandler.Me)

	membership := api.Group("/membership", authenticated, idempotent)
	membership.Post("/add", membershipHandler.Create)
	membership.Put("/update/:membershipNumber", membershipHandler.Update)
	membership.Get("/get/:membershipNumber", membershipHandler.Get)
	membership.Get("/list/all", membershipHandler.List)

	maintenance := api.Group("/maintenance", authenticated, idempotent)
	maintenance.Get("/durations", durationHandler.List)
	maintenance.Post("/durations", adminOnly, durationHandler.Create)
	maintenance.Put("/durations/:id", adminOnly, durationHandler.Update)
	maintenance.Delete("/durations/:id", adminOnly, durationHandler.Delete)
	maintenance.Post("/create", adminOnly, maintenanceHandler.Create)
	maintenance.Get("/list", adminOnly, maintenanceHandler.List)
	maintenance.Get("/get/:id", adminOnly, maintenanceHandler.Get)
	maintenance.Put("/update/:id", adminOnly, maintenanceHandler.Update)
	maintenance.Delete("/delete/:id", adminOnly, maintenanceHandler.Delete)

	reports := api.Group("/reports", authenticated)
	reports.Get("/memberships", reportHandler.Memberships)
	reports.Get("/events", reportHandler.Events)
	reports.Get("/dashboard", reportHandler.Dashboard)
	reports.Get("/financial", adminOnly, reportHandler.Financial)
	reports.Post("/archive", adminOnly, reportHandler.Archive)
	reports.Get("/archives", adminOnly, reportHandler.Archives)

	transactions := api.Group("/transactions", authenticated, idempotent)
	transactions.Post("/create", transactionHandler.Create)
	transactions.Get("/list", transactionHandler.List)
	transactions.Get("/get/:id", transactionHandler.Get)
	transactions.Get("/membership/:membershipNumber", transactionHandler.ListByMembership)

	events := api.Group("/events", authenticated, idempotent)
	events.Get("/list", eventHandler.List)
	events.Get("/get/:id", eventHandler.Get)
	events.Get("/members/:id", eventHandler.Members)
	events.Post("/register/:id", eventHandler.Register)
	events.Post("/unregister/:id", eventHandler.Unregister)
	events.Post("/create", adminOnly, eventHandler.Create)
	events.Put("/update/:id", adminOnly, eventHandler.Update)
	events.Delete("/delete/:id", adminOnly, eventHandler.Delete)

	admin := api.Group("/admin", authenticated, adminOnly)
	admin.Get("/users", authHandler.ListUsers)
	admin.Put("/users/:id/verify", authHandler.VerifyUser)

	return app
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "internal server error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		log.Printf("[Server] %s %s: %v", c.Method(), c.Path(), err)
	}

	return c.Status(code).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}
