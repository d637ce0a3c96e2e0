package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"praktikmaal_backend/internal/config"
	"praktikmaal_backend/internal/controller"
	"praktikmaal_backend/internal/middleware"
	"praktikmaal_backend/internal/repository"
	"praktikmaal_backend/internal/service"
	"praktikmaal_backend/pkg/database"
	"praktikmaal_backend/pkg/logger"
	"praktikmaal_backend/pkg/monitoring"
	"praktikmaal_backend/pkg/security"
	"praktikmaal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App wires the whole tracker together. In "mysql" persistence mode MySQL
// and Redis are required; in "file" mode the goal store is a single JSON
// document, there is no login, and DB, Redis and the auth endpoints are
// absent.
type App struct {
	Config   *config.Config
	Router   *gin.Engine
	DB       *gorm.DB
	Redis    *redis.Client
	services *services
}

type repositories struct {
	user       *repository.UserRepository
	goal       *repository.GoalRepository
	supervisor *repository.SupervisorRepository
}

type services struct {
	gate       *service.SessionGate
	storage    *service.StorageService
	goal       *service.GoalService
	auth       *service.AuthService
	supervisor *service.SupervisorService
}

type controllers struct {
	auth       *controller.AuthController
	goal       *controller.GoalController
	supervisor *controller.SupervisorController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		goal:       repository.NewGoalRepository(db),
		supervisor: repository.NewSupervisorRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, store repository.GoalStore, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.goal = service.NewGoalService(store, s.storage)

	s.gate = service.NewSessionGate(
		func(userID uint) {
			if err := s.goal.Load(context.Background(), userID); err != nil {
				logger.Log.Error("failed to load goals on sign-in", zap.Uint("user", userID), zap.Error(err))
			}
		},
		func(userID uint) {
			s.goal.DropSession(userID)
		},
	)
	go s.gate.Run()

	if repos != nil {
		s.auth = service.NewAuthService(repos.user, rdb, s.gate, cfg)
		s.supervisor = service.NewSupervisorService(repos.supervisor, repos.goal, repos.user, rdb, cfg.Supervisor.SessionHours)
	}

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	c := &controllers{
		goal:   controller.NewGoalController(s.goal),
		health: controller.NewHealthController(db),
	}
	if s.auth != nil {
		c.auth = controller.NewAuthController(s.auth, s.gate)
	}
	if s.supervisor != nil {
		c.supervisor = controller.NewSupervisorController(s.supervisor)
	}
	return c
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg.Server.Mode)

	logger.Log.Info("starting praktikmaal backend",
		zap.String("mode", cfg.Server.Mode),
		zap.String("persistence", cfg.Persistence.Driver))

	app := &App{Config: cfg}

	var repos *repositories
	var store repository.GoalStore
	var rdb *redis.Client

	switch cfg.Persistence.Driver {
	case "file":
		store = repository.NewFileGoalStore(cfg.Persistence.FilePath)
	default:
		migrate := cfg.Server.Mode != "release" || cfg.ForceMigrate
		db, err := database.InitDB(&cfg.Database, migrate)
		if err != nil {
			logger.Log.Fatal("failed to initialize database", zap.Error(err))
		}
		app.DB = db

		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("failed to initialize redis", zap.Error(err))
		}
		app.Redis = rdb

		repos = app.initRepositories(db)
		store = repos.goal
	}

	if cfg.MigrateOnly {
		return app
	}

	services := app.initServices(repos, cfg, store, rdb)
	app.services = services

	// In file mode there is no login; the local user's session is opened at
	// startup.
	if cfg.Persistence.Driver == "file" {
		services.gate.Publish(service.GateEvent{UserID: middleware.LocalUserID, Kind: service.EventSignedIn})
	}

	controllers := app.initControllers(services, app.DB)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("praktikmaal-tracker", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.services != nil && a.services.gate != nil {
		a.services.gate.Close()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
