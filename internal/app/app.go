package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"seedforge_backend/internal/config"
	"seedforge_backend/internal/controller"
	"seedforge_backend/internal/gamification"
	"seedforge_backend/internal/repository"
	"seedforge_backend/internal/service"
	"seedforge_backend/pkg/database"
	"seedforge_backend/pkg/logger"
	"seedforge_backend/pkg/monitoring"
	"seedforge_backend/pkg/security"
	"seedforge_backend/pkg/tracing"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Engines *service.EngineHolder
}

type repositories struct {
	user    *repository.UserRepository
	profile *repository.LearnerProfileRepository
	project *repository.ProjectRepository
	step    *repository.StepRepository
	plant   *repository.GardenPlantRepository
	ntk     *repository.NeedToKnowRepository
}

type services struct {
	storage     *service.StorageService
	auth        *service.AuthService
	profile     *service.ProfileService
	project     *service.ProjectService
	progression *service.ProgressionService
	garden      *service.GardenService
	dashboard   *service.DashboardService
}

type controllers struct {
	auth      *controller.AuthController
	profile   *controller.ProfileController
	project   *controller.ProjectController
	step      *controller.StepController
	garden    *controller.GardenController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:    repository.NewUserRepository(db),
		profile: repository.NewLearnerProfileRepository(db),
		project: repository.NewProjectRepository(db),
		step:    repository.NewStepRepository(db),
		plant:   repository.NewGardenPlantRepository(db),
		ntk:     repository.NewNeedToKnowRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.profile = service.NewProfileService(repos.profile, repos.user, a.Engines, s.storage)
	s.project = service.NewProjectService(db, repos.project, repos.step, repos.plant, repos.ntk, s.storage)
	s.progression = service.NewProgressionService(db, repos.profile, repos.project, repos.step, repos.plant, a.Engines, rdb)
	s.garden = service.NewGardenService(repos.plant)
	s.dashboard = service.NewDashboardService(repos.profile, repos.project, repos.step, s.garden, a.Engines, rdb)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		profile:   controller.NewProfileController(s.profile),
		project:   controller.NewProjectController(s.project),
		step:      controller.NewStepController(s.project, s.progression),
		garden:    controller.NewGardenController(s.garden),
		dashboard: controller.NewDashboardController(s.dashboard),
		health:    controller.NewHealthController(db),
	}
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

// ReloadConfig 配置热更新入口，当前只换奖励规则表，
// 数据库和服务端口等需要重启才生效
func (a *App) ReloadConfig(cfg *config.Config) {
	a.Engines.Reload(cfg)
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	engine, err := gamification.NewEngine(cfg.Gamification.EngineRules())
	if err != nil {
		logger.Log.Fatal("Invalid progression rules", zap.Error(err))
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Engines: service.NewEngineHolder(engine),
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("seedforge", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
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

	// 等待中断信号优雅地关闭服务器
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
