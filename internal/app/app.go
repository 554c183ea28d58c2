package app

import (
	"context"
	"devoverflow_backend/internal/config"
	"devoverflow_backend/internal/controller"
	"devoverflow_backend/internal/repository"
	"devoverflow_backend/internal/service"
	"devoverflow_backend/pkg/database"
	"devoverflow_backend/pkg/logger"
	"devoverflow_backend/pkg/monitoring"
	"devoverflow_backend/pkg/security"
	"devoverflow_backend/pkg/tracing"
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
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	repos           *repositories
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user        *repository.UserRepository
	question    *repository.QuestionRepository
	answer      *repository.AnswerRepository
	tag         *repository.TagRepository
	interaction *repository.InteractionRepository
	vote        *repository.VoteRepository
}

type services struct {
	user           *service.UserService
	question       *service.QuestionService
	answer         *service.AnswerService
	tag            *service.TagService
	interaction    *service.InteractionService
	vote           *service.VoteService
	recommendation *service.RecommendationService
}

type controllers struct {
	user     *controller.UserController
	question *controller.QuestionController
	answer   *controller.AnswerController
	tag      *controller.TagController
	vote     *controller.VoteController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置热更新入口，逐个通知注册的回调
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config = cfg
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		question:    repository.NewQuestionRepository(db),
		answer:      repository.NewAnswerRepository(db),
		tag:         repository.NewTagRepository(db),
		interaction: repository.NewInteractionRepository(db),
		vote:        repository.NewVoteRepository(db),
	}
}

func (a *App) initServices(repos *repositories, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	s.vote = service.NewVoteService(db)
	s.tag = service.NewTagService(db, repos.tag, repos.question, repos.interaction, rdb)
	s.interaction = service.NewInteractionService(db, repos.interaction, repos.question)
	s.question = service.NewQuestionService(db, repos.question, rdb)
	s.answer = service.NewAnswerService(db, repos.answer, repos.question)
	s.user = service.NewUserService(db, repos.user, repos.question, repos.answer)
	s.recommendation = service.NewRecommendationService(repos.question, repos.interaction, repos.vote)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		user:     controller.NewUserController(s.user, s.tag),
		question: controller.NewQuestionController(s.question, s.interaction, s.recommendation),
		answer:   controller.NewAnswerController(s.answer),
		tag:      controller.NewTagController(s.tag),
		vote:     controller.NewVoteController(s.vote),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
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
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	app.repos = repos
	services := app.initServices(repos, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("devoverflow", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
			}
		}()
	}

	app.registerRoutes(router, controllers, repos, cfg)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
