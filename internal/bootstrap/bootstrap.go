package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appAuth "github.com/eren/clubsphere/internal/app/auth"
	appControllers "github.com/eren/clubsphere/internal/app/controllers"
	appMigrations "github.com/eren/clubsphere/internal/app/migrations"
	appRepos "github.com/eren/clubsphere/internal/app/repositories"
	appRoutes "github.com/eren/clubsphere/internal/app/routes"
	appServices "github.com/eren/clubsphere/internal/app/services"
	"github.com/eren/clubsphere/internal/config"
	"github.com/eren/clubsphere/internal/db"
	appMiddleware "github.com/eren/clubsphere/internal/middleware"
	pkgAuth "github.com/eren/clubsphere/internal/pkg/auth"
	"github.com/eren/clubsphere/internal/pkg/logger"
	"github.com/eren/clubsphere/internal/pkg/notifier"
	"github.com/eren/clubsphere/internal/pkg/validation"
	"github.com/eren/clubsphere/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	ClubService            appServices.ClubService
	RoleService            appServices.RoleService
	RecruitmentService     appServices.RecruitmentService
	TripService            appServices.TripService
	AnnouncementService    appServices.AnnouncementService
	UserService            appServices.UserService
	ClubController         *appControllers.ClubController
	RoleController         *appControllers.RoleController
	RecruitmentController  *appControllers.RecruitmentController
	TripController         *appControllers.TripController
	AnnouncementController *appControllers.AnnouncementController
	UserController         *appControllers.UserController
	AuthMiddleware         *appMiddleware.AuthMiddleware
	Repos                  *appRepos.Repositories
	JWTService             *pkgAuth.JWTService
	PermissionEngine       *appAuth.PermissionEngine
	Notifier               notifier.Notifier
	Logger                 zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	logLevel := logger.LogLevel(strings.ToLower(cfg.Logging.Level))
	prettyLog := strings.ToLower(cfg.Logging.Format) == "text"

	logger.Configure(logger.Config{
		Level:  logLevel,
		Pretty: prettyLog,
	})

	lgr := log.Logger
	lgr.Info().Str("logLevel", string(logLevel)).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection and runs migrations.
func SetupDatabase(cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := dbPool.Ping(ctx); err != nil {
		lgr.Error().Err(err).Msg("Failed to ping database")
		dbPool.Close()
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(dbPool, lgr)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(context.Background(), migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
		// Seeding is best-effort; a half-seeded database still serves requests
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})

	deps.PermissionEngine = appAuth.NewPermissionEngine(
		deps.Repos.ClubRepository,
		deps.Repos.RoleRepository,
		deps.Repos.MemberRepository,
	)

	switch cfg.Notifier.Driver {
	case "kafka":
		deps.Notifier = notifier.NewKafkaNotifier(cfg.BrokerList(), cfg.Notifier.Topic, lgr)
	default:
		deps.Notifier = notifier.NewLogNotifier(lgr)
	}

	deps.ClubService = appServices.NewClubService(
		deps.Repos.ClubRepository,
		deps.Repos.RoleRepository,
		deps.Repos.MemberRepository,
		deps.Repos.ViolationRepository,
		deps.Repos.UserRepository,
		deps.PermissionEngine,
		deps.Notifier,
		lgr,
	)
	deps.RoleService = appServices.NewRoleService(deps.Repos.RoleRepository, deps.PermissionEngine, lgr)
	deps.RecruitmentService = appServices.NewRecruitmentService(
		deps.Repos.ApplicationRepository,
		deps.Repos.InvitationRepository,
		deps.Repos.ClubRepository,
		deps.Repos.MemberRepository,
		deps.Repos.UserRepository,
		deps.PermissionEngine,
		deps.Notifier,
		lgr,
	)
	deps.TripService = appServices.NewTripService(
		deps.Repos.TripRepository,
		deps.Repos.MemberRepository,
		deps.PermissionEngine,
		deps.Notifier,
		lgr,
	)
	deps.AnnouncementService = appServices.NewAnnouncementService(
		deps.Repos.AnnouncementRepository,
		deps.Repos.CommentRepository,
		deps.Repos.MemberRepository,
		deps.PermissionEngine,
		lgr,
	)
	deps.UserService = appServices.NewUserService(
		deps.Repos.UserRepository,
		deps.Repos.ClubRepository,
		lgr,
	)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.ClubController = appControllers.NewClubController(deps.ClubService)
	deps.RoleController = appControllers.NewRoleController(deps.RoleService)
	deps.RecruitmentController = appControllers.NewRecruitmentController(deps.RecruitmentService)
	deps.TripController = appControllers.NewTripController(deps.TripService)
	deps.AnnouncementController = appControllers.NewAnnouncementController(deps.AnnouncementService)
	deps.UserController = appControllers.NewUserController(deps.UserService)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if strings.ToLower(cfg.Server.Mode) == "production" {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	validation.RegisterCustomValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(appMiddleware.RequestLogger(lgr))

	appRoutes.SetupRouter(router,
		deps.ClubController,
		deps.RoleController,
		deps.RecruitmentController,
		deps.TripController,
		deps.AnnouncementController,
		deps.UserController,
		deps.AuthMiddleware,
	)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
