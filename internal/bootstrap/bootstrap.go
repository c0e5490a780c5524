// Package bootstrap wires configuration, database, services and routes.
package bootstrap

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	appControllers "github.com/coarpuno/recojo/internal/app/controllers"
	appMigrations "github.com/coarpuno/recojo/internal/app/migrations"
	appRepos "github.com/coarpuno/recojo/internal/app/repositories"
	appRoutes "github.com/coarpuno/recojo/internal/app/routes"
	appServices "github.com/coarpuno/recojo/internal/app/services"
	"github.com/coarpuno/recojo/internal/config"
	"github.com/coarpuno/recojo/internal/db"
	appMiddleware "github.com/coarpuno/recojo/internal/middleware"
	pkgAuth "github.com/coarpuno/recojo/internal/pkg/auth"
	"github.com/coarpuno/recojo/internal/pkg/logger"
	"github.com/coarpuno/recojo/internal/pkg/notify"
	pkgWebsocket "github.com/coarpuno/recojo/internal/pkg/websocket"
	"github.com/coarpuno/recojo/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Services          *appServices.Services
	AuthController    *appControllers.AuthController
	ParentController  *appControllers.ParentController
	StudentController *appControllers.StudentController
	PickupController  *appControllers.PickupController
	MenuController    *appControllers.MenuController
	WSHandler         *pkgWebsocket.Handler
	Hub               *pkgWebsocket.Hub
	AuthMiddleware    *appMiddleware.AuthMiddleware
	Repos             *appRepos.Repositories
	JWTService        *pkgAuth.JWTService
	Logger            zerolog.Logger
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

// SetupDatabase establishes the database connection, runs migrations and
// optionally loads the demo data.
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
	migrator := appMigrations.NewMigrator(dbPool)

	migrationsDir := "migrations"
	if _, err := os.Stat(migrationsDir); os.IsNotExist(err) {
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	if err := migrator.MigrateFromDirectory(migrationsDir); err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}

	lgr.Info().Msg("Database migrations successfully applied.")

	if cfg.Database.Seed {
		if err := seed.CreateDefaultData(context.Background(), dbPool, lgr); err != nil {
			// Demo data is a convenience, boot continues without it
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	return dbPool, nil
}

// ParseDurationOrDefault parses a duration string, falling back on error
func ParseDurationOrDefault(value string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	return fallback
}

// BuildDependencies initializes repositories, services and controllers. The
// hub's run loop is started here; it lives for the process lifetime.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Repos = appRepos.NewRepositories(dbPool)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:       cfg.JWT.Secret,
		AccessTokenExp:  ParseDurationOrDefault(cfg.JWT.AccessTokenExpiration, 1*time.Hour),
		RefreshTokenExp: ParseDurationOrDefault(cfg.JWT.RefreshTokenExpiration, 720*time.Hour),
		TokenIssuer:     cfg.JWT.Issuer,
	})

	deps.Hub = pkgWebsocket.NewHub(lgr)
	go deps.Hub.Run()

	notifier := notify.NewConsoleNotifier(lgr)

	deps.Services = appServices.NewServices(deps.Repos, deps.JWTService, deps.Hub, notifier, lgr)

	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.AuthController = appControllers.NewAuthController(deps.Services.AuthService, lgr)
	deps.ParentController = appControllers.NewParentController(deps.Services.ParentService, lgr)
	deps.StudentController = appControllers.NewStudentController(deps.Services.StudentService, lgr)
	deps.PickupController = appControllers.NewPickupController(deps.Services.PickupService, lgr)
	deps.MenuController = appControllers.NewMenuController(deps.Services.MenuService, lgr)

	deps.WSHandler = pkgWebsocket.NewHandler(
		deps.Hub,
		deps.Repos.StudentRepository,
		deps.Repos.ParentRepository,
		lgr,
	)

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

	router := gin.New()
	router.Use(appMiddleware.RequestLogger(lgr))
	router.Use(gin.Recovery())

	appRoutes.SetupRouter(router,
		deps.AuthController,
		deps.ParentController,
		deps.StudentController,
		deps.PickupController,
		deps.MenuController,
		deps.WSHandler,
		deps.AuthMiddleware,
	)

	return router
}
