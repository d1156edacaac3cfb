package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appControllers "github.com/ensab/scolarite/internal/app/controllers"
	appMigrations "github.com/ensab/scolarite/internal/app/migrations"
	appRepos "github.com/ensab/scolarite/internal/app/repositories"
	appRoutes "github.com/ensab/scolarite/internal/app/routes"
	appServices "github.com/ensab/scolarite/internal/app/services"
	"github.com/ensab/scolarite/internal/config"
	"github.com/ensab/scolarite/internal/db"
	appMiddleware "github.com/ensab/scolarite/internal/middleware"
	pkgAuth "github.com/ensab/scolarite/internal/pkg/auth"
	"github.com/ensab/scolarite/internal/pkg/documents"
	"github.com/ensab/scolarite/internal/pkg/filestorage"
	"github.com/ensab/scolarite/internal/pkg/helpers"
	"github.com/ensab/scolarite/internal/pkg/logger"
	"github.com/ensab/scolarite/internal/pkg/metrics"
	"github.com/ensab/scolarite/internal/seed"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	JWTService     *pkgAuth.JWTService
	AuthMiddleware *appMiddleware.AuthMiddleware
	Controllers    appRoutes.Controllers
	Metrics        *metrics.Metrics
	Assets         *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger() (*config.Config, zerolog.Logger, error) {
	configPath := filepath.Join("configs", "config.yaml")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Format: cfg.Logging.Format,
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and
// seeds the default administrator.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*pgxpool.Pool, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	dbPool := database.Pool
	lgr.Info().Msg("Database connection successfully established.")

	migrationsDir := cfg.Database.MigrationsDir
	if _, err := os.Stat(migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Str("path", migrationsDir).Msg("Migrations directory not found")
		return nil, fmt.Errorf("migrations directory not found at %s: %w", migrationsDir, err)
	}

	lgr.Info().Msg("Running database migrations...")
	if err := appMigrations.NewMigrator(dbPool, lgr).MigrateFromDirectory(ctx, migrationsDir); err != nil {
		dbPool.Close()
		lgr.Error().Err(err).Msg("Database migration error")
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	admin := seed.Admin{Username: cfg.Seed.AdminUsername, Password: cfg.Seed.AdminPassword}
	if err := seed.CreateDefaultAdmin(ctx, appRepos.NewRepositories(dbPool), admin, lgr); err != nil {
		// The portal still serves existing accounts without the seed.
		lgr.Error().Err(err).Msg("Failed to create default admin, proceeding anyway...")
	}

	return dbPool, nil
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, dbPool *pgxpool.Pool, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr, Metrics: metrics.New()}
	deps.Repos = appRepos.NewRepositories(dbPool)

	assets, err := filestorage.NewLocalStorage(cfg.Documents.AssetsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize document assets: %w", err)
	}
	deps.Assets = assets

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenExp:    helpers.ParseDuration(cfg.JWT.TokenExpiration, 24*time.Hour),
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	generator := documents.NewGenerator(documents.Institution{
		Name:    cfg.Documents.InstitutionName,
		Short:   cfg.Documents.InstitutionShort,
		Address: cfg.Documents.InstitutionAddress,
		City:    cfg.Documents.InstitutionCity,
		Phone:   cfg.Documents.InstitutionPhone,
	}, assets)

	repos := deps.Repos
	now := appServices.Clock(time.Now)

	authService := appServices.NewAuthService(repos.UserRepository, deps.JWTService, logger.Component("auth"))
	studentService := appServices.NewStudentService(repos.StudentRepository, logger.Component("students"))
	adminService := appServices.NewAdminService(repos.AdminRepository, repos.UserRepository, logger.Component("admins"))
	requestService := appServices.NewRequestService(repos.RequestRepository, repos.StudentRepository, deps.Metrics, now, logger.Component("requests"))
	paymentService := appServices.NewPaymentService(repos.PaymentRepository, repos.StudentRepository, deps.Metrics, now, logger.Component("payments"))
	enrollmentService := appServices.NewEnrollmentService(repos.EnrollmentRepository, repos.StudentRepository, deps.Metrics, now, logger.Component("enrollments"))
	complaintService := appServices.NewComplaintService(repos.ComplaintRepository, repos.StudentRepository, deps.Metrics, now, logger.Component("complaints"))
	gradeService := appServices.NewGradeService(repos.GradeRepository, repos.StudentRepository, logger.Component("grades"))
	statsService := appServices.NewStatsService(repos.StatsRepository, logger.Component("stats"))
	documentService := appServices.NewDocumentService(
		repos.RequestRepository,
		repos.PaymentRepository,
		repos.StudentRepository,
		repos.GradeRepository,
		generator,
		deps.Metrics,
		logger.Component("documents"),
	)

	deps.Controllers = appRoutes.Controllers{
		Auth:       appControllers.NewAuthController(authService, lgr),
		Student:    appControllers.NewStudentController(studentService, documentService),
		Admin:      appControllers.NewAdminController(adminService, statsService),
		Grade:      appControllers.NewGradeController(gradeService),
		Request:    appControllers.NewRequestController(requestService, documentService),
		Payment:    appControllers.NewPaymentController(paymentService, documentService),
		Enrollment: appControllers.NewEnrollmentController(enrollmentService),
		Complaint:  appControllers.NewComplaintController(complaintService),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	appMiddleware.RegisterJSONFieldNames()

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger(lgr), appMiddleware.Metrics(deps.Metrics))

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	return router
}
