// Package dependency provides dependency injection for the application.
package dependency

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/team-mirai-volunteer/marumie-backend/config"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/adapter"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/importer"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/organization"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/sankey"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/summary"
	"github.com/team-mirai-volunteer/marumie-backend/internal/application/usecase/transaction"
	"github.com/team-mirai-volunteer/marumie-backend/internal/infra/server/router"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/adapters"
	integrationcache "github.com/team-mirai-volunteer/marumie-backend/internal/integration/cache"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/controller"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/middleware"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/persistence"
)

// Injector holds all application dependencies.
type Injector struct {
	Config *config.Config
	DB     *gorm.DB
	Router *router.Router
}

// NewInjector creates a new dependency injector with all dependencies wired.
// redisClient may be nil; the Sankey cache is then disabled.
func NewInjector(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *Injector {
	// Repositories
	orgRepo := persistence.NewOrganizationRepository(db)
	txnRepo := persistence.NewTransactionRepository(db)

	// Adapters/services
	tokenService := adapters.NewJWTTokenService(cfg.Auth.JWTSecret)
	var sankeyCache adapter.SankeyCache
	if redisClient != nil {
		sankeyCache = integrationcache.NewRedisSankeyCache(redisClient, cfg.Cache.SankeyTTL)
	}

	// Import pipeline
	normalizer := importer.NewEncodingNormalizer(cfg.Import.DefaultCharset)
	classifier := importer.NewClassifier(importer.DefaultClassifierConfig())

	previewUseCase := importer.NewPreviewUseCase(orgRepo, txnRepo, normalizer, classifier)
	commitUseCase := importer.NewCommitUseCase(orgRepo, txnRepo, classifier, sankeyCache, cfg.Import.FiscalYearStartMonth)

	// Organization use cases
	createOrgUseCase := organization.NewCreateOrganizationUseCase(orgRepo)
	listOrgsUseCase := organization.NewListOrganizationsUseCase(orgRepo)
	getOrgUseCase := organization.NewGetOrganizationUseCase(orgRepo)

	// Transaction use cases
	listTransactionsUseCase := transaction.NewListTransactionsUseCase(orgRepo, txnRepo)
	updateTransactionUseCase := transaction.NewUpdateTransactionUseCase(txnRepo, classifier, sankeyCache, cfg.Import.FiscalYearStartMonth)
	deleteTransactionUseCase := transaction.NewDeleteTransactionUseCase(txnRepo, sankeyCache)

	// Public aggregation use cases
	getSummaryUseCase := summary.NewGetSummaryUseCase(orgRepo, txnRepo)
	getGraphUseCase := sankey.NewGetGraphUseCase(orgRepo, txnRepo, sankeyCache)

	// Controllers
	healthController := controller.NewHealthController(func() bool {
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	})
	organizationController := controller.NewOrganizationController(createOrgUseCase, listOrgsUseCase, getOrgUseCase)
	importController := controller.NewImportController(previewUseCase, commitUseCase, cfg.Import.MaxUploadBytes)
	transactionController := controller.NewTransactionController(listTransactionsUseCase, updateTransactionUseCase, deleteTransactionUseCase)
	summaryController := controller.NewSummaryController(getSummaryUseCase)
	sankeyController := controller.NewSankeyController(getGraphUseCase)

	// Middleware
	// Use a generous limit in test environments to keep suites from tripping it
	var uploadRateLimiter *middleware.RateLimiter
	if cfg.Server.Environment == "test" {
		uploadRateLimiter = middleware.NewRateLimiterWithConfig(1000, time.Minute)
	} else {
		uploadRateLimiter = middleware.NewRateLimiter()
	}
	go uploadRateLimiter.CleanupLoop(5 * time.Minute)
	authMiddleware := middleware.NewAuthMiddleware(tokenService)

	appRouter := router.NewRouter(
		healthController,
		organizationController,
		importController,
		transactionController,
		summaryController,
		sankeyController,
		uploadRateLimiter,
		authMiddleware,
	)

	return &Injector{
		Config: cfg,
		DB:     db,
		Router: appRouter,
	}
}
