// Package router sets up the HTTP routing for the application.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/controller"
	"github.com/team-mirai-volunteer/marumie-backend/internal/integration/entrypoint/middleware"
)

// Router holds the Gin engine and controller dependencies.
type Router struct {
	engine                 *gin.Engine
	healthController       *controller.HealthController
	organizationController *controller.OrganizationController
	importController       *controller.ImportController
	transactionController  *controller.TransactionController
	summaryController      *controller.SummaryController
	sankeyController       *controller.SankeyController
	uploadRateLimiter      *middleware.RateLimiter
	authMiddleware         *middleware.AuthMiddleware
}

// NewRouter creates a new router instance with all dependencies.
func NewRouter(
	healthController *controller.HealthController,
	organizationController *controller.OrganizationController,
	importController *controller.ImportController,
	transactionController *controller.TransactionController,
	summaryController *controller.SummaryController,
	sankeyController *controller.SankeyController,
	uploadRateLimiter *middleware.RateLimiter,
	authMiddleware *middleware.AuthMiddleware,
) *Router {
	return &Router{
		healthController:       healthController,
		organizationController: organizationController,
		importController:       importController,
		transactionController:  transactionController,
		summaryController:      summaryController,
		sankeyController:       sankeyController,
		uploadRateLimiter:      uploadRateLimiter,
		authMiddleware:         authMiddleware,
	}
}

// Setup configures and returns the Gin engine with all routes.
func (r *Router) Setup(environment string) *gin.Engine {
	if environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else if environment == "test" {
		gin.SetMode(gin.TestMode)
	}

	r.engine = gin.Default()

	r.setupHealthRoutes()
	r.setupAPIRoutes()

	return r.engine
}

// setupHealthRoutes configures health check endpoints.
func (r *Router) setupHealthRoutes() {
	r.engine.GET("/health", r.healthController.Check)
}

// setupAPIRoutes configures the main API routes.
func (r *Router) setupAPIRoutes() {
	v1 := r.engine.Group("/api/v1")
	{
		if r.organizationController != nil {
			organizations := v1.Group("/organizations")
			{
				organizations.GET("", r.organizationController.List)
				organizations.GET("/:id", r.organizationController.Get)
				if r.authMiddleware != nil {
					organizations.POST("", r.authMiddleware.RequireAdmin(), r.organizationController.Create)
				}
			}
		}

		if r.importController != nil && r.authMiddleware != nil && r.uploadRateLimiter != nil {
			imports := v1.Group("/organizations/:id/import")
			imports.Use(r.authMiddleware.RequireAdmin(), r.uploadRateLimiter.Middleware())
			{
				imports.POST("/preview", r.importController.Preview)
				imports.POST("/commit", r.importController.Commit)
			}
		}

		if r.transactionController != nil {
			v1.GET("/organizations/:id/transactions", r.transactionController.List)
			if r.authMiddleware != nil {
				v1.PATCH("/transactions/:id", r.authMiddleware.RequireAdmin(), r.transactionController.Update)
				v1.DELETE("/transactions/:id", r.authMiddleware.RequireAdmin(), r.transactionController.Delete)
			}
		}

		if r.summaryController != nil {
			v1.GET("/organizations/:id/summary", r.summaryController.Get)
		}

		if r.sankeyController != nil {
			v1.GET("/organizations/:id/sankey", r.sankeyController.Get)
		}
	}
}
